// Package config loads TuneTree configuration from files and environment
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nainya/tunetree/pkg/collection"
)

// Config holds the full runtime configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Library LibraryConfig `mapstructure:"library"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// MongoConfig configures the song repository backend.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// LibraryConfig configures the music library and its tree grouping.
type LibraryConfig struct {
	MusicDir     string    `mapstructure:"music_dir"`
	GroupBy      [3]string `mapstructure:"group_by"`
	SkipArticles bool      `mapstructure:"skip_articles"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Pretty     bool   `mapstructure:"pretty"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// Load reads configuration from an optional file path plus TUNETREE_
// prefixed environment variables, applying defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "tunetree")
	v.SetDefault("mongo.collection", "songs")
	v.SetDefault("library.music_dir", "")
	v.SetDefault("library.group_by", []string{"albumartist", "album", "none"})
	v.SetDefault("library.skip_articles", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.with_caller", false)

	v.SetEnvPrefix("TUNETREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Grouping parses the configured grouping level names.
func (c *Config) Grouping() (collection.Grouping, error) {
	var grouping collection.Grouping
	for i, name := range c.Library.GroupBy {
		g, err := collection.ParseGroupBy(name)
		if err != nil {
			return grouping, fmt.Errorf("group_by level %d: %w", i, err)
		}
		grouping[i] = g
	}
	return grouping, nil
}
