// TuneTree server and library tools
// Serves the collection tree and its query filter over HTTP
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nainya/tunetree/internal/config"
	"github.com/nainya/tunetree/internal/logger"
	"github.com/nainya/tunetree/internal/metrics"
	"github.com/nainya/tunetree/internal/repository"
	"github.com/nainya/tunetree/internal/server"
	"github.com/nainya/tunetree/pkg/collection"
	"github.com/nainya/tunetree/pkg/filter"
	"github.com/nainya/tunetree/pkg/scanner"
)

func main() {
	root := &cobra.Command{
		Use:           "tunetree",
		Short:         "Music collection tree with two-stage query filtering",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newServeCmd(), newScanCmd(), newQueryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.InitGlobalLogger(logger.Config{
		Level:      cfg.Log.Level,
		Pretty:     cfg.Log.Pretty,
		WithCaller: cfg.Log.WithCaller,
	})
	return cfg, logger.GetGlobalLogger(), nil
}

func connectRepo(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repository.SongRepository, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return repository.Connect(dialCtx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection, log)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the library and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			grouping, err := cfg.Grouping()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			log.LogServerStart(cfg.Server.Addr, cfg.Mongo.URI)

			repo, err := connectRepo(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer repo.Close(context.Background())

			songs, err := repo.All(ctx)
			if err != nil {
				return err
			}

			model := collection.NewModel(grouping)
			model.SetSortSkipsArticles(cfg.Library.SkipArticles)
			m := metrics.NewMetrics()
			srv := server.NewServer(cfg.Server.Addr, model, log, m)
			srv.ReplaceLibrary(songs)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newScanCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a music directory into the library",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			dir := cfg.Library.MusicDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no music directory given; pass one or set library.music_dir")
			}

			ctx := cmd.Context()
			songs, err := scanner.New(log, metrics.NewMetrics()).Scan(ctx, dir)
			if err != nil {
				return err
			}
			fmt.Printf("Scanned %d songs from %s\n", len(songs), dir)
			if dryRun {
				return nil
			}

			repo, err := connectRepo(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer repo.Close(context.Background())

			if err := repo.ReplaceAll(ctx, songs); err != nil {
				return err
			}
			fmt.Println("Library stored")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "scan without writing to the library")
	return cmd
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <query string>",
		Short: "Run a filter query against the stored library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			grouping, err := cfg.Grouping()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, err := connectRepo(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer repo.Close(context.Background())

			songs, err := repo.All(ctx)
			if err != nil {
				return err
			}

			model := collection.NewModel(grouping)
			model.SetSortSkipsArticles(cfg.Library.SkipArticles)
			model.AddSongs(songs)

			f := filter.New(model)
			f.SetQuery(strings.Join(args, " "))

			var matched int
			var walk func(item *collection.Item, depth int)
			walk = func(item *collection.Item, depth int) {
				for _, child := range item.Children {
					if !f.AcceptsRow(child) {
						continue
					}
					fmt.Printf("%*s%s\n", depth*2, "", child.DisplayText())
					if child.Kind == collection.KindSong {
						matched++
					}
					walk(child, depth+1)
				}
			}
			walk(model.Root(), 0)

			fmt.Printf("%d of %d songs matched\n", matched, model.TotalSongs())
			return nil
		},
	}
}
