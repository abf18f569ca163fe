// Package server implements the TuneTree HTTP API
package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nainya/tunetree/internal/logger"
	"github.com/nainya/tunetree/internal/metrics"
	"github.com/nainya/tunetree/pkg/collection"
	"github.com/nainya/tunetree/pkg/filter"
	"github.com/nainya/tunetree/pkg/song"
)

// Server serves the collection tree and its query filter over HTTP.
// The model is guarded by a single RW mutex: queries only read, while
// grouping changes and library reloads rebuild the tree.
type Server struct {
	model *collection.Model
	mu    sync.RWMutex

	engine *gin.Engine
	http   *http.Server
	log    *logger.Logger
	m      *metrics.Metrics
}

// NewServer creates the API server around an existing collection model.
func NewServer(addr string, model *collection.Model, log *logger.Logger, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		model:  model,
		engine: engine,
		log:    log,
		m:      m,
		http: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	engine.Use(s.metricsMiddleware())

	api := engine.Group("/api/v1")
	api.GET("/search", s.handleSearch)
	api.GET("/songs", s.handleSongs)
	api.GET("/stats", s.handleStats)
	api.PUT("/grouping", s.handleSetGrouping)

	s.mountObservability()
	return s
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.LogServerReady(s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.LogServerShutdown()
	return s.http.Shutdown(ctx)
}

// ReplaceLibrary swaps the songs the tree is built from.
func (s *Server) ReplaceLibrary(songs []*song.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model.RemoveSongs(s.model.Songs())
	s.model.AddSongs(songs)
	s.updateCollectionStats()
}

func (s *Server) updateCollectionStats() {
	var containers [3]int
	for level := range containers {
		containers[level] = s.model.ContainerCount(level)
	}
	s.m.UpdateCollectionStats(s.model.TotalSongs(), containers)
}

// searchResponse is the wire shape of one search call.
type searchResponse struct {
	Query      string       `json:"query"`
	Total      int          `json:"total"`
	Evaluated  int          `json:"evaluated"`
	Containers int          `json:"containers"`
	Songs      []*song.Song `json:"songs"`
}

// handleSearch evaluates the query against every tree row and returns
// the visible songs.
func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")

	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	f := filter.New(s.model)
	f.SetQuery(query)
	s.m.QueryParsesTotal.Inc()

	var songs []*song.Song
	var evaluated, accepted, containers int
	var walk func(*collection.Item)
	walk = func(item *collection.Item) {
		for _, child := range item.Children {
			evaluated++
			if f.AcceptsRow(child) {
				accepted++
				if child.Kind == collection.KindSong {
					songs = append(songs, child.Song)
				} else if child.Kind == collection.KindContainer {
					containers++
				}
			}
			walk(child)
		}
	}
	walk(s.model.Root())

	s.m.RecordQuery(evaluated, accepted)
	s.log.LogQuery(query, evaluated, accepted, time.Since(start))

	c.JSON(http.StatusOK, searchResponse{
		Query:      query,
		Total:      len(songs),
		Evaluated:  evaluated,
		Containers: containers,
		Songs:      songs,
	})
}

func (s *Server) handleSongs(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	songs := s.model.Songs()
	sort.Slice(songs, func(a, b int) bool {
		return collection.SortTextForSong(songs[a]) < collection.SortTextForSong(songs[b])
	})
	c.JSON(http.StatusOK, gin.H{"total": len(songs), "songs": songs})
}

func (s *Server) handleStats(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grouping := s.model.GroupBy()
	levels := make([]string, 0, len(grouping))
	containers := make([]int, 0, len(grouping))
	for i, g := range grouping {
		levels = append(levels, g.String())
		containers = append(containers, s.model.ContainerCount(i))
	}

	c.JSON(http.StatusOK, gin.H{
		"songs":      s.model.TotalSongs(),
		"grouping":   levels,
		"containers": containers,
	})
}

type groupingRequest struct {
	Levels []string `json:"levels" binding:"required,min=1,max=3"`
}

// handleSetGrouping rebuilds the tree under a new grouping.
func (s *Server) handleSetGrouping(c *gin.Context) {
	var req groupingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var grouping collection.Grouping
	for i, name := range req.Levels {
		g, err := collection.ParseGroupBy(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		grouping[i] = g
	}

	s.mu.Lock()
	s.model.SetGroupBy(grouping)
	s.updateCollectionStats()
	s.mu.Unlock()

	s.log.Info("Grouping changed").Strs("levels", req.Levels).Send()
	c.JSON(http.StatusOK, gin.H{"grouping": req.Levels})
}
