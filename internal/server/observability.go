// Observability middleware and endpoints for metrics and profiling
package server

import (
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsMiddleware records request counts, latency and in-flight gauge
// per route.
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		s.m.HTTPRequestsInFlight.Inc()
		defer s.m.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		s.m.RecordHTTPRequest(route, status, time.Since(start))
	}
}

// mountObservability exposes health, Prometheus and pprof endpoints on
// the API server.
func (s *Server) mountObservability() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "tunetree"})
	})
	s.engine.GET("/readyz", func(c *gin.Context) {
		s.mu.RLock()
		songs := s.model.TotalSongs()
		s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{"status": "ready", "songs": songs})
	})

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	debug := s.engine.Group("/debug/pprof")
	debug.GET("/", gin.WrapF(pprof.Index))
	debug.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	debug.GET("/profile", gin.WrapF(pprof.Profile))
	debug.GET("/symbol", gin.WrapF(pprof.Symbol))
	debug.GET("/trace", gin.WrapF(pprof.Trace))
	debug.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	debug.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	debug.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	debug.GET("/block", gin.WrapH(pprof.Handler("block")))
	debug.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
}
