// Package metrics provides Prometheus metrics for TuneTree
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for TuneTree
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Repository metrics
	RepoOperationsTotal   *prometheus.CounterVec
	RepoOperationDuration *prometheus.HistogramVec

	// Collection tree metrics
	CollectionSongsTotal      prometheus.Gauge
	CollectionContainersTotal *prometheus.GaugeVec

	// Filter metrics
	QueryParsesTotal   prometheus.Counter
	QueriesTotal       prometheus.Counter
	RowsEvaluatedTotal prometheus.Counter
	RowsAcceptedTotal  prometheus.Counter

	// Scanner metrics
	FilesScannedTotal prometheus.Counter
	FilesSkippedTotal prometheus.Counter

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	// HTTP request metrics
	m.HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunetree_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tunetree_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunetree_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Repository metrics
	m.RepoOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunetree_repo_operations_total",
			Help: "Total number of repository operations",
		},
		[]string{"operation", "status"},
	)

	m.RepoOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tunetree_repo_operation_duration_seconds",
			Help:    "Duration of repository operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Collection tree metrics
	m.CollectionSongsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunetree_collection_songs_total",
			Help: "Number of songs in the collection tree",
		},
	)

	m.CollectionContainersTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tunetree_collection_containers_total",
			Help: "Number of containers per grouping level",
		},
		[]string{"level"},
	)

	// Filter metrics
	m.QueryParsesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tunetree_query_parses_total",
			Help: "Total number of query strings parsed",
		},
	)

	m.QueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tunetree_queries_total",
			Help: "Total number of filter evaluations",
		},
	)

	m.RowsEvaluatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tunetree_rows_evaluated_total",
			Help: "Total number of tree rows tested against a query",
		},
	)

	m.RowsAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tunetree_rows_accepted_total",
			Help: "Total number of tree rows accepted by a query",
		},
	)

	// Scanner metrics
	m.FilesScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tunetree_files_scanned_total",
			Help: "Total number of media files scanned",
		},
	)

	m.FilesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tunetree_files_skipped_total",
			Help: "Total number of audio files skipped as unreadable or untagged",
		},
	)

	// Server metrics
	m.ServerUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunetree_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	go m.updateUptime()

	return m
}

// updateUptime periodically updates the server uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request with its status
func (m *Metrics) RecordHTTPRequest(route string, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordRepoOperation records a repository operation
func (m *Metrics) RecordRepoOperation(operation string, status string, duration time.Duration) {
	m.RepoOperationsTotal.WithLabelValues(operation, status).Inc()
	m.RepoOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordQuery records one filter evaluation over the tree
func (m *Metrics) RecordQuery(rowsEvaluated int, rowsAccepted int) {
	m.QueriesTotal.Inc()
	m.RowsEvaluatedTotal.Add(float64(rowsEvaluated))
	m.RowsAcceptedTotal.Add(float64(rowsAccepted))
}

// UpdateCollectionStats updates collection tree gauges
func (m *Metrics) UpdateCollectionStats(songCount int, containerCounts [3]int) {
	m.CollectionSongsTotal.Set(float64(songCount))
	for level, count := range containerCounts {
		m.CollectionContainersTotal.WithLabelValues(strconv.Itoa(level)).Set(float64(count))
	}
}
