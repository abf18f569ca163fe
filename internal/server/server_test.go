// Tests for the HTTP API using an in-memory collection tree
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/tunetree/internal/logger"
	"github.com/nainya/tunetree/internal/metrics"
	"github.com/nainya/tunetree/pkg/collection"
	"github.com/nainya/tunetree/pkg/song"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.Metrics
)

// sharedMetrics avoids double registration on the default Prometheus
// registry across tests.
func sharedMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewMetrics()
	})
	return testMetrics
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	model := collection.NewModel(collection.DefaultGrouping)
	model.AddSongs([]*song.Song{
		{ID: "1", AlbumArtist: "Fleet Foxes", Artist: "Fleet Foxes", Album: "Helplessness Blues",
			Title: "Montezuma", Year: 2011, Track: 1},
		{ID: "2", AlbumArtist: "Radiohead", Artist: "Radiohead", Album: "In Rainbows",
			Title: "Nude", Year: 2007, Track: 3},
	})

	log := logger.NewLogger(logger.Config{Level: "error", Output: io.Discard})
	return NewServer(":0", model, log, sharedMetrics())
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/search?q=year%3D2011", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "year=2011", resp.Query)
	require.Len(t, resp.Songs, 1)
	assert.Equal(t, "Montezuma", resp.Songs[0].Title)
	// The matching song's artist and album containers stay visible.
	assert.Equal(t, 2, resp.Containers)
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/search", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 4, resp.Containers)
}

func TestSongsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/songs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int          `json:"total"`
		Songs []*song.Song `json:"songs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Songs, 2)
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Songs      int      `json:"songs"`
		Grouping   []string `json:"grouping"`
		Containers []int    `json:"containers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Songs)
	assert.Equal(t, []string{"albumartist", "album", "none"}, resp.Grouping)
	assert.Equal(t, []int{2, 2, 0}, resp.Containers)
}

func TestSetGroupingEndpoint(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string][]string{"levels": {"yearalbum"}})
	w := doRequest(t, s, http.MethodPut, "/api/v1/grouping", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/v1/stats", nil)
	var resp struct {
		Grouping   []string `json:"grouping"`
		Containers []int    `json:"containers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"yearalbum", "none", "none"}, resp.Grouping)
	assert.Equal(t, []int{2, 0, 0}, resp.Containers)
}

func TestSetGroupingRejectsUnknownLevel(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string][]string{"levels": {"bogus"}})
	w := doRequest(t, s, http.MethodPut, "/api/v1/grouping", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, doRequest(t, s, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, s, http.MethodGet, "/readyz", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, s, http.MethodGet, "/metrics", nil).Code)
}

func TestReplaceLibrary(t *testing.T) {
	s := newTestServer(t)

	s.ReplaceLibrary([]*song.Song{
		{ID: "9", AlbumArtist: "Beach House", Album: "Bloom", Title: "Myth", Year: 2012},
	})

	w := doRequest(t, s, http.MethodGet, "/api/v1/songs", nil)
	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}
