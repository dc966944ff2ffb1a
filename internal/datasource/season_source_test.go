package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSeasonJSON = `{
  "matches": {
    "2021-08-14|Arsenal|Chelsea": {
      "date": "2021-08-14",
      "homeTeam": "Arsenal",
      "awayTeam": "Chelsea"
    }
  }
}`

func testClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	return NewRateLimitedHTTPClient(cfg, nil)
}

func TestSeasonSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2021-22.json", r.URL.Path)
		w.Write([]byte(validSeasonJSON))
	}))
	defer server.Close()

	dataDir := t.TempDir()
	source := NewSeasonSource(testClient(), server.URL, dataDir, nil)

	require.NoError(t, source.Fetch(context.Background(), "2021-22"))

	data, err := os.ReadFile(filepath.Join(dataDir, "2021-22.json"))
	require.NoError(t, err)
	assert.JSONEq(t, validSeasonJSON, string(data))
}

func TestSeasonSourceFetchRejectsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	dataDir := t.TempDir()
	existing := filepath.Join(dataDir, "2021-22.json")
	require.NoError(t, os.WriteFile(existing, []byte(validSeasonJSON), 0o644))

	source := NewSeasonSource(testClient(), server.URL, dataDir, nil)
	err := source.Fetch(context.Background(), "2021-22")
	require.Error(t, err)

	// The bad download must not clobber the existing file
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.JSONEq(t, validSeasonJSON, string(data))
}

func TestSeasonSourceFetchRejectsEmptySeason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches": {}}`))
	}))
	defer server.Close()

	source := NewSeasonSource(testClient(), server.URL, t.TempDir(), nil)
	err := source.Fetch(context.Background(), "2021-22")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matches")
}

func TestSeasonSourceFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewSeasonSource(testClient(), server.URL, t.TempDir(), nil)
	err := source.Fetch(context.Background(), "1999-00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestSeasonSourceFetchAllContinuesPastFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(validSeasonJSON))
	}))
	defer server.Close()

	dataDir := t.TempDir()
	source := NewSeasonSource(testClient(), server.URL, dataDir, nil)

	err := source.FetchAll(context.Background(), []string{"bad", "2021-22"})
	require.Error(t, err)

	// The good season still landed
	_, statErr := os.Stat(filepath.Join(dataDir, "2021-22.json"))
	assert.NoError(t, statErr)
}

func TestRateLimitedClientCircuitBreaker(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	cfg.Timeout = 100 * time.Millisecond
	client := NewRateLimitedHTTPClient(cfg, nil)

	// Unroutable target; both attempts fail and trip the breaker
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "http://127.0.0.1:1")
		require.Error(t, err)
	}

	_, err := client.Get(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}
