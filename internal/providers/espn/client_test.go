package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/leg-tracker/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchScoreboard(t *testing.T) {
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"events": [{"id": "401"}]}`))
	}))
	defer server.Close()

	client := New("football/nfl", WithBaseURL(server.URL))
	doc, err := client.FetchScoreboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/football/nfl/scoreboard", gotPath)
	assert.NotEmpty(t, gotAgent)
	assert.Len(t, doc["events"], 1)
}

func TestFetchGameSummary(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("event")
		w.Write([]byte(`{"header": {}}`))
	}))
	defer server.Close()

	client := New("football/nfl", WithBaseURL(server.URL))
	_, err := client.FetchGameSummary(context.Background(), "401547417")

	require.NoError(t, err)
	assert.Equal(t, "401547417", gotQuery)
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	client := New("football/nfl", WithBaseURL(server.URL), WithRetry(retry.NewRetryPolicy(3, time.Millisecond)))
	_, err := client.FetchScoreboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetch_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unknown event", http.StatusNotFound)
	}))
	defer server.Close()

	client := New("football/nfl", WithBaseURL(server.URL), WithRetry(retry.NewRetryPolicy(3, time.Millisecond)))
	_, err := client.FetchGameSummary(context.Background(), "nope")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "status=404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := New("football/nfl", WithBaseURL(server.URL))
	_, err := client.FetchScoreboard(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestFetch_HonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := New("football/nfl", WithBaseURL(server.URL))
	_, err := client.FetchScoreboard(ctx)

	assert.Error(t, err)
}
