package statsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/fantasyfecha/fantasy-api/internal/platform/logging"
	"github.com/fantasyfecha/fantasy-api/internal/platform/resilience"
	"github.com/fantasyfecha/fantasy-api/internal/usecase"
)

func newTestClient(t *testing.T, srv *httptest.Server, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		Token:          "feed-token",
		Timeout:        2 * time.Second,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestMatchPlayerStats_FiltersToRequestedPlayers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/matches/m-001/ratings", r.URL.Path)
		require.Equal(t, "Bearer feed-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"player_id": "pl-1", "rating": 8.2, "minutes": 90, "goals": 1},
				{"player_id": "pl-2", "rating": 6.4, "minutes": 63},
				{"player_id": "pl-other", "rating": 7.0, "minutes": 90},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, resilience.CircuitBreakerConfig{Enabled: false})

	rows, err := client.MatchPlayerStats(context.Background(), "m-001", []string{"pl-1", "pl-2"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "pl-1", rows[0].PlayerID)
	require.Equal(t, "m-001", rows[0].MatchID)
	require.Equal(t, 8.2, rows[0].Rating)
	require.Equal(t, 1, rows[0].Goals)
}

func TestMatchPlayerStats_ClampsRating(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"player_id": "pl-1", "rating": 11.5, "minutes": 90},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, resilience.CircuitBreakerConfig{Enabled: false})

	rows, err := client.MatchPlayerStats(context.Background(), "m-001", []string{"pl-1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 10.0, rows[0].Rating)
}

func TestMatchPlayerStats_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"player_id": "pl-1", "rating": 7.5, "minutes": 90}},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, resilience.CircuitBreakerConfig{Enabled: false})
	client.maxRetries = 1

	rows, err := client.MatchPlayerStats(context.Background(), "m-001", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int32(2), calls.Load())
}

func TestMatchPlayerStats_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	_, err := client.MatchPlayerStats(context.Background(), "m-001", nil)
	require.Error(t, err)

	_, err = client.MatchPlayerStats(context.Background(), "m-002", nil)
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestMatchPlayerStats_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, resilience.CircuitBreakerConfig{Enabled: false})
	client.maxRetries = 3

	_, err := client.MatchPlayerStats(context.Background(), "m-404", nil)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}
