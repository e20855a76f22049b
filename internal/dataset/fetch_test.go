package dataset_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dashboard-go/internal/dataset"
	"energy-dashboard-go/internal/types"
)

func fetchOpts() dataset.FetchOptions {
	return dataset.FetchOptions{RequestTimeout: time.Second, MaxElapsedTime: 10 * time.Second}
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	ds, err := dataset.Fetch(context.Background(), srv.URL, fetchOpts())
	require.NoError(t, err)
	assert.Equal(t, types.Year("2023"), ds.LatestYear)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	_, err := dataset.Fetch(context.Background(), srv.URL, fetchOpts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_MalformedIsPermanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"sources": []}`))
	}))
	defer srv.Close()

	_, err := dataset.Fetch(context.Background(), srv.URL, fetchOpts())
	require.ErrorIs(t, err, types.ErrMalformedDataset)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dataset.Fetch(ctx, srv.URL, fetchOpts())
	require.Error(t, err)
}
