package currency

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Alicia-Alexia/sub-manager/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.ERROR)
}

func TestRatesClientFetchAndCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `{"USDBRL":{"bid":"5.4321"},"EURBRL":{"bid":"6.1000"}}`)
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, time.Hour, testLogger())

	snap, err := client.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.InDelta(t, 5.4321, snap.USD, 1e-9)
	assert.InDelta(t, 6.1, snap.EUR, 1e-9)

	// Second call inside the TTL reuses the snapshot, no second request.
	again, err := client.Current(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRatesClientDegradedWhenUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, time.Hour, testLogger())

	snap, err := client.Current(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRatesClientServesStaleSnapshotOnFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"USDBRL":{"bid":"5.00"},"EURBRL":{"bid":"6.00"}}`)
	}))
	defer srv.Close()

	// TTL of zero forces a refresh attempt on every call.
	client := NewRatesClient(srv.URL, time.Nanosecond, testLogger())

	snap, err := client.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	fail.Store(true)
	stale, err := client.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stale)
	assert.InDelta(t, snap.USD, stale.USD, 1e-9)
}

func TestRatesClientRejectsMalformedBid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"USDBRL":{"bid":"not-a-number"},"EURBRL":{"bid":"6.00"}}`)
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, time.Hour, testLogger())

	snap, err := client.Current(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}
