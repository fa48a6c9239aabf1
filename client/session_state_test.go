package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweatbook/sweatbook/core"
)

func newCountingServer(t *testing.T, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/me", r.URL.Path)
		hits.Add(1)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestSessionStateCachesResult(t *testing.T) {
	ctx := context.Background()
	srv, hits := newCountingServer(t, `{"authenticated": true, "uid": "alice-uid", "email": "alice@example.com"}`)

	s := NewSessionState(srv.URL, nil)

	first, err := s.Get(ctx)
	require.NoError(t, err)
	assert.True(t, first.Authenticated)
	assert.Equal(t, "alice-uid", first.UID)

	second, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// The second Get came from the cache.
	assert.Equal(t, int64(1), hits.Load())
}

func TestSessionStateInvalidate(t *testing.T) {
	ctx := context.Background()
	srv, hits := newCountingServer(t, `{"authenticated": false}`)

	s := NewSessionState(srv.URL, nil)

	_, err := s.Get(ctx)
	require.NoError(t, err)

	s.Invalidate()

	_, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestSessionStateRefresh(t *testing.T) {
	ctx := context.Background()
	srv, hits := newCountingServer(t, `{"authenticated": false}`)

	s := NewSessionState(srv.URL, nil)

	_, err := s.Get(ctx)
	require.NoError(t, err)

	_, err = s.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestSessionStateSubscribe(t *testing.T) {
	ctx := context.Background()
	srv, _ := newCountingServer(t, `{"authenticated": true, "uid": "alice-uid"}`)

	s := NewSessionState(srv.URL, nil)

	ch, cancel := s.Subscribe()
	defer cancel()

	_, err := s.Get(ctx)
	require.NoError(t, err)

	select {
	case state := <-ch:
		assert.True(t, state.Authenticated)
		assert.Equal(t, "alice-uid", state.UID)
	default:
		t.Fatal("expected a state notification")
	}
}

func TestSessionStateNetworkFailure(t *testing.T) {
	s := NewSessionState("http://127.0.0.1:1", nil)

	_, err := s.Get(context.Background())
	assert.ErrorIs(t, err, core.ErrNetworkFailure)
}
