// Package client holds the browser-side half of the session flow: a cached
// view of the server's authentication state and the finalize-login sequence
// that turns an identity-provider login into a server session.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sweatbook/sweatbook/core"
)

// State is the last known authentication result from the validation endpoint.
type State struct {
	Authenticated bool   `json:"authenticated"`
	UID           string `json:"uid,omitempty"`
	Email         string `json:"email,omitempty"`
}

// SessionState is a single-cell cache over the validation endpoint. The
// first Get fetches; later Gets return the cached result until Invalidate
// bumps the invalidation token. There is no focus-driven revalidation:
// refreshes happen only when explicitly requested, typically after login and
// logout.
type SessionState struct {
	baseURL string
	httpc   *http.Client

	mu            sync.Mutex
	cached        State
	hasCached     bool
	version       uint64 // invalidation token, bumped by Invalidate
	cachedVersion uint64

	subs    map[int]chan State
	nextSub int
}

// NewSessionState creates a session-state cell talking to the given server.
// httpc must carry the session cookie (i.e. have a cookie jar, or be the
// client the login flow used).
func NewSessionState(baseURL string, httpc *http.Client) *SessionState {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &SessionState{
		baseURL: baseURL,
		httpc:   httpc,
		subs:    make(map[int]chan State),
	}
}

// Get returns the current authentication state, fetching from the server
// only when the cache is empty or has been invalidated.
func (s *SessionState) Get(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.hasCached && s.cachedVersion == s.version {
		state := s.cached
		s.mu.Unlock()
		return state, nil
	}
	version := s.version
	s.mu.Unlock()

	state, err := s.fetch(ctx)
	if err != nil {
		return State{}, err
	}

	s.mu.Lock()
	s.cached = state
	s.hasCached = true
	s.cachedVersion = version
	subs := make([]chan State, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- state:
		default: // slow subscriber, drop rather than block
		}
	}

	return state, nil
}

// Invalidate marks the cached state as stale. The next Get fetches again.
func (s *SessionState) Invalidate() {
	s.mu.Lock()
	s.version++
	s.mu.Unlock()
}

// Refresh invalidates and immediately re-fetches.
func (s *SessionState) Refresh(ctx context.Context) (State, error) {
	s.Invalidate()
	return s.Get(ctx)
}

// Subscribe returns a channel receiving every freshly fetched state, and a
// cancel function releasing the subscription.
func (s *SessionState) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 1)
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *SessionState) fetch(ctx context.Context) (State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/me", nil)
	if err != nil {
		return State{}, err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", core.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	var state State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return State{}, fmt.Errorf("malformed session state response: %w", err)
	}

	return state, nil
}
