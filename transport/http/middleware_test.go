package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweatbook/sweatbook/core"
)

func expiredSessionCookie(t *testing.T, f *routerFixture, age time.Duration) *http.Cookie {
	t.Helper()

	now := time.Now()
	token, err := f.codec.SessionToToken(&core.Session{
		ID:        uuid.New().String(),
		UID:       "alice-uid",
		Email:     "alice@example.com",
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(-age),
	})
	require.NoError(t, err)

	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func TestGateRedirectsWithoutCookie(t *testing.T) {
	f := newRouterFixture(t, false, nil)

	w := f.do(http.MethodGet, "/protected/profile", nil)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestGateInvalidCookieIndistinguishable(t *testing.T) {
	f := newRouterFixture(t, false, nil)

	missing := f.do(http.MethodGet, "/protected/profile", nil)
	invalid := f.do(http.MethodGet, "/protected/profile", nil,
		&http.Cookie{Name: SessionCookieName, Value: "garbage"})

	// No information leaks about whether a (stale) cookie was present.
	assert.Equal(t, missing.Code, invalid.Code)
	assert.Equal(t, missing.Header().Get("Location"), invalid.Header().Get("Location"))
	assert.Equal(t, missing.Body.String(), invalid.Body.String())
}

func TestGateExpiredCookieRedirects(t *testing.T) {
	f := newRouterFixture(t, false, nil)

	w := f.do(http.MethodGet, "/protected/profile", nil, expiredSessionCookie(t, f, time.Second))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestGateRevokedCookieRedirects(t *testing.T) {
	f := newRouterFixture(t, false, nil)
	cookie := login(t, f, "alice-token")

	logout := f.do(http.MethodPost, "/api/session/logout", nil, cookie)
	require.Equal(t, http.StatusOK, logout.Code)

	w := f.do(http.MethodGet, "/protected/profile", nil, cookie)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
}

func TestGatePassesValidSession(t *testing.T) {
	f := newRouterFixture(t, false, nil)
	cookie := login(t, f, "alice-token")

	w := f.do(http.MethodGet, "/protected/profile", nil, cookie)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid": "alice-uid", "email": "alice@example.com"}`, w.Body.String())
}

func TestGateCoversUnregisteredProtectedPaths(t *testing.T) {
	f := newRouterFixture(t, false, nil)

	w := f.do(http.MethodGet, "/protected/anything/else", nil)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
}

func TestGateBypassesUnprotectedPaths(t *testing.T) {
	f := newRouterFixture(t, false, nil)

	w := f.do(http.MethodGet, "/api/events", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMatchesAny(t *testing.T) {
	patterns := []string{"/protected/*", "/admin"}

	assert.True(t, matchesAny(patterns, "/protected"))
	assert.True(t, matchesAny(patterns, "/protected/bookings"))
	assert.True(t, matchesAny(patterns, "/protected/a/b/c"))
	assert.True(t, matchesAny(patterns, "/admin"))

	assert.False(t, matchesAny(patterns, "/protectedish"))
	assert.False(t, matchesAny(patterns, "/admin/users"))
	assert.False(t, matchesAny(patterns, "/"))
	assert.False(t, matchesAny(nil, "/protected"))
}
