package http

import "net/http"

// SessionCookieName is the cookie the session credential travels in. The
// browser never reads its value; only the server verifies it.
const SessionCookieName = "session"

// NewSessionCookie encodes a session credential into the cookie carrying it.
// Flags are fixed by policy: HttpOnly, scoped to the whole application,
// SameSite=Strict. Secure is omitted only in local development so the flow
// can be exercised over plain HTTP.
func NewSessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearSessionCookie returns the immediately-expiring cookie that removes the
// session credential from the browser. Secure is always set here; clearing a
// cookie over HTTP is harmless.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ReadSessionCookie extracts the session credential from a request, if any.
// Absence is a normal state, not an error.
func ReadSessionCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
