package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sweatbook/sweatbook/service"
)

const (
	// ContextUIDKey is where the access gate stores the resolved user id.
	ContextUIDKey = "uid"

	// ContextEmailKey is where the access gate stores the resolved email.
	ContextEmailKey = "email"

	// DefaultLoginPath is where unauthenticated navigation is sent.
	DefaultLoginPath = "/login"
)

// GateConfig configures the access gate.
type GateConfig struct {
	// Patterns lists the protected path patterns. A trailing "/*" protects
	// the whole subtree; anything else is matched with path.Match semantics.
	Patterns []string

	// LoginPath is the redirect target for unauthenticated requests.
	// Defaults to DefaultLoginPath.
	LoginPath string
}

// AccessGate intercepts requests to protected paths and requires a valid
// session. A missing cookie and an invalid one behave identically: redirect
// to the login page, with no hint of which case it was. On success the
// resolved identity is attached to the request context and to the uid query
// parameter for downstream handlers.
func AccessGate(auth *service.AuthService, cfg GateConfig) gin.HandlerFunc {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}

	return func(c *gin.Context) {
		if !matchesAny(cfg.Patterns, c.Request.URL.Path) {
			c.Next()
			return
		}

		redirect := func() {
			c.Redirect(http.StatusTemporaryRedirect, loginPath)
			c.Abort()
		}

		raw, ok := ReadSessionCookie(c.Request)
		if !ok {
			redirect()
			return
		}

		session, err := auth.Validate(c.Request.Context(), raw)
		if err != nil {
			redirect()
			return
		}

		c.Set(ContextUIDKey, session.UID)
		c.Set(ContextEmailKey, session.Email)

		q := c.Request.URL.Query()
		q.Set("uid", session.UID)
		c.Request.URL.RawQuery = q.Encode()

		c.Next()
	}
}

// matchesAny reports whether the request path falls under any protected
// pattern.
func matchesAny(patterns []string, reqPath string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if reqPath == prefix || strings.HasPrefix(reqPath, prefix+"/") {
				return true
			}
			continue
		}
		if matched, err := path.Match(pattern, reqPath); err == nil && matched {
			return true
		}
	}
	return false
}
