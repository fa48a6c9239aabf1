package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sweatbook/sweatbook/core"
	"github.com/sweatbook/sweatbook/ports"
	"github.com/sweatbook/sweatbook/service"
)

// stateCookieName carries the CSRF state for the federated login round trip.
// SameSite=Lax because the issuer redirects back cross-site.
const stateCookieName = "oauth_state"

// FederatedFlow is the slice of the identity provider the federated login
// handlers need.
type FederatedFlow interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// Handlers contains the HTTP handlers for the booking application.
type Handlers struct {
	auth      *service.AuthService
	bookings  *service.BookingService
	catalog   ports.Catalog
	federated FederatedFlow
	logger    *slog.Logger
	devMode   bool
}

// NewHandlers creates the handler set. federated may be nil, which disables
// the federated login routes.
func NewHandlers(
	auth *service.AuthService,
	bookings *service.BookingService,
	catalog ports.Catalog,
	federated FederatedFlow,
	logger *slog.Logger,
	devMode bool,
) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		auth:      auth,
		bookings:  bookings,
		catalog:   catalog,
		federated: federated,
		logger:    logger,
		devMode:   devMode,
	}
}

// SessionLogin exchanges a verified identity token for the session cookie.
// Unlike validation, exchange is an explicit user action expecting success,
// so invalid credentials are hard 401s here.
func (h *Handlers) SessionLogin(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing idToken"})
		return
	}

	token, session, err := h.auth.Exchange(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredential) || errors.Is(err, core.ErrCredentialExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":  "Invalid ID token",
				"detail": err.Error(),
			})
			return
		}

		h.logger.ErrorContext(c.Request.Context(), "session exchange failed", "error", err)
		h.internalError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	http.SetCookie(c.Writer, NewSessionCookie(token, maxAge, !h.devMode))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me reports the current authentication state. A missing or invalid cookie
// is a normal result, never a non-200: anonymous visitors are expected.
func (h *Handlers) Me(c *gin.Context) {
	raw, ok := ReadSessionCookie(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	session, err := h.auth.Validate(c.Request.Context(), raw)
	if err != nil {
		// Soft failure: show the logged-out state rather than an error page.
		h.logger.WarnContext(c.Request.Context(), "session verification failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"uid":           session.UID,
		"email":         session.Email,
	})
}

// SessionLogout clears the session cookie and revokes the credential. Always
// 200: logging out an already-logged-out browser is a no-op, not a failure.
func (h *Handlers) SessionLogout(c *gin.Context) {
	raw, _ := ReadSessionCookie(c.Request)

	if err := h.auth.Logout(c.Request.Context(), raw); err != nil {
		h.logger.WarnContext(c.Request.Context(), "session revocation failed", "error", err)
	}

	http.SetCookie(c.Writer, ClearSessionCookie())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Events serves the event catalog. A broken catalog degrades to a single
// fallback entry so the listing page always renders.
func (h *Handlers) Events(c *gin.Context) {
	events, err := h.catalog.Events(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to load event catalog", "error", err)
		events = []core.Event{{
			ID:    "fallback-1",
			Title: "Fallback Session",
			Time:  time.Now().UTC(),
		}}
	}

	c.JSON(http.StatusOK, events)
}

// ListBookings returns all bookings.
func (h *Handlers) ListBookings(c *gin.Context) {
	c.JSON(http.StatusOK, h.bookings.List(c.Request.Context()))
}

// CreateBooking books a spot on an event.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId" binding:"required"`
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	booking := h.bookings.Create(c.Request.Context(), req.EventID, req.Name, req.Email)
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// Profile is a protected view of the caller's identity. The access gate has
// already resolved the session before this handler runs.
func (h *Handlers) Profile(c *gin.Context) {
	uid, exists := c.Get(ContextUIDKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":   uid,
		"email": c.GetString(ContextEmailKey),
	})
}

// FederatedStart redirects the browser to the federated identity provider.
func (h *Handlers) FederatedStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		h.internalError(c, err)
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   !h.devMode,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, h.federated.AuthCodeURL(state))
}

// FederatedCallback finishes the federated login: code for identity token,
// identity token for session cookie. The email-verification gate does not
// apply here; federated providers are trusted to have verified the address.
// Navigation-time failures redirect to the login page instead of erroring.
func (h *Handlers) FederatedCallback(c *gin.Context) {
	// The state cookie is single-use; clear it before any redirect is
	// written, or the Set-Cookie header never makes it out.
	stateCookie, err := c.Request.Cookie(stateCookieName)
	http.SetCookie(c.Writer, &http.Cookie{
		Name: stateCookieName, Value: "", Path: "/", MaxAge: -1,
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})

	if err != nil || stateCookie.Value == "" || c.Query("state") != stateCookie.Value {
		h.logger.WarnContext(c.Request.Context(), "federated callback state mismatch")
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		return
	}

	idToken, err := h.federated.ExchangeCode(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "federated code exchange failed", "error", err)
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		return
	}

	token, session, err := h.auth.Exchange(c.Request.Context(), idToken)
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "federated session exchange failed", "error", err)
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	http.SetCookie(c.Writer, NewSessionCookie(token, maxAge, !h.devMode))
	c.Redirect(http.StatusFound, "/")
}

// internalError writes a 500. Detail and stack are revealed only in a
// development configuration.
func (h *Handlers) internalError(c *gin.Context, err error) {
	if h.devMode {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"stack": string(debug.Stack()),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
