package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sweatbook/sweatbook/core"
)

// User is the identity-provider's view of the signed-in user.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
	Federated     bool
}

// TokenSource is the client-held identity-provider session: whatever signed
// the user in must be able to report the current user, reload their state
// (email verification happens out of band), hand out fresh identity tokens,
// and sign out.
type TokenSource interface {
	CurrentUser(ctx context.Context) (*User, error)
	Reload(ctx context.Context) error
	IDToken(ctx context.Context, forceRefresh bool) (string, error)
	SignOut(ctx context.Context) error
}

// Login drives the finalize and logout sequences against the server.
type Login struct {
	baseURL string
	httpc   *http.Client
	source  TokenSource
	state   *SessionState
}

// NewLogin wires the login flow. state may be nil when no cached session
// state needs refreshing.
func NewLogin(baseURL string, httpc *http.Client, source TokenSource, state *SessionState) *Login {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Login{baseURL: baseURL, httpc: httpc, source: source, state: state}
}

// Finalize turns a completed identity-provider login into a server session.
// It reloads the user first so an out-of-band email verification is picked
// up, enforces the verification gate unless the caller waives it (the
// federated path does), and only reports success once the exchange response
// has been fully received. The caller must never observe "authenticated"
// before the server has accepted the cookie.
func (l *Login) Finalize(ctx context.Context, requireEmailVerified bool) error {
	user, err := l.source.CurrentUser(ctx)
	if err != nil || user == nil {
		return errors.New("no authenticated user; did sign-in complete?")
	}

	if err := l.source.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload user state: %w", err)
	}

	user, err = l.source.CurrentUser(ctx)
	if err != nil || user == nil {
		return errors.New("user state lost during reload")
	}

	if requireEmailVerified && !user.EmailVerified {
		return fmt.Errorf("%w: please click the verification link in your inbox", core.ErrVerificationRequired)
	}

	idToken, err := l.source.IDToken(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to obtain identity token: %w", err)
	}

	if err := l.exchange(ctx, idToken); err != nil {
		return err
	}

	if l.state != nil {
		if _, err := l.state.Refresh(ctx); err != nil {
			return fmt.Errorf("session established but state refresh failed: %w", err)
		}
	}

	return nil
}

// Logout clears the server session cookie and terminates the client-held
// provider session. Both are attempted even when one fails; a half
// logged-out browser is worse than a reported error.
func (l *Login) Logout(ctx context.Context) error {
	serverErr := l.postLogout(ctx)
	providerErr := l.source.SignOut(ctx)

	if l.state != nil {
		l.state.Invalidate()
	}

	return errors.Join(serverErr, providerErr)
}

func (l *Login) exchange(ctx context.Context, idToken string) error {
	payload, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/session/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: session login request failed: %w", core.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	// Drain the body before judging: success is only declared once the
	// response has been read to completion.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading session login response: %w", core.ErrNetworkFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		var parsed struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		return fmt.Errorf("session login failed: %s", msg)
	}

	return nil
}

func (l *Login) postLogout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/session/logout", nil)
	if err != nil {
		return err
	}

	resp, err := l.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: session logout request failed: %w", core.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("session logout failed: %s", resp.Status)
	}

	return nil
}
