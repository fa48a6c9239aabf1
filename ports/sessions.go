package ports

import "github.com/sweatbook/sweatbook/core"

// SessionCodec converts between session objects and the opaque credential
// string carried by the session cookie.
type SessionCodec interface {
	SessionToToken(session *core.Session) (string, error)
	TokenToSession(token string) (*core.Session, error)
}
