package identity

import (
	"context"
)

var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithSession sets the SessionIdentity in the given context. The session is
// always passed explicitly; there is no ambient security context.
func WithSession(ctx context.Context, session *SessionIdentity) context.Context {
	return context.WithValue(ctx, sessionCtxKey, session)
}

// SessionFromContext finds the session from the context.
func SessionFromContext(ctx context.Context) (*SessionIdentity, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(*SessionIdentity)
	return raw, ok && raw != nil
}
