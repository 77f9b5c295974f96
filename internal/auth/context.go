// ABOUTME: Unlock session carried through request handlers
// ABOUTME: Provides WithSession/SessionFromContext for propagating it via context

package auth

import (
	"context"
)

// Session identifies the unlocked device behind a request.
type Session struct {
	Subject string
	Scope   []string
}

type sessionContextKey struct{}

// WithSession returns a new context with the Session attached.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext retrieves the Session from the context, returning nil if not present.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionContextKey{}).(*Session)
	return s
}
