// ABOUTME: Tests for session propagation through context
// ABOUTME: Covers attach, retrieve and the absent case

package auth

import (
	"context"
	"testing"
)

func TestSessionFromContext(t *testing.T) {
	if s := SessionFromContext(context.Background()); s != nil {
		t.Errorf("SessionFromContext(empty) = %+v, want nil", s)
	}

	ctx := WithSession(context.Background(), &Session{Subject: DefaultSubject})
	s := SessionFromContext(ctx)
	if s == nil || s.Subject != DefaultSubject {
		t.Errorf("SessionFromContext() = %+v, want subject %q", s, DefaultSubject)
	}
}
