// ABOUTME: Unit tests for unlock token generation and verification
// ABOUTME: Tests valid tokens, invalid tokens, and expired tokens

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-key-for-jwt-signing-0123")

func sign(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return token
}

func TestTokenIssuer_ValidToken(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, err := issuer.Generate(DefaultSubject, UnlockScopes, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got.Subject != DefaultSubject {
		t.Errorf("Verify() subject = %q, want %q", got.Subject, DefaultSubject)
	}
	if got.Issuer != Issuer {
		t.Errorf("Verify() issuer = %q, want %q", got.Issuer, Issuer)
	}
	if !got.Allows(ScopeOpen) {
		t.Errorf("Verify() scope = %v, want it to allow %q", got.Scope, ScopeOpen)
	}
}

func TestTokenIssuer_InvalidToken(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	otherToken, err := NewTokenIssuer([]byte("different-secret")).Generate(DefaultSubject, UnlockScopes, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	foreign := sign(t, Claims{Scope: UnlockScopes, RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   DefaultSubject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	noExpiry := sign(t, Claims{Scope: UnlockScopes, RegisteredClaims: jwt.RegisteredClaims{
		Issuer:  Issuer,
		Subject: DefaultSubject,
	}})

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt-token"},
		{name: "malformed JWT", token: "header.payload.signature"},
		{name: "wrong secret", token: otherToken},
		{name: "foreign issuer", token: foreign},
		{name: "no expiry", token: noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, err := issuer.Generate(DefaultSubject, UnlockScopes, -time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestTokenIssuer_ExpiresWithClock(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer.now = func() time.Time { return start }

	token, err := issuer.Generate("reader-2", UnlockScopes, 10*time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := issuer.Verify(token); err != nil {
		t.Fatalf("Verify() before expiry error = %v", err)
	}

	issuer.now = func() time.Time { return start.Add(11 * time.Minute) }
	if _, err := issuer.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() after expiry error = %v, want ErrExpiredToken", err)
	}
}

func TestTokenIssuer_MissingSubject(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, err := issuer.Generate("", UnlockScopes, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Verify() error = %v, want ErrMissingClaim", err)
	}
}

func TestTokenIssuer_ScopeRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, err := issuer.Generate(DefaultSubject, nil, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Allows(ScopeOpen) {
		t.Errorf("Allows(%q) = true for a token issued without scopes", ScopeOpen)
	}
}
