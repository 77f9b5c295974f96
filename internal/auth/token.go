// ABOUTME: Unlock tokens: HS256 JWTs whose scope claim lists what the bearer may do
// ABOUTME: Issued after a correct lock code; checked by RequireUnlock on gated endpoints

package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
	ErrScope        = errors.New("token lacks scope")
)

// DefaultSubject is the subject given to tokens issued for the launcher itself.
const DefaultSubject = "launcher"

// Issuer is the iss claim of every unlock token.
const Issuer = "bookos-launcher"

// Scopes an unlock token can grant.
const (
	ScopeOpen = "open"
)

// UnlockScopes is what a correct lock code grants.
var UnlockScopes = []string{ScopeOpen}

// Claims are the claims of an unlock token.
type Claims struct {
	Scope []string `json:"scope"`
	jwt.RegisteredClaims
}

// Allows reports whether the token grants scope.
func (c *Claims) Allows(scope string) bool {
	return slices.Contains(c.Scope, scope)
}

// TokenVerifier checks a token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// TokenIssuer signs and verifies unlock tokens with one shared secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer creates a new issuer with the given secret
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret, now: time.Now}
}

// Generate signs a token for subject granting scopes until expiresIn from now.
func (v *TokenIssuer) Generate(subject string, scopes []string, expiresIn time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Scope: slices.Clone(scopes),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify checks signature, issuer and expiry, and requires a subject.
func (v *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	return claims, nil
}
