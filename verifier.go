package guard

import (
	"context"
	"strings"
)

// BearerScheme is the only accepted Authorization scheme. The prefix match
// is case-sensitive and the remainder must be non-empty; anything else is
// rejected before a verifier does cryptographic work.
const BearerScheme = "Bearer "

// TokenVerifier validates a raw bearer token and extracts its claims.
// Implementations must be safe for concurrent use; the only state they may
// hold is immutable secret or key material.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

// TokenVerifierFunc adapts a function into a TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, raw string) (*Claims, error)

// Verify satisfies the TokenVerifier interface.
func (f TokenVerifierFunc) Verify(ctx context.Context, raw string) (*Claims, error) {
	if f == nil {
		return nil, ErrInvalidToken
	}
	return f(ctx, raw)
}

// BearerToken extracts the raw token from an Authorization header value.
// Returns ErrMalformedAuthHeader when the header is missing the exact
// "Bearer " prefix or carries an empty token.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, BearerScheme) {
		return "", ErrMalformedAuthHeader
	}
	token := header[len(BearerScheme):]
	if token == "" {
		return "", ErrMalformedAuthHeader
	}
	return token, nil
}
