package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService mints and verifies self-issued HS256 tokens against a
// process-wide secret. It implements TokenVerifier for the local deployment
// variant. The zero value is not usable; construct with NewTokenService.
//
// All fields are set at startup and never mutated, so a single instance is
// safe for concurrent use across requests.
type TokenService struct {
	signingKey []byte
	expiration time.Duration
	issuer     string
	audience   jwt.ClaimStrings
}

var _ TokenVerifier = (*TokenService)(nil)

// NewTokenService creates a TokenService. expiration bounds the validity
// window of minted tokens; issuer and audience are optional and, when set,
// are stamped into minted tokens and enforced during verification.
func NewTokenService(signingKey []byte, expiration time.Duration, issuer string, audience ...string) *TokenService {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &TokenService{
		signingKey: signingKey,
		expiration: expiration,
		issuer:     issuer,
		audience:   jwt.ClaimStrings(audience),
	}
}

// Generate mints a signed token for the identity's subject id.
func (ts *TokenService) Generate(ident Identity) (string, error) {
	if ident == nil || ident.ID() == "" {
		return "", errors.New("cannot mint token without a subject", errors.CategoryInternal)
	}

	now := time.Now()
	claims := NewClaims(ident.ID(), now, now.Add(ts.expiration))
	claims.Issuer = ts.issuer
	claims.Audience = ts.audience

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}
	return signed, nil
}

// Verify parses and validates a raw token, returning its claims. Signature
// mismatch, expiry, and every other parse failure collapse into
// ErrInvalidToken; the distinction survives only in the wrapped cause.
// Every configured audience must be present in the token's "aud" claim,
// which jwt.WithAudience cannot express for more than one value, so the
// check runs after parsing.
func (ts *TokenService) Verify(_ context.Context, raw string) (*Claims, error) {
	opts := make([]jwt.ParserOption, 0, 2)
	opts = append(opts, jwt.WithExpirationRequired())
	if ts.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, opts...)
	if err != nil {
		return nil, WrapInvalidToken(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	for _, audience := range ts.audience {
		if !hasAudience(claims.Audience, audience) {
			return nil, WrapAudienceMismatch(jwt.ErrTokenInvalidAudience)
		}
	}
	return claims, nil
}

func hasAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
