package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded, verified payload of a bearer token. The local
// verifier populates the registered claims only; the provider verifier
// additionally carries the realm roles it extracted from the token.
//
// A Claims value is request-scoped: verifiers build it per call and nothing
// retains it past the request.
type Claims struct {
	jwt.RegisteredClaims
	Roles []Role `json:"roles,omitempty"`
}

// Subject returns the subject claim.
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// IssuedAt returns the issued-at time, zero when absent.
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expires returns the expiration time, zero when absent.
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// HasRole reports whether the claims carry the given role.
func (c *Claims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NewClaims builds claims for a subject with the given validity window.
// Used by the token service when minting; iat must precede exp.
func NewClaims(subject string, issuedAt, expiresAt time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}
