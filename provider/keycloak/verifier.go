package keycloak

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	guard "github.com/taskwell/go-guard"
)

// realmClaims is the Keycloak token shape: standard registered claims plus
// realm roles under realm_access and per-client roles under resource_access.
type realmClaims struct {
	jwt.RegisteredClaims
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
	ResourceAccess map[string]struct {
		Roles []string `json:"roles"`
	} `json:"resource_access"`
}

// roleNames merges realm roles with the client roles of the given audience.
// An empty audience takes realm roles only.
func (rc realmClaims) roleNames(audience string) []string {
	names := rc.RealmAccess.Roles
	if audience == "" {
		return names
	}
	if client, ok := rc.ResourceAccess[audience]; ok {
		names = append(names, client.Roles...)
	}
	return names
}

// Verifier validates Keycloak-issued JWTs against the realm's JWKS.
type Verifier struct {
	config  Config
	keyFunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
}

// NewVerifier builds a Verifier for the configured realm. Unless
// Config.KeyFunc overrides key resolution, the realm JWKS is fetched
// eagerly and kept fresh in the background until Close is called.
func NewVerifier(cfg Config) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("keycloak: invalid config: %w", err)
	}

	v := &Verifier{config: cfg}

	if cfg.KeyFunc != nil {
		v.keyFunc = cfg.KeyFunc
		return v, nil
	}

	logger := cfg.logger()
	jwks, err := keyfunc.Get(cfg.CertsURL(), keyfunc.Options{
		Client: cfg.httpClient(),
		RefreshErrorHandler: func(err error) {
			logger.Error("failed to refresh realm JWK set", slog.String("error", err.Error()))
		},
		RefreshInterval:   cfg.refreshInterval(),
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("keycloak: failed to get JWK set from %s: %w", cfg.CertsURL(), err)
	}

	v.jwks = jwks
	v.keyFunc = jwks.Keyfunc
	return v, nil
}

// Close stops the background JWKS refresh.
func (v *Verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Verify implements guard.TokenVerifier. Audience mismatches and every
// other verification failure collapse into the same external rejection;
// the distinction survives only in the wrapped cause.
func (v *Verifier) Verify(ctx context.Context, raw string) (*guard.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	var rc realmClaims
	token, err := jwt.ParseWithClaims(raw, &rc, v.keyFunc, opts...)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenInvalidAudience) {
			return nil, guard.WrapAudienceMismatch(err)
		}
		return nil, guard.WrapInvalidToken(err)
	}
	if !token.Valid {
		return nil, guard.WrapInvalidToken(jwt.ErrTokenUnverifiable)
	}

	claims := &guard.Claims{RegisteredClaims: rc.RegisteredClaims}
	for _, name := range rc.roleNames(v.config.Audience) {
		claims.Roles = append(claims.Roles, guard.ParseRole(name))
	}
	return claims, nil
}
