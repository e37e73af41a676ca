package guard

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Mode selects the identity back-end a deployment runs with. Exactly one is
// active per process, chosen at startup and fixed for the process lifetime.
type Mode string

const (
	// ModeLocal verifies self-issued HMAC tokens against the credential store.
	ModeLocal Mode = "local"
	// ModeKeycloak delegates verification to the external identity provider.
	ModeKeycloak Mode = "keycloak"
)

// Config holds the guard pipeline's startup configuration. It is read once
// at boot and shared read-only across all requests afterwards.
type Config struct {
	// Mode picks the active deployment variant.
	Mode Mode

	// SigningKey is the HS256 secret for the local variant.
	SigningKey string

	// TokenExpiration bounds the validity window of minted tokens.
	TokenExpiration time.Duration

	// Issuer is stamped into minted tokens and enforced on verification
	// when set.
	Issuer string

	// Audience values are stamped into minted tokens and enforced on
	// verification when set.
	Audience []string
}

// Validate checks the configuration for the selected mode.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Mode, validation.Required, validation.In(ModeLocal, ModeKeycloak)),
		validation.Field(&c.TokenExpiration, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return err
	}

	if c.Mode == ModeLocal {
		return validation.ValidateStruct(&c,
			validation.Field(&c.SigningKey, validation.Required, validation.Length(32, 0)),
		)
	}
	return nil
}

// TokenService builds the local-variant token service from the config.
func (c Config) TokenService() *TokenService {
	return NewTokenService([]byte(c.SigningKey), c.TokenExpiration, c.Issuer, c.Audience...)
}
