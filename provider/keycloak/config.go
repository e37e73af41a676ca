package keycloak

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/golang-jwt/jwt/v5"
)

// Config holds the Keycloak realm configuration shared by the token
// verifier and the admin client.
type Config struct {
	// URL is the Keycloak base URL (e.g. "https://auth.example.com").
	URL string

	// Realm is the realm name tokens are issued under.
	Realm string

	// Audience is the expected "aud" claim. Empty skips the audience
	// check.
	Audience string

	// ClientID and ClientSecret identify the confidential client used
	// for admin API access via the client credentials grant.
	ClientID     string
	ClientSecret string

	// RefreshInterval is how often the JWKS cache refreshes in the
	// background. Default: 1 hour.
	RefreshInterval time.Duration

	// HTTPClient overrides the client used for JWKS fetches and admin
	// API calls.
	HTTPClient *http.Client

	// Logger receives background JWKS refresh failures. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// KeyFunc overrides JWKS resolution entirely. Useful for tests.
	KeyFunc jwt.Keyfunc
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required, is.URL),
		validation.Field(&c.Realm, validation.Required),
	)
}

func (c Config) baseURL() string {
	return strings.TrimSuffix(strings.TrimSpace(c.URL), "/")
}

func (c Config) realmURL() string {
	return c.baseURL() + "/realms/" + c.Realm
}

// CertsURL is the realm's JWKS endpoint.
func (c Config) CertsURL() string {
	return c.realmURL() + "/protocol/openid-connect/certs"
}

// TokenURL is the realm's token endpoint.
func (c Config) TokenURL() string {
	return c.realmURL() + "/protocol/openid-connect/token"
}

// AdminUsersURL is the realm's admin users resource.
func (c Config) AdminUsersURL() string {
	return c.baseURL() + "/admin/realms/" + c.Realm + "/users"
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) refreshInterval() time.Duration {
	if c.RefreshInterval > 0 {
		return c.RefreshInterval
	}
	return time.Hour
}
