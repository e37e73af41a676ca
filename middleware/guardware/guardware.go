package guardware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	guard "github.com/taskwell/go-guard"
	"github.com/taskwell/go-guard/middleware/reqlog"
)

// DefaultContextKey is the fiber locals key the authenticated identity is
// stored under.
const DefaultContextKey = "identity"

// Config defines the configuration shared by the pipeline guards.
type Config struct {
	// Verifier validates bearer tokens. Required for Authenticate.
	Verifier guard.TokenVerifier

	// Resolver turns verified claims into an identity. Required for
	// Authenticate.
	Resolver guard.IdentityResolver

	// ContextKey is the locals key for the identity.
	ContextKey string

	// ErrorHandler converts a guard failure into a response. The default
	// records the cause for the request logger and writes the uniform
	// failure envelope.
	ErrorHandler func(*fiber.Ctx, error) error
}

func (cfg Config) withDefaults() Config {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}
	return cfg
}

// DefaultErrorHandler preserves the internal cause for the completion log
// event and answers with the minimal failure envelope. Authentication-path
// failures all surface as the same 401; upstream failures as a generic 500.
func DefaultErrorHandler(c *fiber.Ctx, err error) error {
	reqlog.SetError(c, err)
	return guard.RespondError(c, err)
}

// Authenticate returns the authentication guard. Per request it extracts
// the bearer token, verifies it, resolves the identity, and attaches the
// identity to the request context before continuing inward. Any failure
// short-circuits with the same external 401 regardless of internal cause;
// inner stages are never invoked for a rejected request.
func Authenticate(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = cfg.withDefaults()

	if cfg.Verifier == nil {
		panic("guardware: Authenticate requires a TokenVerifier")
	}
	if cfg.Resolver == nil {
		panic("guardware: Authenticate requires an IdentityResolver")
	}

	return func(c *fiber.Ctx) error {
		raw, err := guard.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Verifier.Verify(c.UserContext(), raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		ident, err := cfg.Resolver.Resolve(c.UserContext(), claims)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, ident)
		c.SetUserContext(guard.WithIdentity(c.UserContext(), ident))

		return c.Next()
	}
}

// RequireRole returns the authorization guard for an exact required role.
// There is no role hierarchy: an admin does not satisfy a user requirement
// and vice versa. A missing identity means the guard was mounted without
// Authenticate in front of it; that is a composition bug, answered with a
// 401 rather than a crash.
func RequireRole(required guard.Role, config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = cfg.withDefaults()

	return func(c *fiber.Ctx) error {
		ident, ok := IdentityFromCtx(c, cfg.ContextKey)
		if !ok {
			return cfg.ErrorHandler(c, errMissingIdentity)
		}

		if ident.Role() != required {
			return cfg.ErrorHandler(c, roleRequired(required))
		}

		return c.Next()
	}
}

// IdentityFromCtx reads the identity attached by Authenticate, checking the
// fiber locals first and the request context second.
func IdentityFromCtx(c *fiber.Ctx, key ...string) (guard.Identity, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	if ident, ok := c.Locals(k).(guard.Identity); ok {
		return ident, true
	}
	return guard.IdentityFromContext(c.UserContext())
}

// errMissingIdentity marks an authorization guard reached without a prior
// authentication guard on the same chain.
var errMissingIdentity = errors.New("authorization guard reached without an identity", errors.CategoryAuth).
	WithTextCode(guard.TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized).
	WithMetadata(map[string]any{"hint": "mount Authenticate before RequireRole"})

func roleRequired(required guard.Role) error {
	message := "Admin access required"
	if required != guard.RoleAdmin {
		message = string(required) + " role required"
	}
	return errors.New(message, guard.ErrForbidden.Category).
		WithTextCode(guard.ErrForbidden.TextCode).
		WithCode(guard.ErrForbidden.Code).
		WithMetadata(map[string]any{"required_role": required.String()})
}
