package guardware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	guard "github.com/taskwell/go-guard"
	"github.com/taskwell/go-guard/middleware/reqlog"
)

// Pipeline assembles the guard chain for an application in a fixed order:
// request logging on the outside, then authentication, then authorization.
// Swapping the verifier or resolver changes the identity back end without
// touching the layering.
type Pipeline struct {
	Verifier   guard.TokenVerifier
	Resolver   guard.IdentityResolver
	Logger     *slog.Logger
	ContextKey string
}

// Groups holds the three route groups the pipeline exposes. Handlers
// registered on a group inherit exactly the guards that group carries.
type Groups struct {
	// Public routes carry only the request logger.
	Public fiber.Router

	// Authenticated routes require a verified identity.
	Authenticated fiber.Router

	// Admin routes require a verified identity holding the admin role.
	Admin fiber.Router
}

// Mount installs the request logger on the app and returns the three route
// groups under the given prefixes. Prefixes must be distinct non-empty
// paths: fiber treats a group with an empty prefix as matching every
// request, which would leak the authenticated guards onto public routes.
// Mount panics on a prefix that breaks that rule.
func (p Pipeline) Mount(app *fiber.App, public, authenticated, admin string) Groups {
	prefixes := map[string]bool{}
	for _, prefix := range []string{public, authenticated, admin} {
		if prefix == "" || prefix == "/" {
			panic("guardware: Mount requires non-root group prefixes")
		}
		if prefixes[prefix] {
			panic("guardware: Mount requires distinct group prefixes")
		}
		prefixes[prefix] = true
	}

	app.Use(reqlog.New(reqlog.Config{Logger: p.Logger}))

	cfg := Config{
		Verifier:   p.Verifier,
		Resolver:   p.Resolver,
		ContextKey: p.ContextKey,
	}

	authn := Authenticate(cfg)

	return Groups{
		Public:        app.Group(public),
		Authenticated: app.Group(authenticated, authn),
		Admin:         app.Group(admin, authn, RequireRole(guard.RoleAdmin, cfg)),
	}
}
