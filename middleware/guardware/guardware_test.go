package guardware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	guard "github.com/taskwell/go-guard"
	"github.com/taskwell/go-guard/middleware/guardware"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

// recordingVerifier counts invocations so tests can assert the guard
// short-circuits before doing cryptographic work.
type recordingVerifier struct {
	inner guard.TokenVerifier
	calls int
}

func (r *recordingVerifier) Verify(ctx context.Context, raw string) (*guard.Claims, error) {
	r.calls++
	return r.inner.Verify(ctx, raw)
}

type failureEnvelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, failureEnvelope) {
	t.Helper()
	res, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	var envelope failureEnvelope
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &envelope), "body: %s", body)
	}
	return res, envelope
}

type fixture struct {
	app      *fiber.App
	tokens   *guard.TokenService
	verifier *recordingVerifier
	handled  *int
}

// localIdentities resolves claims against a fixed set of identities keyed
// by subject, standing in for the credential store.
func localIdentities(idents map[string]guard.Identity) guard.IdentityResolver {
	return guard.IdentityResolverFunc(func(_ context.Context, claims *guard.Claims) (guard.Identity, error) {
		ident, ok := idents[claims.Subject()]
		if !ok {
			return nil, guard.ErrSubjectNotFound
		}
		return ident, nil
	})
}

func newFixture(t *testing.T, idents map[string]guard.Identity) fixture {
	t.Helper()

	tokens := guard.NewTokenService(testSigningKey, time.Hour, "test-issuer")
	verifier := &recordingVerifier{inner: tokens}
	handled := 0

	cfg := guardware.Config{
		Verifier: verifier,
		Resolver: localIdentities(idents),
	}

	app := fiber.New()

	handler := func(c *fiber.Ctx) error {
		handled++
		ident, ok := guardware.IdentityFromCtx(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"subject": ident.ID(), "role": ident.Role()})
	}

	authn := guardware.Authenticate(cfg)
	app.Get("/me", authn, handler)
	app.Get("/admin", authn, guardware.RequireRole(guard.RoleAdmin, cfg), handler)
	app.Get("/orphan", guardware.RequireRole(guard.RoleAdmin, cfg), handler)

	return fixture{app: app, tokens: tokens, verifier: verifier, handled: &handled}
}

func bearer(t *testing.T, tokens *guard.TokenService, ident guard.Identity) string {
	t.Helper()
	token, err := tokens.Generate(ident)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticate(t *testing.T) {
	user := guard.NewIdentity("user-1", guard.RoleUser)
	admin := guard.NewIdentity("admin-1", guard.RoleAdmin)
	idents := map[string]guard.Identity{"user-1": user, "admin-1": admin}

	t.Run("missing header rejected before verification", func(t *testing.T) {
		fx := newFixture(t, idents)

		res, envelope := doRequest(t, fx.app, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "fail", envelope.Status)
		assert.Equal(t, "Missing or invalid Authorization header", envelope.Error)
		assert.Zero(t, fx.verifier.calls)
		assert.Zero(t, *fx.handled)
	})

	t.Run("lowercase scheme rejected", func(t *testing.T) {
		fx := newFixture(t, idents)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "bearer sometoken")
		res, envelope := doRequest(t, fx.app, req)

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "Missing or invalid Authorization header", envelope.Error)
		assert.Zero(t, fx.verifier.calls)
	})

	t.Run("invalid token rejected with uniform message", func(t *testing.T) {
		fx := newFixture(t, idents)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")
		res, envelope := doRequest(t, fx.app, req)

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "Invalid or expired token", envelope.Error)
		assert.Equal(t, 1, fx.verifier.calls)
		assert.Zero(t, *fx.handled)
	})

	t.Run("unknown subject rejected with uniform message", func(t *testing.T) {
		fx := newFixture(t, idents)

		ghost := guard.NewIdentity("ghost", guard.RoleUser)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, fx.tokens, ghost))
		res, envelope := doRequest(t, fx.app, req)

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "Invalid or expired token", envelope.Error)
		assert.Zero(t, *fx.handled)
	})

	t.Run("valid token reaches the handler with the identity attached", func(t *testing.T) {
		fx := newFixture(t, idents)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, fx.tokens, user))
		res, err := fx.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		res.Body.Close()

		assert.Equal(t, "user-1", body["subject"])
		assert.Equal(t, "user", body["role"])
		assert.Equal(t, 1, *fx.handled)
	})

	t.Run("panics without a verifier", func(t *testing.T) {
		assert.Panics(t, func() {
			guardware.Authenticate(guardware.Config{Resolver: localIdentities(nil)})
		})
		assert.Panics(t, func() {
			guardware.Authenticate(guardware.Config{Verifier: &recordingVerifier{}})
		})
	})
}

func TestRequireRole(t *testing.T) {
	user := guard.NewIdentity("user-1", guard.RoleUser)
	admin := guard.NewIdentity("admin-1", guard.RoleAdmin)
	idents := map[string]guard.Identity{"user-1": user, "admin-1": admin}

	t.Run("user role refused admin access", func(t *testing.T) {
		fx := newFixture(t, idents)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, fx.tokens, user))
		res, envelope := doRequest(t, fx.app, req)

		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		assert.Equal(t, "fail", envelope.Status)
		assert.Equal(t, "Admin access required", envelope.Error)
		assert.Zero(t, *fx.handled)
	})

	t.Run("admin role admitted", func(t *testing.T) {
		fx := newFixture(t, idents)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, fx.tokens, admin))
		res, err := fx.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 1, *fx.handled)
	})

	t.Run("no role hierarchy between distinct roles", func(t *testing.T) {
		fx := newFixture(t, idents)

		// an admin asking for a user-gated route is refused the same way
		app := fiber.New()
		cfg := guardware.Config{Verifier: fx.tokens, Resolver: localIdentities(idents)}
		app.Get("/user-only",
			guardware.Authenticate(cfg),
			guardware.RequireRole(guard.RoleUser, cfg),
			func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) },
		)

		req := httptest.NewRequest(http.MethodGet, "/user-only", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, fx.tokens, admin))
		res, envelope := doRequest(t, app, req)

		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		assert.Equal(t, "user role required", envelope.Error)
	})

	t.Run("missing identity answers 401 not a crash", func(t *testing.T) {
		fx := newFixture(t, idents)

		res, envelope := doRequest(t, fx.app, httptest.NewRequest(http.MethodGet, "/orphan", nil))
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "fail", envelope.Status)
		assert.Zero(t, *fx.handled)
	})

	t.Run("invalid token on admin route yields 401 not 403", func(t *testing.T) {
		fx := newFixture(t, idents)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer junk")
		res, envelope := doRequest(t, fx.app, req)

		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "Invalid or expired token", envelope.Error)
	})
}
