package guard_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	guard "github.com/taskwell/go-guard"
)

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

func TestFail(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return guard.Fail(c, http.StatusTeapot, "short and stout")
	})

	res, envelope := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusTeapot, res.StatusCode)
	assert.Equal(t, guard.StatusFail, envelope.Status)
	assert.Equal(t, "short and stout", envelope.Error)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"malformed header", guard.ErrMalformedAuthHeader, http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"invalid token", guard.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"wrapped invalid token", guard.WrapInvalidToken(fmt.Errorf("token expired")), http.StatusUnauthorized, "Invalid or expired token"},
		{"forbidden", guard.ErrForbidden, http.StatusForbidden, "Admin access required"},
		{"upstream down", guard.WrapUpstreamUnavailable(fmt.Errorf("dial tcp: refused")), http.StatusInternalServerError, "Internal server error"},
		{"invalid credentials", guard.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"plain error leaks nothing", fmt.Errorf("pq: relation users does not exist"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return guard.RespondError(c, tc.err)
			})

			res, envelope := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.wantStatus, res.StatusCode)
			assert.Equal(t, guard.StatusFail, envelope.Status)
			assert.Equal(t, tc.wantError, envelope.Error)
		})
	}
}
