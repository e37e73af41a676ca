package keycloak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	guard "github.com/taskwell/go-guard"
)

// AdminUser is the subset of the Keycloak user representation the admin
// API exposes that callers need.
type AdminUser struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Enabled          bool   `json:"enabled"`
	EmailVerified    bool   `json:"emailVerified"`
	CreatedTimestamp int64  `json:"createdTimestamp"`
}

// AdminClient talks to the Keycloak admin REST API using the client
// credentials grant. A fresh service token is requested per call; admin
// operations are rare enough that caching is not worth the refresh
// bookkeeping.
type AdminClient struct {
	config Config
	client *http.Client
}

// NewAdminClient creates an admin client for the configured realm.
func NewAdminClient(cfg Config) (*AdminClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("keycloak: invalid config: %w", err)
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("keycloak: admin client requires client credentials")
	}
	return &AdminClient{config: cfg, client: cfg.httpClient()}, nil
}

// ListUsers returns every user in the realm.
func (a *AdminClient) ListUsers(ctx context.Context) ([]AdminUser, error) {
	token, err := a.serviceToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.AdminUsersURL(), nil)
	if err != nil {
		return nil, guard.WrapUpstreamUnavailable(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := a.client.Do(req)
	if err != nil {
		return nil, guard.WrapUpstreamUnavailable(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, guard.WrapUpstreamUnavailable(adminError("list users", res))
	}

	var users []AdminUser
	if err := json.NewDecoder(res.Body).Decode(&users); err != nil {
		return nil, guard.WrapUpstreamUnavailable(err)
	}
	return users, nil
}

// DeleteUser removes a user from the realm by Keycloak id.
func (a *AdminClient) DeleteUser(ctx context.Context, id string) error {
	token, err := a.serviceToken(ctx)
	if err != nil {
		return err
	}

	endpoint := a.config.AdminUsersURL() + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return guard.WrapUpstreamUnavailable(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := a.client.Do(req)
	if err != nil {
		return guard.WrapUpstreamUnavailable(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		return guard.WrapUpstreamUnavailable(adminError("delete user", res))
	}
	return nil
}

// serviceToken obtains an access token for the confidential client via the
// client credentials grant.
func (a *AdminClient) serviceToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.config.ClientID},
		"client_secret": {a.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.TokenURL(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", guard.WrapUpstreamUnavailable(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := a.client.Do(req)
	if err != nil {
		return "", guard.WrapUpstreamUnavailable(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", guard.WrapUpstreamUnavailable(adminError("service token", res))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", guard.WrapUpstreamUnavailable(err)
	}
	if body.AccessToken == "" {
		return "", guard.WrapUpstreamUnavailable(fmt.Errorf("keycloak: token endpoint returned no access_token"))
	}
	return body.AccessToken, nil
}

func adminError(op string, res *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("keycloak: %s failed with status %d: %s", op, res.StatusCode, strings.TrimSpace(string(detail)))
}
