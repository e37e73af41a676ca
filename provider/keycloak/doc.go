// Package keycloak implements the external identity provider variant:
// token verification against a Keycloak realm's JWKS, audience
// enforcement, realm role extraction, and a small admin API client for
// user management via the client credentials grant.
package keycloak
