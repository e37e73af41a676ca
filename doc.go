// Package guard implements the request-processing pipeline for a
// multi-tenant HTTP API: token verification, identity resolution,
// role-gated access control, and the structured request logger, composed
// as a linear chain of independent guards around a handler.
//
// Two deployment variants share one contract:
//   - local: self-issued HS256 tokens (TokenService) resolved against the
//     bun-backed credential store (StoreResolver).
//   - keycloak: provider-issued tokens verified via JWKS with audience and
//     realm-role checks (provider/keycloak), resolved purely from claims
//     (ClaimsResolver).
//
// The variant is selected once at startup through Config; the guards in
// middleware/guardware are written against the TokenVerifier and
// IdentityResolver interfaces and never learn which variant is active.
//
// Composition invariant: the authorization guard only runs after the
// authentication guard has attached an Identity to the request context.
// guardware.Pipeline enforces this by layering order; RequireRole still
// rejects with 401 instead of crashing if it is ever mounted bare.
package guard
