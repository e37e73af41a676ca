package guard

import "context"

type contextKey struct{ name string }

var identityCtxKey = &contextKey{"identity"}

// WithIdentity attaches the authenticated identity to the context. The
// authentication guard calls this exactly once per request; concurrent
// requests each carry their own context and never observe each other's
// identity.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, ident)
}

// IdentityFromContext extracts the identity attached by the authentication
// guard. Handlers behind the authenticated and admin groups can rely on it
// being present and must not re-validate it.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityCtxKey).(Identity)
	return ident, ok
}
