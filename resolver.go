package guard

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// IdentityResolver turns verified claims into the request-scoped identity.
// The two deployment variants diverge here: the local store needs a lookup,
// provider claims are self-sufficient. The authentication guard is written
// once against this interface and never learns which variant is active.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *Claims) (Identity, error)
}

// IdentityResolverFunc adapts a function into an IdentityResolver.
type IdentityResolverFunc func(ctx context.Context, claims *Claims) (Identity, error)

// Resolve satisfies the IdentityResolver interface.
func (f IdentityResolverFunc) Resolve(ctx context.Context, claims *Claims) (Identity, error) {
	if f == nil {
		return nil, ErrSubjectNotFound
	}
	return f(ctx, claims)
}

// StoreResolver resolves local-variant claims by fetching the subject's
// profile from the credential store.
type StoreResolver struct {
	store Users
}

var _ IdentityResolver = (*StoreResolver)(nil)

// NewStoreResolver builds a resolver backed by the given store.
func NewStoreResolver(store Users) *StoreResolver {
	return &StoreResolver{store: store}
}

// Resolve parses the subject as a uuid and loads the matching user.
func (r *StoreResolver) Resolve(ctx context.Context, claims *Claims) (Identity, error) {
	if claims == nil {
		return nil, ErrMalformedSubject
	}

	id, err := uuid.Parse(claims.Subject())
	if err != nil {
		return nil, errors.Wrap(err, ErrMalformedSubject.Category, ErrMalformedSubject.Message).
			WithTextCode(ErrMalformedSubject.TextCode).
			WithCode(ErrMalformedSubject.Code)
	}

	user, err := r.store.FindByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errors.Wrap(err, ErrSubjectNotFound.Category, ErrSubjectNotFound.Message).
				WithTextCode(ErrSubjectNotFound.TextCode).
				WithCode(ErrSubjectNotFound.Code)
		}
		return nil, WrapUpstreamUnavailable(err)
	}

	return user.Identity(), nil
}

// ClaimsResolver resolves provider-variant claims without any lookup: the
// token already carries subject and realm roles. It cannot fail for
// well-formed claims, which keeps provider-mode resolution a pure mapping.
type ClaimsResolver struct{}

var _ IdentityResolver = ClaimsResolver{}

// Resolve maps claims straight into an identity. The role is RoleAdmin only
// when the realm roles include it; everything else coerces to RoleUser.
func (ClaimsResolver) Resolve(_ context.Context, claims *Claims) (Identity, error) {
	if claims == nil {
		return nil, ErrMalformedSubject
	}

	role := RoleUser
	if claims.HasRole(RoleAdmin) {
		role = RoleAdmin
	}

	return NewIdentity(claims.Subject(), role), nil
}
