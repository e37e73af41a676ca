package guard

import "time"

// Identity is the resolved, request-scoped representation of the
// authenticated caller. It is produced once per request by the
// authentication guard and read, never mutated, by everything downstream.
type Identity interface {
	ID() string
	Name() string
	Email() string
	Role() Role
	Verified() bool
}

type identity struct {
	id        string
	name      string
	email     string
	role      Role
	verified  bool
	createdAt *time.Time
	updatedAt *time.Time
}

var _ Identity = identity{}

func (i identity) ID() string     { return i.id }
func (i identity) Name() string   { return i.name }
func (i identity) Email() string  { return i.email }
func (i identity) Verified() bool { return i.verified }

func (i identity) Role() Role {
	if !i.role.IsValid() {
		return RoleUser
	}
	return i.role
}

// NewIdentity builds an Identity with the given subject id and role.
// Profile fields are optional and mostly used by the local variant, which
// has a full user record at hand.
func NewIdentity(id string, role Role, opts ...IdentityOption) Identity {
	ident := identity{id: id, role: role}
	for _, opt := range opts {
		if opt != nil {
			ident = opt(ident)
		}
	}
	return ident
}

// IdentityOption decorates an identity under construction.
type IdentityOption func(identity) identity

// WithProfile attaches display name and email.
func WithProfile(name, email string) IdentityOption {
	return func(i identity) identity {
		i.name = name
		i.email = email
		return i
	}
}

// WithVerified marks the identity's email as verified.
func WithVerified(verified bool) IdentityOption {
	return func(i identity) identity {
		i.verified = verified
		return i
	}
}

// WithTimestamps attaches record timestamps from the credential store.
func WithTimestamps(createdAt, updatedAt *time.Time) IdentityOption {
	return func(i identity) identity {
		i.createdAt = createdAt
		i.updatedAt = updatedAt
		return i
	}
}
