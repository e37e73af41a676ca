package guard

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor for newly hashed passwords.
const DefaultBcryptCost = 12

// HashPassword generates a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty", errors.CategoryValidation)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), DefaultBcryptCost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// ComparePasswordAndHash validates the cleartext password against the
// stored hash. A mismatch returns ErrInvalidCredentials.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}
	return nil
}

// Authenticator verifies credentials against the local store and mints
// tokens for verified callers. It backs the login/registration endpoints of
// the local deployment variant.
type Authenticator struct {
	store  Users
	tokens *TokenService
}

// NewAuthenticator builds an Authenticator over the given store and token
// service.
func NewAuthenticator(store Users, tokens *TokenService) *Authenticator {
	return &Authenticator{store: store, tokens: tokens}
}

// Login verifies the email/password pair and returns a minted token plus
// the caller's user record. Unknown email and wrong password are
// indistinguishable to the caller.
func (a *Authenticator) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := a.store.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, WrapUpstreamUnavailable(err)
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", nil, err
	}

	token, err := a.tokens.Generate(user.Identity())
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Register creates a new user with role "user", a hashed password, and an
// unverified email.
func (a *Authenticator) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		Verified:     false,
	}

	created, err := a.store.Register(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "failed to register user")
	}
	return created, nil
}
