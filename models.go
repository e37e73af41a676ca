package guard

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential-store record backing the local deployment variant.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          Role       `bun:"role,notnull" json:"role"`
	Verified      bool       `bun:"verified" json:"verified"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Identity maps the record into the request-scoped identity shape.
func (u *User) Identity() Identity {
	return NewIdentity(
		u.ID.String(),
		ParseRole(string(u.Role)),
		WithProfile(u.Name, u.Email),
		WithVerified(u.Verified),
		WithTimestamps(u.CreatedAt, u.UpdatedAt),
	)
}

func prepareUserDefaults(u *User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if !u.Role.IsValid() {
		u.Role = RoleUser
	}
}
