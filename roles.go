package guard

// Role is the closed set of access levels a caller can hold.
type Role string

const (
	// RoleUser is the default, least-privileged role.
	RoleUser Role = "user"
	// RoleAdmin grants access to the admin route group.
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole coerces free-form input into a Role. It is total: any value
// outside the closed set maps to RoleUser, never to RoleAdmin. Matching is
// case-insensitive and tolerates quoted provider claim values.
func ParseRole(s string) Role {
	if normalizeRole(s) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

func normalizeRole(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '"' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// AllRoles returns the closed role set, least privileged first.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}
