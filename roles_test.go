package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	guard "github.com/taskwell/go-guard"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, guard.RoleUser.IsValid())
	assert.True(t, guard.RoleAdmin.IsValid())
	assert.False(t, guard.Role("root").IsValid())
	assert.False(t, guard.Role("").IsValid())
	assert.False(t, guard.Role("Admin").IsValid())
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected guard.Role
	}{
		{"admin", "admin", guard.RoleAdmin},
		{"user", "user", guard.RoleUser},
		{"mixed case admin", "Admin", guard.RoleAdmin},
		{"upper case admin", "ADMIN", guard.RoleAdmin},
		{"quoted admin claim", `"admin"`, guard.RoleAdmin},
		{"padded admin", "  admin  ", guard.RoleAdmin},
		{"unknown value", "superuser", guard.RoleUser},
		{"empty", "", guard.RoleUser},
		{"garbage", "!!&%", guard.RoleUser},
		{"near miss", "admins", guard.RoleUser},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, guard.ParseRole(tc.input))
		})
	}
}

func TestParseRole_NeverElevates(t *testing.T) {
	// Any input that is not exactly the admin role must coerce down.
	for _, input := range []string{"", "ADMIN!", "admin2", "administrator", "aDmInX"} {
		assert.Equal(t, guard.RoleUser, guard.ParseRole(input), "input %q", input)
	}
}

func TestAllRoles(t *testing.T) {
	roles := guard.AllRoles()
	assert.Equal(t, []guard.Role{guard.RoleUser, guard.RoleAdmin}, roles)
}
