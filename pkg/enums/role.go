package enums

import "fmt"

// Role describes the allowed values for a user's role attribute.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RolePartner Role = "partner"
)

var validRoles = []Role{
	RoleUser,
	RoleAdmin,
	RolePartner,
}

// IsValid reports whether the value matches the canonical role enum.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts the raw string to Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
