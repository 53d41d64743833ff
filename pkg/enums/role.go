package enums

import "fmt"

// Role is the coarse access role carried in the access token.
type Role string

const (
	RoleBorrower   Role = "borrower"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

var validRoles = []Role{RoleBorrower, RoleSupervisor, RoleAdmin}

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
