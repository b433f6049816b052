package domain

import (
	"strings"

	dErrors "sigilo/pkg/domain-errors"
)

// Role is the requester's professional role as asserted by the clinic
// context provider. The engine trusts it; disclosure policy keys on it.
type Role string

const (
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RoleAdmin        Role = "admin"
)

// validRoles is the single source of truth for accepted roles.
var validRoles = map[Role]bool{
	RoleDoctor:       true,
	RoleNurse:        true,
	RoleReceptionist: true,
	RoleAdmin:        true,
}

// ParseRole constructs a Role from external input.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !validRoles[role] {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported requester role")
	}
	return role, nil
}
