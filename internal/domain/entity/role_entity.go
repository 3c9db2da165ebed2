package entity

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

// Role is the authorization role carried by a user and by its access tokens.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// ParseRole maps a case-insensitive name to a Role. An empty name yields
// RoleEmployee.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "employee":
		return RoleEmployee, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", shared.NewError(shared.CodeValidation, "role.parse", fmt.Sprintf("unknown role %q", name), ErrValidation)
}

func (r Role) String() string { return string(r) }

// Status is the account lifecycle state. Persisted as a small integer.
type Status int16

const (
	StatusActive      Status = 1
	StatusDeactivated Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusDeactivated:
		return "Deactivated"
	}
	return fmt.Sprintf("Status(%d)", int16(s))
}
