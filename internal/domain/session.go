// Package domain holds the entities of the three product lines and the
// descriptors that turn each of them into a list screen.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the role of the signed-in administrator.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleCommercial Role = "commercial"
	RolePharmacist Role = "pharmacist"
	RoleCashier    Role = "cashier"
	RoleSecurity   Role = "security"
)

// Roles lists every role.
var Roles = []Role{RoleAdmin, RoleManager, RoleCommercial, RolePharmacist, RoleCashier, RoleSecurity}

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role name, ignoring case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// ErrForbidden is returned when a screen is not visible to the admin.
var ErrForbidden = errors.New("screen not available for this role")

// Admin is the signed-in administrator. It is read-only for screens.
type Admin struct {
	ID   int
	Name string
	Role Role
	// Service scopes a commercial to one travel service (e.g. VisaCanada).
	Service string
}

// Validate checks the session identity.
func (a Admin) Validate() error {
	if a.ID <= 0 {
		return fmt.Errorf("invalid admin id: %d", a.ID)
	}
	if !a.Role.IsValid() {
		return fmt.Errorf("invalid admin role: %q", a.Role)
	}
	if a.Role == RoleCommercial && a.Service == "" {
		return errors.New("a commercial must be assigned a service")
	}
	return nil
}
