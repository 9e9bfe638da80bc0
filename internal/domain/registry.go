package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownScreen is returned for a screen name that does not exist.
var ErrUnknownScreen = errors.New("unknown screen")

// ScreenInfo is the type-independent part of a descriptor.
type ScreenInfo struct {
	Name    string
	Title   string
	Product Product
	Roles   []Role
	Mock    bool
}

// Allowed reports whether role may open the screen.
func (s ScreenInfo) Allowed(role Role) bool {
	if role == RoleAdmin {
		return true
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Info returns the type-independent part of d.
func (d Descriptor[T]) Info() ScreenInfo {
	return ScreenInfo{Name: d.Name, Title: d.Title, Product: d.Product, Roles: d.Roles, Mock: d.Mock}
}

// Catalog lists every screen in menu order.
func Catalog() []ScreenInfo {
	return []ScreenInfo{
		StationDescriptor().Info(),
		PompisteDescriptor().Info(),
		ClientDescriptor().Info(),
		InvoiceDescriptor().Info(),
		MedicineDescriptor().Info(),
		PaymentDescriptor().Info(),
		AccountDescriptor().Info(),
	}
}

// Screens returns the screens visible to admin, in menu order.
func Screens(admin Admin) []ScreenInfo {
	var out []ScreenInfo
	for _, s := range Catalog() {
		if s.Allowed(admin.Role) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns the named screen if admin may open it.
func Lookup(admin Admin, name string) (ScreenInfo, error) {
	for _, s := range Catalog() {
		if s.Name != name {
			continue
		}
		if !s.Allowed(admin.Role) {
			return ScreenInfo{}, fmt.Errorf("%w: %s (%s)", ErrForbidden, name, admin.Role)
		}
		return s, nil
	}
	return ScreenInfo{}, fmt.Errorf("%w: %s", ErrUnknownScreen, name)
}

// Scope returns filters imposed on a screen by the admin's identity. A
// commercial only sees the clients of their own service.
func Scope(admin Admin, screen string) map[string]string {
	if admin.Role == RoleCommercial && screen == "clients" && admin.Service != "" {
		return map[string]string{"service": admin.Service}
	}
	return nil
}
