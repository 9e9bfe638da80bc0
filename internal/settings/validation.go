package settings

import (
	"fmt"

	"github.com/backoffice-suite/backoffice/internal/domain"
)

// Validate checks that settings values are valid.
// Preconditions: settings must be non-nil.
func Validate(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	if err := validateScreen(settings.LastScreen); err != nil {
		return err
	}
	if err := validatePageSize(settings.PageSize); err != nil {
		return err
	}
	for screen := range settings.Filters {
		if err := validateScreen(screen); err != nil {
			return fmt.Errorf("filters: %w", err)
		}
	}
	return nil
}

func validateScreen(name string) error {
	if name == "" || IsKnownScreen(name) {
		return nil
	}
	return fmt.Errorf("invalid screen name: %s", name)
}

func validatePageSize(n int) error {
	if n == 0 {
		return nil
	}
	if n < MinPageSize || n > MaxPageSize {
		return fmt.Errorf("invalid pageSize value: %d", n)
	}
	return nil
}

// IsKnownScreen returns true if name is a screen of the catalog.
func IsKnownScreen(name string) bool {
	for _, s := range domain.Catalog() {
		if s.Name == name {
			return true
		}
	}
	return false
}
