package settings

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds TUI user preferences persisted to disk.
//
// TOML layout:
//
//	lastScreen = "stations"
//	pageSize = 10
//
//	[filters.clients]
//	service = "VisaCanada"
//
// Settings are stored at ~/.config/backoffice/tui.toml
type Settings struct {
	// LastScreen is the screen shown when the TUI starts.
	// Empty string means the first screen the admin may open.
	LastScreen string `toml:"lastScreen"`

	// PageSize is the number of rows per page. Zero means the configured
	// page_size.
	PageSize int `toml:"pageSize"`

	// Filters holds the category filters of each screen, keyed by screen
	// name then filter name.
	Filters map[string]map[string]string `toml:"filters"`
}

// DefaultSettings returns settings with all default values.
func DefaultSettings() *Settings {
	return &Settings{Filters: map[string]map[string]string{}}
}

// ScreenFilters returns a copy of the saved filters of screen.
func (s *Settings) ScreenFilters(screen string) map[string]string {
	if s == nil {
		return nil
	}
	return maps.Clone(s.Filters[screen])
}

// SetScreenFilters replaces the saved filters of screen. Empty values are
// dropped and an empty set removes the screen entry.
func (s *Settings) SetScreenFilters(screen string, filters map[string]string) {
	kept := make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			kept[k] = v
		}
	}
	if s.Filters == nil {
		s.Filters = map[string]map[string]string{}
	}
	if len(kept) == 0 {
		delete(s.Filters, screen)
		return
	}
	s.Filters[screen] = kept
}

// Load reads settings from the config directory.
// If the settings file does not exist, returns default settings.
func Load() (*Settings, error) {
	data, err := os.ReadFile(getSettingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if settings.Filters == nil {
		settings.Filters = map[string]map[string]string{}
	}
	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// Save writes settings to the config directory, creating it if needed.
func Save(settings *Settings) error {
	if err := Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	path := getSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Write through a temp file so a crash never leaves half a file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Path returns where settings are stored.
func Path() string {
	return getSettingsPath()
}

// Reset removes the settings file. A missing file is not an error.
func Reset() error {
	err := os.Remove(getSettingsPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove settings file: %w", err)
	}
	return nil
}
