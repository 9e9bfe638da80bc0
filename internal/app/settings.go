package app

import (
	"fmt"
	"io"

	"github.com/backoffice-suite/backoffice/internal/colors"
	"github.com/backoffice-suite/backoffice/internal/settings"
	"github.com/pelletier/go-toml/v2"
)

// SettingsClient defines dependencies required by settings commands.
type SettingsClient interface {
	ResetSettings() (*settings.Settings, error)
	LoadSettings() (*settings.Settings, error)
}

// FileSettings reads and resets the settings file.
type FileSettings struct{}

// ResetSettings deletes the settings file and returns the defaults.
func (FileSettings) ResetSettings() (*settings.Settings, error) {
	if err := settings.Reset(); err != nil {
		return nil, err
	}
	return settings.DefaultSettings(), nil
}

// LoadSettings reads the settings file.
func (FileSettings) LoadSettings() (*settings.Settings, error) {
	return settings.Load()
}

// SettingsUseCase coordinates settings command behavior.
type SettingsUseCase struct {
	client SettingsClient
}

// NewSettingsUseCase creates a settings use-case.
func NewSettingsUseCase(client SettingsClient) *SettingsUseCase {
	if client == nil {
		panic("NewSettingsUseCase: client dependency cannot be nil")
	}

	return &SettingsUseCase{client: client}
}

// ResetSettingsInput contains reset options.
type ResetSettingsInput struct {
	Force     bool
	ConfirmFn func() bool
}

// Reset executes settings reset behavior.
func (u *SettingsUseCase) Reset(input ResetSettingsInput) error {
	if !input.Force && input.ConfirmFn != nil && !input.ConfirmFn() {
		colors.Info("Operation cancelled")
		return nil
	}

	if _, err := u.client.ResetSettings(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	colors.Success("Settings reset to defaults")
	return nil
}

// Show writes the current settings as TOML.
func (u *SettingsUseCase) Show(w io.Writer) error {
	current, err := u.client.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	data, err := toml.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = w.Write(data)
	return err
}
