// Package app provides TUI application adapters for command wiring.
package app

import (
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/screens"
	"github.com/backoffice-suite/backoffice/internal/settings"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgramRunner defines the interface for running a bubbletea program.
type ProgramRunner interface {
	// Run starts the program and returns the model it ended with.
	Run(model tea.Model) (tea.Model, error)
}

// DefaultProgramRunner wraps tea.NewProgram with the alternate screen.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts a bubbletea program with the given model.
func (r *DefaultProgramRunner) Run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	return p.Run()
}

// SettingsLoader defines the interface for loading settings.
type SettingsLoader interface {
	Load() (*settings.Settings, error)
}

// DefaultSettingsLoader reads the settings file.
type DefaultSettingsLoader struct{}

// NewDefaultSettingsLoader creates a new DefaultSettingsLoader.
func NewDefaultSettingsLoader() *DefaultSettingsLoader {
	return &DefaultSettingsLoader{}
}

// Load loads settings using the settings package's Load function.
func (l *DefaultSettingsLoader) Load() (*settings.Settings, error) {
	return settings.Load()
}

// ScreenSource opens the screens of the signed-in admin, relaying their
// messages to host.
type ScreenSource interface {
	Screens(host errs.ErrorHandler) ([]screens.Screen, error)
}
