package app

import (
	"context"
	"fmt"

	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/settings"
	"github.com/backoffice-suite/backoffice/internal/tui/state"
)

// Options configure the models a DefaultClient creates.
type Options struct {
	ExportDir string
	Logger    logging.Logger
	Store     state.SettingsStore
}

// DefaultClient is the default adapter-based implementation used by CLI wiring.
type DefaultClient struct {
	source         ScreenSource
	programRunner  ProgramRunner
	settingsLoader SettingsLoader
	opts           Options
}

// NewDefaultClient creates a default TUI client adapter. Nil runner and
// loader fall back to the default implementations.
func NewDefaultClient(source ScreenSource, programRunner ProgramRunner, settingsLoader SettingsLoader, opts Options) *DefaultClient {
	if source == nil {
		panic("NewDefaultClient: screen source cannot be nil")
	}
	if programRunner == nil {
		programRunner = NewDefaultProgramRunner()
	}
	if settingsLoader == nil {
		settingsLoader = NewDefaultSettingsLoader()
	}
	if opts.Store == nil {
		opts.Store = state.FileSettingsStore{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &DefaultClient{
		source:         source,
		programRunner:  programRunner,
		settingsLoader: settingsLoader,
		opts:           opts,
	}
}

// LoadSettings loads persisted settings using the injected SettingsLoader.
func (d *DefaultClient) LoadSettings() (*settings.Settings, error) {
	return d.settingsLoader.Load()
}

// CreateModel opens the admin's screens and builds a model restoring saved.
func (d *DefaultClient) CreateModel(ctx context.Context, saved settings.TUIState) (*state.Model, error) {
	host := errs.NewTUIHandler(nil)
	list, err := d.source.Screens(host)
	if err != nil {
		return nil, fmt.Errorf("open screens: %w", err)
	}
	return state.NewModel(state.Config{
		Context:   ctx,
		Screens:   list,
		Host:      host,
		Saved:     saved,
		Store:     d.opts.Store,
		ExportDir: d.opts.ExportDir,
		Logger:    d.opts.Logger,
	}), nil
}

// RunProgram runs model until the user quits, then saves the state the
// next session restores.
func (d *DefaultClient) RunProgram(model *state.Model) error {
	final, err := d.programRunner.Run(model)
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if m, ok := final.(*state.Model); ok {
		model = m
	}
	if err := d.opts.Store.Save(model.ToState()); err != nil {
		d.opts.Logger.Warn("saving tui state failed", "error", err)
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
