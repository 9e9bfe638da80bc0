package cmd

import (
	"context"
	"fmt"

	"github.com/backoffice-suite/backoffice/internal/colors"
	"github.com/backoffice-suite/backoffice/internal/config"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/settings"
	tuiapp "github.com/backoffice-suite/backoffice/internal/tui/app"
	"github.com/backoffice-suite/backoffice/internal/tui/state"
	"github.com/spf13/cobra"
)

type tuiClient interface {
	LoadSettings() (*settings.Settings, error)
	CreateModel(ctx context.Context, saved settings.TUIState) (*state.Model, error)
	RunProgram(model *state.Model) error
}

const tuiCommandLong = `Interactive list view over every screen your role may open.

KEY BINDINGS:
    tab/shift+tab   Next/previous screen
    j/k             Move down/up
    l/h             Next/previous page
    + / -           Grow/shrink the page
    /               Search
    F / f           Pick a filter / cycle its value
    c               Clear search and filters
    r               Reload
    a               New row
    e, Enter        Edit the selected row
    d               Delete the selected row
    o               Row actions
    x               Export the screen to XLSX
    w               Save settings
    q, ESC          Quit

Settings (last screen, page size, filters) are saved on exit.`

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client tuiClient) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI",
		Long:  tuiCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := client.LoadSettings()
			if err != nil {
				colors.Warning(fmt.Sprintf("Could not load settings, using defaults: %v", err))
				loaded = settings.DefaultSettings()
			}
			model, err := client.CreateModel(cmd.Context(), settings.FromSettings(loaded))
			if err != nil {
				return err
			}
			return client.RunProgram(model)
		},
	}
}

// lazyTUIClient builds the real client once the configuration is loaded.
type lazyTUIClient struct {
	inner *tuiapp.DefaultClient
}

func newTUIClient() tuiClient {
	return &lazyTUIClient{}
}

func (c *lazyTUIClient) client() *tuiapp.DefaultClient {
	if c.inner == nil {
		c.inner = tuiapp.NewDefaultClient(session, nil, nil, tuiapp.Options{
			ExportDir: config.Get("export_dir", "."),
			Logger:    logging.With("component", "tui"),
		})
	}
	return c.inner
}

func (c *lazyTUIClient) LoadSettings() (*settings.Settings, error) {
	return c.client().LoadSettings()
}

func (c *lazyTUIClient) CreateModel(ctx context.Context, saved settings.TUIState) (*state.Model, error) {
	return c.client().CreateModel(ctx, saved)
}

func (c *lazyTUIClient) RunProgram(model *state.Model) error {
	return c.client().RunProgram(model)
}

var tuiCmd = NewTUICmd(newTUIClient())

func init() {
	RootCmd.AddCommand(tuiCmd)
}
