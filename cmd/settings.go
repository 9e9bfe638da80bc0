package cmd

import (
	"github.com/backoffice-suite/backoffice/internal/app"
	"github.com/spf13/cobra"
)

const (
	settingsCommandLong = `Manage the TUI settings restored on the next start.

USAGE:
    backoffice settings <subcommand>

SUBCOMMANDS:
    reset    Reset settings to defaults
    show     Display current settings

EXAMPLES:
    # Reset settings without confirmation
    backoffice settings reset --force`
	resetCommandLong = `Reset TUI settings to defaults by deleting the settings file.

USAGE:
    backoffice settings reset [OPTIONS]

OPTIONS:
    --force    Reset without confirmation
    -h, --help Show this help`
)

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client app.SettingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage TUI settings",
		Long:  settingsCommandLong,
	}
	settingsCmd.AddCommand(newResetCmd(client))
	settingsCmd.AddCommand(newSettingsShowCmd(client))
	return settingsCmd
}

func newResetCmd(client app.SettingsClient) *cobra.Command {
	var force bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset TUI settings to defaults",
		Long:  resetCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := newPromptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
			return app.NewSettingsUseCase(client).Reset(app.ResetSettingsInput{
				Force: force,
				ConfirmFn: func() bool {
					ok, err := confirm.Confirm("Reset all settings to defaults?")
					return err == nil && ok
				},
			})
		},
	}
	resetCmd.Flags().BoolVar(&force, "force", false, "Reset without confirmation")
	return resetCmd
}

func newSettingsShowCmd(client app.SettingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewSettingsUseCase(client).Show(cmd.OutOrStdout())
		},
	}
}

var settingsCmd = NewSettingsCmd(app.FileSettings{})

func init() {
	RootCmd.AddCommand(settingsCmd)
}
