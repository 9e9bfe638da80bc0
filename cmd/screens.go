package cmd

import (
	"github.com/backoffice-suite/backoffice/internal/app"
	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/spf13/cobra"
)

type screensClient interface {
	Admin() (domain.Admin, error)
}

// NewScreensCmd creates the screens command with explicit dependencies.
func NewScreensCmd(client screensClient) *cobra.Command {
	if client == nil {
		panic("NewScreensCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "screens",
		Short: "List the screens your role may open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := client.Admin()
			if err != nil {
				return err
			}
			return app.PrintScreens(admin, cmd.OutOrStdout())
		},
	}
}

var screensCmd = NewScreensCmd(session)

func init() {
	RootCmd.AddCommand(screensCmd)
}
