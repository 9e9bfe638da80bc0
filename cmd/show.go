package cmd

import (
	"github.com/backoffice-suite/backoffice/internal/app"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command with explicit dependencies.
func NewShowCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewShowCmd: client dependency cannot be nil")
	}

	var output string
	showCmd := &cobra.Command{
		Use:   "show <screen> <id>",
		Short: "Show every field of one row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(output)
			if err != nil {
				return err
			}
			return app.NewShowUseCase(client).Execute(cmd.Context(), args[0], args[1], f, cmd.OutOrStdout())
		},
	}
	addFormatFlag(showCmd, &output)
	return showCmd
}

var showCmd = NewShowCmd(session)

func init() {
	RootCmd.AddCommand(showCmd)
}
