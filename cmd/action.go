package cmd

import (
	"github.com/backoffice-suite/backoffice/internal/app"
	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/spf13/cobra"
)

const actionCommandLong = `Run a row action such as ban, refund or assign.

Destructive actions ask for confirmation unless --yes is given.

EXAMPLES:
    backoffice action payments refund pay-3
    backoffice action pompistes reassign <pompiste-id> --param <station-id>`

// NewActionCmd creates the action command with explicit dependencies.
func NewActionCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewActionCmd: client dependency cannot be nil")
	}

	var (
		param string
		yes   bool
	)
	actionCmd := &cobra.Command{
		Use:   "action <screen> <action> <id>",
		Short: "Run a row action",
		Long:  actionCommandLong,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewActionUseCase(client).Execute(cmd.Context(), app.ActionInput{
				Screen:  args[0],
				Action:  args[1],
				ID:      args[2],
				Param:   param,
				Yes:     yes,
				Confirm: newPromptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr()),
			})
		},
	}
	actionCmd.Flags().StringVar(&param, "param", "", "Action parameter, e.g. the station of an assignment")
	actionCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return actionCmd
}

// NewDeleteCmd creates the delete command with explicit dependencies.
func NewDeleteCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewDeleteCmd: client dependency cannot be nil")
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <screen> <id>",
		Short: "Delete a row after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewActionUseCase(client).Execute(cmd.Context(), app.ActionInput{
				Screen:  args[0],
				Action:  domain.Delete.Name,
				ID:      args[1],
				Yes:     yes,
				Confirm: newPromptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr()),
			})
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return deleteCmd
}

var (
	actionCmd = NewActionCmd(session)
	deleteCmd = NewDeleteCmd(session)
)

func init() {
	RootCmd.AddCommand(actionCmd)
	RootCmd.AddCommand(deleteCmd)
}
