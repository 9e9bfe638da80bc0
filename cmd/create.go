package cmd

import (
	"github.com/backoffice-suite/backoffice/internal/app"
	"github.com/spf13/cobra"
)

const createCommandLong = `Create a row through the form of a screen.

Fields left out keep the form's default value. Use "backoffice show" on an
existing row to see the field names.

EXAMPLES:
    backoffice create stations --set name="Total Pissy" --set city=Ouagadougou --set capacity=12`

// NewCreateCmd creates the create command with explicit dependencies.
func NewCreateCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewCreateCmd: client dependency cannot be nil")
	}

	var sets []string
	createCmd := &cobra.Command{
		Use:   "create <screen>",
		Short: "Create a row",
		Long:  createCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePairs("set", sets)
			if err != nil {
				return err
			}
			return app.NewMutateUseCase(client).Create(cmd.Context(), app.MutateInput{Screen: args[0], Values: values})
		},
	}
	createCmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value, repeatable")
	return createCmd
}

// NewUpdateCmd creates the update command with explicit dependencies.
func NewUpdateCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewUpdateCmd: client dependency cannot be nil")
	}

	var sets []string
	updateCmd := &cobra.Command{
		Use:   "update <screen> <id>",
		Short: "Change fields of a row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePairs("set", sets)
			if err != nil {
				return err
			}
			return app.NewMutateUseCase(client).Update(cmd.Context(), app.MutateInput{Screen: args[0], ID: args[1], Values: values})
		},
	}
	updateCmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value, repeatable")
	return updateCmd
}

var (
	createCmd = NewCreateCmd(session)
	updateCmd = NewUpdateCmd(session)
)

func init() {
	RootCmd.AddCommand(createCmd)
	RootCmd.AddCommand(updateCmd)
}
