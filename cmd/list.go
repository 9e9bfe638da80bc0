package cmd

import (
	"github.com/backoffice-suite/backoffice/internal/app"
	"github.com/spf13/cobra"
)

const listCommandLong = `List the rows of a screen.

USAGE:
    backoffice list <screen> [OPTIONS]

OPTIONS:
    --search <term>       Keep rows containing term (case-insensitive)
    --filter <key=value>  Apply a category filter, repeatable
    --page <n>            Page to show, starting at 1
    --page-size <n>       Rows per page (default from page_size)
    --all                 Show every page
    --format=<format>     Output format: table (default), simple, compact, json

EXAMPLES:
    backoffice list invoices --filter status=overdue
    backoffice list stations --search gounghin --format=json`

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var (
		search   string
		filters  []string
		page     int
		pageSize int
		all      bool
		output   string
	)

	listCmd := &cobra.Command{
		Use:   "list <screen>",
		Short: "List the rows of a screen",
		Long:  listCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(output)
			if err != nil {
				return err
			}
			values, err := parsePairs("filter", filters)
			if err != nil {
				return err
			}
			input := app.ListInput{
				Screen: args[0],
				Query:  app.Query{Search: search, Filters: values, PageSize: pageSize},
				Page:   page,
				All:    all,
				Format: f,
			}
			return app.NewListUseCase(client).Execute(cmd.Context(), input, cmd.OutOrStdout())
		},
	}

	listCmd.Flags().StringVar(&search, "search", "", "Keep rows containing term")
	listCmd.Flags().StringArrayVar(&filters, "filter", nil, "Category filter as key=value, repeatable")
	listCmd.Flags().IntVar(&page, "page", 1, "Page to show, starting at 1")
	listCmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page")
	listCmd.Flags().BoolVar(&all, "all", false, "Show every page")
	addFormatFlag(listCmd, &output)

	return listCmd
}

var listCmd = NewListCmd(session)

func init() {
	RootCmd.AddCommand(listCmd)
}
