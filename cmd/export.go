package cmd

import (
	"github.com/backoffice-suite/backoffice/internal/app"
	"github.com/backoffice-suite/backoffice/internal/colors"
	"github.com/backoffice-suite/backoffice/internal/config"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command with explicit dependencies.
func NewExportCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewExportCmd: client dependency cannot be nil")
	}

	var (
		search  string
		filters []string
		dir     string
	)
	exportCmd := &cobra.Command{
		Use:   "export <screen>",
		Short: "Write the matching rows of a screen to an XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePairs("filter", filters)
			if err != nil {
				return err
			}
			path, err := app.NewExportUseCase(client).Export(cmd.Context(), args[0], app.Query{Search: search, Filters: values}, exportDir(dir))
			if err != nil {
				return err
			}
			colors.Success("Exported to " + path)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&search, "search", "", "Keep rows containing term")
	exportCmd.Flags().StringArrayVar(&filters, "filter", nil, "Category filter as key=value, repeatable")
	exportCmd.Flags().StringVar(&dir, "dir", "", "Output directory (default from export_dir)")
	return exportCmd
}

// NewDownloadCmd creates the download command with explicit dependencies.
func NewDownloadCmd(client app.ScreenClient) *cobra.Command {
	if client == nil {
		panic("NewDownloadCmd: client dependency cannot be nil")
	}

	var dir string
	downloadCmd := &cobra.Command{
		Use:     "download <screen> <action> <id>",
		Short:   "Save the file behind a row action, e.g. an invoice PDF",
		Example: "  backoffice download invoices pdf <invoice-id>",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.NewExportUseCase(client).Download(cmd.Context(), args[0], args[1], args[2], exportDir(dir))
			if err != nil {
				return err
			}
			colors.Success("Saved " + path)
			return nil
		},
	}
	downloadCmd.Flags().StringVar(&dir, "dir", "", "Output directory (default from export_dir)")
	return downloadCmd
}

func exportDir(flag string) string {
	if flag != "" {
		return flag
	}
	return config.Get("export_dir", ".")
}

var (
	exportCmd   = NewExportCmd(session)
	downloadCmd = NewDownloadCmd(session)
)

func init() {
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(downloadCmd)
}
