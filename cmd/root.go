// Package cmd holds the backoffice command line.
package cmd

import (
	"fmt"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/colors"
	"github.com/backoffice-suite/backoffice/internal/config"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/format"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/version"
	"github.com/spf13/cobra"
)

// globalFlags override the admin identity and API from the configuration.
type globalFlags struct {
	role    string
	adminID int
	service string
	apiURL  string
	quiet   bool
}

var (
	flags globalFlags
	// host shows every message relayed by the screens a command opens.
	host = errs.NewConsoleHandler()
	// session is shared by every command of this process.
	session = newWorkspace(host)
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Admin dashboard for CarbuGo, Annour Travel and the clinic",
	Long:          `Browse, filter and edit the list screens of the CarbuGo, Annour Travel and clinic back offices.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		colors.SetDebug(config.GetBool("debug", false))
		if err := logging.InitGlobal(); err != nil {
			colors.Warning("logging disabled: " + err.Error())
		}
		host.SetQuiet(flags.quiet)
		logging.Debug("command started", "command", cmd.CommandPath())
		return nil
	},
}

// Execute runs the root command. Errors that a screen already showed are
// not printed again.
func Execute() error {
	defer func() { _ = logging.ShutdownGlobal() }()
	shown := host.ErrorCount()
	err := RootCmd.Execute()
	if err != nil {
		logging.Error("command failed", "error", err)
		if host.ErrorCount() == shown {
			colors.Error(err.Error())
		}
	}
	return err
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	pf := RootCmd.PersistentFlags()
	pf.StringVar(&flags.role, "role", "", "Admin role: "+roleNames())
	pf.IntVar(&flags.adminID, "admin-id", 0, "Admin id (default from admin_id)")
	pf.StringVar(&flags.service, "service", "", "Travel service of a commercial, e.g. VisaCanada")
	pf.StringVar(&flags.apiURL, "api-url", "", "Backend API base URL (default from api_base_url)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Only print errors and warnings")
}

// addFormatFlag registers --format on cmd.
func addFormatFlag(cmd *cobra.Command, target *string) {
	names := make([]string, len(format.FormatterTypes))
	for i, t := range format.FormatterTypes {
		names[i] = string(t)
	}
	cmd.Flags().StringVar(target, "format", string(format.FormatterTypeTable), "Output format: "+strings.Join(names, ", "))
}

// parseFormat validates a --format value.
func parseFormat(value string) (format.FormatterType, error) {
	for _, t := range format.FormatterTypes {
		if string(t) == value {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid format: %s", value)
}
