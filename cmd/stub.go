package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backoffice-suite/backoffice/internal/colors"
	"github.com/backoffice-suite/backoffice/internal/config"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
	"github.com/backoffice-suite/backoffice/internal/stub"
	"github.com/spf13/cobra"
)

const stubCommandLong = `Serve the development API backing the CarbuGo and Annour screens.

Data lives in the sqlite file named by stub_db_path, or in memory when it is
empty. The store is seeded with demo stations, pompistes, clients and
invoices on first start. Requests must carry api_token as a bearer token
when it is set.

EXAMPLES:
    backoffice stub --addr :9090
    BACKOFFICE_STUB_DB_PATH=dev.db backoffice stub`

// NewStubCmd creates the stub command.
func NewStubCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
	)
	stubCmd := &cobra.Command{
		Use:   "stub",
		Short: "Run the development API server",
		Long:  stubCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = config.Get("stub_addr", ":8080")
			}
			if dbPath == "" {
				dbPath = config.Get("stub_db_path", "")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runStub(ctx, addr, dbPath)
		},
	}
	stubCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from stub_addr)")
	stubCmd.Flags().StringVar(&dbPath, "db", "", "sqlite file (default from stub_db_path, in memory if empty)")
	return stubCmd
}

func runStub(ctx context.Context, addr, dbPath string) error {
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open stub store: %w", err)
	}
	defer store.Close()

	if err := stub.Seed(ctx, store); err != nil {
		return fmt.Errorf("seed stub store: %w", err)
	}
	logger := logging.New(os.Stderr, config.Get("logging_level", "info")).With("component", "stub")
	srv := stub.NewServer(store, logger, stub.WithToken(config.Get("api_token", "")))
	colors.LogInfo("Serving the development API on", addr)
	return srv.ListenAndServe(ctx, addr)
}

var stubCmd = NewStubCmd()

func init() {
	RootCmd.AddCommand(stubCmd)
}
