package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"finboard/internal/backend"
	"finboard/internal/config"
	"finboard/internal/log"
	"finboard/internal/services"
)

const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// RootOptions carries the persistent flags and the ledger opened for the
// running command.
type RootOptions struct {
	Output  string
	Account string
	Backend string
	DBPath  string
	Seed    bool

	cfg     *config.Config
	ledger  *services.TransactionService
	cleanup backend.CleanupFunc

	// openBackend replaces the backend factory, mainly for tests.
	openBackend func(ctx context.Context, logger *log.Logger) (*backend.BackendResult, error)
	now         func() time.Time
}

// NewRootCmd builds the finctl command tree with defaults read from the
// environment.
func NewRootCmd() *cobra.Command {
	LoadEnvFile()
	cfg := config.Load()

	return newRootCmd(&RootOptions{
		Output:  FormatHuman,
		Account: cfg.DefaultAccount,
		Backend: cfg.DataBackend,
		DBPath:  cfg.SQLiteDBPath,
		Seed:    cfg.SeedSampleData,
		cfg:     cfg,
		now:     time.Now,
	})
}

func newRootCmd(opts *RootOptions) *cobra.Command {
	if opts.cfg == nil {
		opts.cfg = config.Load()
	}
	if opts.now == nil {
		opts.now = time.Now
	}

	cmd := &cobra.Command{
		Use:   "finctl",
		Short: "finctl inspects and edits the finboard ledger from a terminal",
		Long: `finctl reads the same ledger as the finboard server and prints its reports,
budgets and transactions. With the memory backend every invocation starts from
the sample data; use --backend sqlite to work on a persistent ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Output = strings.ToLower(strings.TrimSpace(opts.Output))
			if opts.Output != FormatHuman && opts.Output != FormatJSON {
				return fmt.Errorf("invalid --output value %q: supported values are %s|%s", opts.Output, FormatHuman, FormatJSON)
			}
			return opts.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.cleanup == nil {
				return nil
			}
			if err := opts.cleanup(); err != nil {
				return fmt.Errorf("close backend: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Output, "output", opts.Output, "Output format: human|json")
	cmd.PersistentFlags().StringVar(&opts.Account, "account", opts.Account, "Account to read and write")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", opts.Backend, "Data backend: memory|sqlite")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db-path", opts.DBPath, "SQLite database path")
	cmd.PersistentFlags().BoolVar(&opts.Seed, "seed", opts.Seed, "Load sample data into an empty account")

	cmd.AddCommand(
		NewReportCmd(opts),
		NewBudgetCmd(opts),
		NewTxCmd(opts),
		NewExportCmd(opts),
		NewImportCmd(opts),
	)

	return cmd
}

// open builds the backend and the ledger service. Diagnostics go to stderr
// at warn level so they never mix with command output.
func (o *RootOptions) open(cmd *cobra.Command) error {
	logger := log.New(log.Config{
		Level:     max(log.ParseLevel(o.cfg.LogLevel), slog.LevelWarn),
		Format:    "text",
		Output:    cmd.ErrOrStderr(),
		Component: log.ComponentCLI,
	})

	openBackend := o.openBackend
	if openBackend == nil {
		openBackend = o.createBackend
	}
	res, err := openBackend(cmd.Context(), logger)
	if err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}

	svcOpts := []services.Option{services.WithClock(o.now)}
	if res.Publisher != nil {
		svcOpts = append(svcOpts, services.WithPublisher(res.Publisher))
	}
	o.ledger = services.NewTransactionService(res.Store, o.Account, logger, svcOpts...)
	o.cleanup = res.Cleanup
	return nil
}

func (o *RootOptions) createBackend(ctx context.Context, logger *log.Logger) (*backend.BackendResult, error) {
	return backend.NewFactory(logger).CreateBackend(ctx, backend.Config{
		Type:           backend.BackendType(strings.ToLower(o.Backend)),
		SQLiteDBPath:   o.DBPath,
		AMQPURL:        o.cfg.AMQPURL,
		AMQPExchange:   o.cfg.AMQPExchange,
		AMQPQueue:      o.cfg.AMQPQueue,
		DefaultAccount: o.Account,
		Seed:           o.Seed,
	})
}

func (o *RootOptions) location() *time.Location {
	return o.now().Location()
}
