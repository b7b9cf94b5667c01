package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"smartfinance/internal/config"
	"smartfinance/internal/core"
	"smartfinance/internal/log"
	"smartfinance/internal/services"
)

// runtime carries the state the persistent pre-run prepares for every
// subcommand.
type runtime struct {
	envFile string
	debug   bool
	asJSON  bool

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *log.Logger
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

// NewRootCommand builds the full command tree. Command output goes to out;
// logs go to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	rt := &runtime{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "smartfinance",
		Short: "Personal finance tracker for expenses, income, savings and a wedding budget",
		Long: `smartfinance keeps a personal ledger of expenses, incomes and wedding
expenses, tracks progress toward a savings goal and plans a wedding budget.

Data lives in a key-value store selected with DATA_BACKEND (sqlite, bolt or
memory). The same store backs the HTTP API started with "serve".

Example:
  smartfinance expense add --category Transport --amount 250
  smartfinance wedding plan
  smartfinance serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&rt.envFile, "env-file", "", "environment file to load (default .env when present)")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&rt.asJSON, "json", false, "print results as JSON")

	root.AddCommand(newServeCommand(rt))
	root.AddCommand(newKindCommand(rt, kindSpec{
		kind: core.KindExpense, aliases: []string{"expenses"}, short: "Manage expenses",
	}))
	root.AddCommand(newKindCommand(rt, kindSpec{
		kind: core.KindIncome, aliases: []string{"incomes"}, short: "Manage incomes",
	}))
	root.AddCommand(newWeddingCommand(rt))
	root.AddCommand(newSavingsCommand(rt))
	root.AddCommand(newDashboardCommand(rt))
	root.AddCommand(newCategoriesCommand(rt))
	root.AddCommand(newUserCommand(rt))
	root.AddCommand(newExportCommand(rt))
	root.AddCommand(newImportCommand(rt))

	return root
}

func (rt *runtime) setup() error {
	if err := LoadEnvFile(rt.envFile); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if rt.debug {
		level = "debug"
	}
	logger, err := SetupLogger(level, rt.errOut)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	core.SetLocation(loc)

	rt.cfg = cfg
	rt.logger = logger.WithComponent(log.ComponentCLI)
	return nil
}

// withApp opens the store, runs fn and closes the store again. One-shot
// commands act as the local owner of the data, so the stored profile counts
// as logged in.
func (rt *runtime) withApp(ctx context.Context, fn func(*services.App) error) error {
	app, res, err := OpenApp(ctx, rt.cfg, rt.logger, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Close(); cerr != nil {
			rt.logger.Error("Failed to close store", log.FieldError, cerr)
		}
	}()
	return fn(app)
}

func (rt *runtime) printJSON(v interface{}) error {
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
