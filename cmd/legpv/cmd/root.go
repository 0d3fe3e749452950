// Package cmd provides the CLI commands for legpv.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meenmo/dpm/calendar/holidays"
	"github.com/meenmo/dpm/config"
	"github.com/meenmo/dpm/internal/logging"
	"github.com/meenmo/dpm/marketdata"
)

// app carries the state shared by every subcommand once the root command
// has loaded the configuration.
type app struct {
	cfgFile string
	verbose bool

	cfg config.Config
	log *zap.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{cfg: config.Default(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "legpv",
		Short: "Value interest rate swap legs",
		Long: `legpv values the legs of an interest rate swap against stored discount
and forward curves, published fixings and a holiday calendar.

Examples:
  legpv value --input swap.json
  legpv value --input swap.json --format json --reference 2101754.99
  legpv spread --input swap.json
  legpv holidays fetch --country ZA --years 2020-2025
  legpv curve show zar_disc_csa_irs --at 0.5,1,2`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(*cobra.Command, []string) { logging.Sync() },
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML, JSON or TOML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(a.valueCommand())
	root.AddCommand(a.spreadCommand())
	root.AddCommand(a.holidaysCommand())
	root.AddCommand(a.curveCommand())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := logging.Initialize(cfg.Log); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error initializing logging: %v\n", err)
	}
	a.cfg = cfg
	a.log = logging.Logger
	return nil
}

// loader opens the configured market-data source.
func (a *app) loader(ctx context.Context) (marketdata.Loader, func(), error) {
	if a.cfg.MarketData.DSN != "" {
		store, err := marketdata.OpenSQLStore(ctx, a.cfg.MarketData.DSN, a.log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return marketdata.NewFileStore(a.cfg.MarketData.Root, a.log), func() {}, nil
}

func (a *app) holidayStore() holidays.FileStore {
	return holidays.FileStore{Dir: a.cfg.Holidays.Dir}
}

func (a *app) holidayClient() *holidays.Client {
	return holidays.NewClient(a.cfg.Holidays.BaseURL, a.cfg.Holidays.Timeout, a.log)
}

// holidayProvider serves the file cache and, when enabled, fills it from
// the API on a miss.
func (a *app) holidayProvider() *holidays.Provider {
	p := &holidays.Provider{
		Store:  a.holidayStore(),
		Years:  a.cfg.HolidayYears(),
		Logger: a.log,
	}
	if a.cfg.Holidays.Fetch {
		p.Client = a.holidayClient()
	}
	return p
}
