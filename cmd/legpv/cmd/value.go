package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meenmo/dpm/report"
	"github.com/meenmo/dpm/valuation"
)

func (a *app) valueCommand() *cobra.Command {
	var (
		inputPath string
		format    string
		reference float64
	)
	c := &cobra.Command{
		Use:   "value",
		Short: "Value both legs of a swap and print the net PV",
		Long: `Read a JSON swap description (from --input or stdin), value both legs and
print the period table and summary, or the JSON document with --format json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			in, spec, err := a.readSpec(cmd, inputPath)
			if err != nil {
				return err
			}
			ref := in.Reference
			if cmd.Flags().Changed("reference") {
				ref = &reference
			}

			mkt, err := a.market(cmd, spec)
			if err != nil {
				return err
			}
			swap, err := valuation.New(a.log).ValueSwap(spec, mkt)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), f, swap, ref)
		},
	}
	c.Flags().StringVarP(&inputPath, "input", "i", "", "JSON input path (default stdin)")
	c.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")
	c.Flags().Float64Var(&reference, "reference", 0, "external net PV to compare against")
	return c
}

func (a *app) spreadCommand() *cobra.Command {
	var (
		inputPath string
		target    float64
	)
	c := &cobra.Command{
		Use:   "spread",
		Short: "Solve the leg 1 spread that sets the net PV to a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, spec, err := a.readSpec(cmd, inputPath)
			if err != nil {
				return err
			}
			mkt, err := a.market(cmd, spec)
			if err != nil {
				return err
			}
			opts := a.cfg.Solver.Options()
			opts.Tolerance = a.cfg.Solver.SpreadTolerance
			s, err := valuation.New(a.log).SolveSpread(spec, mkt, target, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s spread: %.6f bp\n", spec.Leg1.Name, s*1e4)
			return nil
		},
	}
	c.Flags().StringVarP(&inputPath, "input", "i", "", "JSON input path (default stdin)")
	c.Flags().Float64Var(&target, "target", 0, "net PV to solve for")
	return c
}

func (a *app) readSpec(cmd *cobra.Command, path string) (SwapInput, valuation.SwapSpec, error) {
	raw, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return SwapInput{}, valuation.SwapSpec{}, fmt.Errorf("failed to read input: %w", err)
	}
	in, err := decodeInput(raw)
	if err != nil {
		return SwapInput{}, valuation.SwapSpec{}, err
	}
	spec, err := in.Spec()
	if err != nil {
		return SwapInput{}, valuation.SwapSpec{}, err
	}
	return in, spec, nil
}

func (a *app) market(cmd *cobra.Command, spec valuation.SwapSpec) (valuation.Market, error) {
	ctx := cmd.Context()
	loader, closeFn, err := a.loader(ctx)
	if err != nil {
		return valuation.Market{}, err
	}
	defer closeFn()

	mkt, err := valuation.LoadMarket(ctx, loader, a.holidayProvider(), spec, a.cfg.MarketData.TenorBasis)
	if err != nil {
		return valuation.Market{}, err
	}
	a.log.Debug("market loaded",
		zap.Int("curves", len(mkt.Curves)),
		zap.Int("fixing_sets", len(mkt.Fixings)),
		zap.Int("holidays", mkt.Holidays.Len()),
	)
	return mkt, nil
}
