package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meenmo/dpm/interest"
	"github.com/meenmo/dpm/interpolation"
	"github.com/meenmo/dpm/marketdata"
	"github.com/meenmo/dpm/rates"
	"github.com/meenmo/dpm/termstructure"
)

func (a *app) curveCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "curve",
		Short: "Inspect stored curves",
	}
	c.AddCommand(a.curveShowCommand(), a.curveBootstrapCommand())
	return c
}

func (a *app) loadCurve(cmd *cobra.Command, name string) (termstructure.Term[float64, float64], error) {
	loader, closeFn, err := a.loader(cmd.Context())
	if err != nil {
		return termstructure.Term[float64, float64]{}, err
	}
	defer closeFn()
	return marketdata.LoadCurve(cmd.Context(), loader, name, a.cfg.MarketData.TenorBasis)
}

func (a *app) curveShowCommand() *cobra.Command {
	var (
		at       []float64
		method   string
		discount bool
	)
	c := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a curve's nodes, or its values at given tenors in years",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			curve, err := a.loadCurve(cmd, args[0])
			if err != nil {
				return err
			}
			m, err := interpolation.ParseMethod(method)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "years\tvalue\t")
			if len(at) == 0 {
				for i := range curve.Len() {
					x, y := curve.At(i)
					fmt.Fprintf(tw, "%.6f\t%.10f\t\n", x, y)
				}
				return tw.Flush()
			}

			var values []float64
			if discount {
				values, err = interpolation.DiscountFactorsAt(m, curve.X(), curve.Y(), at)
			} else {
				values, err = interpolation.InterpolateAll(m, curve.X(), curve.Y(), at)
			}
			if err != nil {
				return err
			}
			for i, x := range at {
				fmt.Fprintf(tw, "%.6f\t%.10f\t\n", x, values[i])
			}
			return tw.Flush()
		},
	}
	c.Flags().Float64SliceVar(&at, "at", nil, "tenors in years to interpolate at")
	c.Flags().StringVarP(&method, "method", "m", string(interpolation.LogLinear), "interpolation method")
	c.Flags().BoolVar(&discount, "discount", false, "treat values as discount factors (par at 0, zero before)")
	return c
}

func (a *app) curveBootstrapCommand() *cobra.Command {
	var compounding string
	c := &cobra.Command{
		Use:   "bootstrap NAME",
		Short: "Turn a stored par swap curve into discount factors and zero rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := interest.ParseConvention(compounding)
			if err != nil {
				return err
			}
			swaps, err := a.loadCurve(cmd, args[0])
			if err != nil {
				return err
			}
			dfs, err := rates.Bootstrap(conv, swaps)
			if err != nil {
				return err
			}
			zeros, err := rates.DiscountToSpot(conv, dfs)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "years\tswap\tdf\tzero\t")
			for i := range swaps.Len() {
				x, s := swaps.At(i)
				_, df := dfs.At(i)
				_, z := zeros.At(i)
				fmt.Fprintf(tw, "%.6f\t%.8f\t%.10f\t%.8f\t\n", x, s, df, z)
			}
			return tw.Flush()
		},
	}
	c.Flags().StringVar(&compounding, "compounding", "simple", "compounding convention of the swap rates")
	return c
}
