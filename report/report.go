// Package report renders valued swaps for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/valuation"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat accepts table or json, case-insensitively. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("report: %w: format %q", dpm.ErrInvalidInput, s)
}

// Money rounds an amount to cents.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Table writes one row per period for each leg.
func Table(w io.Writer, legs ...valuation.Leg) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, leg := range legs {
		fmt.Fprintf(tw, "%s\t\t\t\t\t\t\t\t\n", leg.Name)
		fmt.Fprintln(tw, "start\tend\tpay\taccrual\tdisc frac\tdf\trate\tinterest\tpv\t")
		for _, cf := range leg.Cashflows {
			rate := fmt.Sprintf("%.6f", cf.Rate)
			if cf.Fixed {
				rate += "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.6f\t%.6f\t%.8f\t%s\t%s\t%s\t\n",
				cf.Start.Format(time.DateOnly),
				cf.End.Format(time.DateOnly),
				cf.Pay.Format(time.DateOnly),
				cf.Accrual,
				cf.DiscountFraction,
				cf.DiscountFactor,
				rate,
				Money(cf.Interest).StringFixed(2),
				Money(cf.PV).StringFixed(2),
			)
		}
		fmt.Fprintf(tw, "\t\t\t\t\t\t\ttotal\t%s\t\n\n", Money(leg.PV).StringFixed(2))
	}
	return tw.Flush()
}

// Comparison sets a valuation against an externally quoted figure.
type Comparison struct {
	NetPV     decimal.Decimal
	Reference decimal.Decimal
	AbsDiff   decimal.Decimal
	// RelDiff is the difference as a percentage of NetPV.
	RelDiff float64
}

// Compare computes the differences from a reference value.
func Compare(net, reference float64) Comparison {
	c := Comparison{
		NetPV:     Money(net),
		Reference: Money(reference),
		AbsDiff:   decimal.NewFromFloat(net - reference).Round(4),
	}
	if net != 0 {
		c.RelDiff = (net - reference) / net * 100
	} else {
		c.RelDiff = math.NaN()
	}
	return c
}

// Summary prints the leg and net present values. A nil reference skips
// the comparison lines.
func Summary(w io.Writer, swap valuation.Swap, reference *float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", swap.RunID)
	fmt.Fprintf(tw, "valuation date\t%s\n", swap.Valuation.Format(time.DateOnly))
	fmt.Fprintf(tw, "%s pv\t%s\n", legName(swap.Leg1, "leg 1"), Money(swap.Leg1.PV).StringFixed(2))
	fmt.Fprintf(tw, "%s pv\t%s\n", legName(swap.Leg2, "leg 2"), Money(swap.Leg2.PV).StringFixed(2))
	fmt.Fprintf(tw, "net pv\t%s\n", Money(swap.NetPV).StringFixed(2))
	if swap.Elapsed > 0 {
		fmt.Fprintf(tw, "elapsed periods\t%d\n", swap.Elapsed)
	}
	if reference != nil {
		c := Compare(swap.NetPV, *reference)
		fmt.Fprintf(tw, "reference\t%s\n", c.Reference.StringFixed(2))
		fmt.Fprintf(tw, "absolute diff\t%s\n", c.AbsDiff.StringFixed(4))
		fmt.Fprintf(tw, "relative diff\t%.6f%%\n", c.RelDiff)
	}
	return tw.Flush()
}

func legName(leg valuation.Leg, fallback string) string {
	if leg.Name == "" {
		return fallback
	}
	return leg.Name
}

type cashflowJSON struct {
	Start            string          `json:"start"`
	End              string          `json:"end"`
	Pay              string          `json:"pay"`
	Accrual          float64         `json:"accrual"`
	DiscountFraction float64         `json:"discount_fraction"`
	DiscountFactor   float64         `json:"discount_factor"`
	Rate             float64         `json:"rate"`
	Fixed            bool            `json:"fixed,omitempty"`
	Interest         decimal.Decimal `json:"interest"`
	PV               decimal.Decimal `json:"pv"`
}

type legJSON struct {
	Name       string          `json:"name"`
	Nominal    float64         `json:"nominal"`
	PV         decimal.Decimal `json:"pv"`
	Fixings    int             `json:"fixings"`
	Degenerate int             `json:"degenerate_forwards"`
	NonFinite  int             `json:"non_finite_forwards"`
	Cashflows  []cashflowJSON  `json:"cashflows"`
}

type swapJSON struct {
	RunID     string           `json:"run_id"`
	Valuation string           `json:"valuation_date"`
	Leg1      legJSON          `json:"leg1"`
	Leg2      legJSON          `json:"leg2"`
	NetPV     decimal.Decimal  `json:"net_pv"`
	Elapsed   int              `json:"elapsed_periods"`
	Reference *decimal.Decimal `json:"reference,omitempty"`
	AbsDiff   *decimal.Decimal `json:"abs_diff,omitempty"`
}

func toLegJSON(leg valuation.Leg) legJSON {
	out := legJSON{
		Name:       leg.Name,
		Nominal:    leg.Nominal,
		PV:         Money(leg.PV),
		Fixings:    leg.Fixings,
		Degenerate: leg.Degenerate,
		NonFinite:  leg.NonFinite,
		Cashflows:  make([]cashflowJSON, len(leg.Cashflows)),
	}
	for i, cf := range leg.Cashflows {
		out.Cashflows[i] = cashflowJSON{
			Start:            cf.Start.Format(time.DateOnly),
			End:              cf.End.Format(time.DateOnly),
			Pay:              cf.Pay.Format(time.DateOnly),
			Accrual:          cf.Accrual,
			DiscountFraction: cf.DiscountFraction,
			DiscountFactor:   cf.DiscountFactor,
			Rate:             cf.Rate,
			Fixed:            cf.Fixed,
			Interest:         Money(cf.Interest),
			PV:               Money(cf.PV),
		}
	}
	return out
}

// JSON writes the swap as an indented document. Amounts are decimal
// strings rounded to cents.
func JSON(w io.Writer, swap valuation.Swap, reference *float64) error {
	doc := swapJSON{
		RunID:     swap.RunID,
		Valuation: swap.Valuation.Format(time.DateOnly),
		Leg1:      toLegJSON(swap.Leg1),
		Leg2:      toLegJSON(swap.Leg2),
		NetPV:     Money(swap.NetPV),
		Elapsed:   swap.Elapsed,
	}
	if reference != nil {
		c := Compare(swap.NetPV, *reference)
		doc.Reference = &c.Reference
		doc.AbsDiff = &c.AbsDiff
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// Write renders swap in format: the period table followed by the summary,
// or the JSON document.
func Write(w io.Writer, format Format, swap valuation.Swap, reference *float64) error {
	switch format {
	case FormatJSON:
		return JSON(w, swap, reference)
	case FormatTable, "":
		if err := Table(w, swap.Leg1, swap.Leg2); err != nil {
			return err
		}
		return Summary(w, swap, reference)
	}
	return fmt.Errorf("report: %w: format %q", dpm.ErrInvalidInput, format)
}
