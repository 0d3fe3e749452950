package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/daycount"
	"github.com/meenmo/dpm/interest"
	"github.com/meenmo/dpm/interpolation"
	"github.com/meenmo/dpm/utils"
	"github.com/meenmo/dpm/valuation"
)

// SwapInput is the JSON schema accepted by value and spread.
//
// Conventions:
// - fixed rates are in percent (9.187 means 9.187%)
// - spreads are in bp (6 means +6bp)
// - dates are YYYY-MM-DD
type SwapInput struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	ValuationDate string `json:"valuation_date"`
	Step          string `json:"step"` // "3M"

	// Index fills step, day count, business day and jurisdiction when
	// they are left out, e.g. "JIBAR3M".
	Index         string `json:"index"`
	BusinessDay   string `json:"business_day"`  // default ModifiedFollowing
	Jurisdiction  string `json:"jurisdiction"`  // "ZA"
	DayCount      string `json:"day_count"`     // default ACT/365F
	Interpolation string `json:"interpolation"` // default LogLinear
	DiscountCurve string `json:"discount_curve"`
	PayLagDays    int    `json:"pay_lag_days"`

	// Reference is an external net PV to compare against.
	Reference *float64 `json:"reference,omitempty"`

	Leg1 LegInput `json:"leg1"`
	Leg2 LegInput `json:"leg2"`
}

// LegInput describes one leg.
type LegInput struct {
	Name           string  `json:"name"`
	Kind           string  `json:"kind"` // floating (default) or fixed
	Nominal        float64 `json:"nominal"`
	SpreadBP       float64 `json:"spread_bp"`
	FixedRatePct   float64 `json:"fixed_rate"`
	Compounding    string  `json:"compounding"` // simple (default), continuous, quarterly, discrete:N
	DayCount       string  `json:"day_count"`
	ForwardCurve   string  `json:"forward_curve"`
	ForwardSource  string  `json:"forward_source"` // discount (default), spot, quoted
	FixingIndex    string  `json:"fixing_index"`
	ExcludeElapsed bool    `json:"exclude_elapsed"`
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" && path != "-" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func decodeInput(raw []byte) (SwapInput, error) {
	var in SwapInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return SwapInput{}, fmt.Errorf("failed to parse JSON input: %w", err)
	}
	return in, nil
}

// Spec converts the input into a valuation spec.
func (in SwapInput) Spec() (valuation.SwapSpec, error) {
	start, err := utils.ParseDate(in.Start)
	if err != nil {
		return valuation.SwapSpec{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := utils.ParseDate(in.End)
	if err != nil {
		return valuation.SwapSpec{}, fmt.Errorf("invalid end: %w", err)
	}
	val, err := utils.ParseDate(in.ValuationDate)
	if err != nil {
		return valuation.SwapSpec{}, fmt.Errorf("invalid valuation_date: %w", err)
	}
	spec := valuation.SwapSpec{
		Start:         start,
		End:           end,
		Valuation:     val,
		Jurisdiction:  strings.ToUpper(strings.TrimSpace(in.Jurisdiction)),
		DiscountCurve: in.DiscountCurve,
		PayLagDays:    in.PayLagDays,
	}
	if strings.TrimSpace(in.Step) != "" {
		if spec.Step, err = calendar.ParsePeriod(in.Step); err != nil {
			return valuation.SwapSpec{}, err
		}
	}
	if strings.TrimSpace(in.BusinessDay) != "" {
		if spec.BusinessDay, err = calendar.ParseConvention(in.BusinessDay); err != nil {
			return valuation.SwapSpec{}, err
		}
	}
	if strings.TrimSpace(in.DayCount) != "" {
		if spec.DayCount, err = daycount.ParseConvention(in.DayCount); err != nil {
			return valuation.SwapSpec{}, err
		}
	}
	if spec.Interpolation, err = interpolation.ParseMethod(in.Interpolation); err != nil {
		return valuation.SwapSpec{}, err
	}

	leg1, err := in.Leg1.spec("leg1")
	if err != nil {
		return valuation.SwapSpec{}, err
	}
	leg2, err := in.Leg2.spec("leg2")
	if err != nil {
		return valuation.SwapSpec{}, err
	}
	spec.Leg1, spec.Leg2 = leg1, leg2

	if strings.TrimSpace(in.Index) != "" {
		idx, err := valuation.LookupIndex(in.Index)
		if err != nil {
			return valuation.SwapSpec{}, err
		}
		idx.Apply(&spec)
	}
	if spec.Step.N == 0 {
		spec.Step = calendar.Period{N: 3, Unit: calendar.Months}
	}
	if spec.BusinessDay == "" {
		spec.BusinessDay = calendar.ModifiedFollowing
	}
	if spec.DayCount == "" {
		spec.DayCount = daycount.Actual365Fixed
	}
	return spec, nil
}

func (l LegInput) spec(fallbackName string) (valuation.LegSpec, error) {
	name := l.Name
	if name == "" {
		name = fallbackName
	}

	var kind valuation.LegKind
	switch strings.ToLower(strings.TrimSpace(l.Kind)) {
	case "", "floating", "float":
		kind = valuation.Floating
	case "fixed":
		kind = valuation.Fixed
	default:
		return valuation.LegSpec{}, fmt.Errorf("%s: invalid kind %q (use floating or fixed)", name, l.Kind)
	}

	var source valuation.ForwardSource
	switch strings.ToLower(strings.TrimSpace(l.ForwardSource)) {
	case "", "discount", "fromdiscount":
		source = valuation.FromDiscount
	case "spot", "fromspot":
		source = valuation.FromSpot
	case "quoted", "forward":
		source = valuation.Quoted
	default:
		return valuation.LegSpec{}, fmt.Errorf("%s: invalid forward_source %q", name, l.ForwardSource)
	}

	compounding := interest.SimpleRate()
	if strings.TrimSpace(l.Compounding) != "" {
		c, err := interest.ParseConvention(l.Compounding)
		if err != nil {
			return valuation.LegSpec{}, fmt.Errorf("%s: %w", name, err)
		}
		compounding = c
	}

	var dc daycount.Convention
	if strings.TrimSpace(l.DayCount) != "" {
		c, err := daycount.ParseConvention(l.DayCount)
		if err != nil {
			return valuation.LegSpec{}, fmt.Errorf("%s: %w", name, err)
		}
		dc = c
	}

	return valuation.LegSpec{
		Name:           name,
		Kind:           kind,
		Nominal:        l.Nominal,
		Spread:         l.SpreadBP * 1e-4,
		FixedRate:      l.FixedRatePct / 100,
		Compounding:    compounding,
		DayCount:       dc,
		ForwardCurve:   l.ForwardCurve,
		ForwardSource:  source,
		FixingIndex:    l.FixingIndex,
		ExcludeElapsed: l.ExcludeElapsed,
	}, nil
}
