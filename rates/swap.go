package rates

import (
	"fmt"
	"math"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/interest"
	"github.com/meenmo/dpm/termstructure"
)

// accrualPeriods returns the length of each coupon period ending at the
// given tenors, the first starting at zero. Tenors must strictly increase.
func accrualPeriods(tenors []float64) ([]float64, error) {
	out := make([]float64, len(tenors))
	prev := 0.0
	for i, n := range tenors {
		if n <= prev {
			return nil, fmt.Errorf("rates: %w: tenor %g does not follow %g", dpm.ErrDegenerateInterval, n, prev)
		}
		out[i] = n - prev
		prev = n
	}
	return out, nil
}

// SwapToDiscount solves the par annuity identity
//
//	sum interest(p_i, S)*df_i + fv(p_last, S)*df_last = 1
//
// for the final discount factor, given the swap point (tenor, S) and the
// discount factors at every earlier coupon date.
func SwapToDiscount(conv interest.Convention, swap Point, known []Point) (float64, error) {
	if err := conv.Validate(); err != nil {
		return 0, err
	}
	tenors := make([]float64, 0, len(known)+1)
	for _, p := range known {
		tenors = append(tenors, p.N)
	}
	tenors = append(tenors, swap.N)
	periods, err := accrualPeriods(tenors)
	if err != nil {
		return 0, err
	}

	s := swap.Value
	annuity := 0.0
	for i, p := range known {
		annuity += conv.Interest(periods[i], s) * p.Value
	}
	df := (1 - annuity) / conv.FV(periods[len(periods)-1], s)
	if math.IsNaN(df) || math.IsInf(df, 0) {
		return 0, fmt.Errorf("rates: %w: discount factor at %g from swap rate %g", dpm.ErrOutOfDomain, swap.N, s)
	}
	return df, nil
}

// DiscountAndSwapCheck evaluates the left side of the par annuity identity
// for a complete discount curve. A curve consistent with swap rate s
// returns 1.
func DiscountAndSwapCheck(conv interest.Convention, s float64, curve termstructure.Term[float64, float64]) (float64, error) {
	if err := conv.Validate(); err != nil {
		return 0, err
	}
	if curve.Len() == 0 {
		return 0, fmt.Errorf("rates: %w: empty discount curve", dpm.ErrInvalidInput)
	}
	periods, err := accrualPeriods(curve.X())
	if err != nil {
		return 0, err
	}
	dfs := curve.Y()
	last := len(dfs) - 1
	total := 0.0
	for i := 0; i < last; i++ {
		total += conv.Interest(periods[i], s) * dfs[i]
	}
	total += conv.FV(periods[last], s) * dfs[last]
	return total, nil
}

// Bootstrap turns a par swap curve into discount factors node by node, each
// node a swap paying at every earlier node. Nodes at tenor zero discount at par.
func Bootstrap(conv interest.Convention, swaps termstructure.Term[float64, float64]) (termstructure.Term[float64, float64], error) {
	if err := conv.Validate(); err != nil {
		return termstructure.Term[float64, float64]{}, err
	}
	tenors := swaps.X()
	rates := swaps.Y()
	dfs := make([]float64, len(tenors))
	known := make([]Point, 0, len(tenors))
	for i, n := range tenors {
		if n == 0 {
			dfs[i] = 1
			continue
		}
		df, err := SwapToDiscount(conv, Point{N: n, Value: rates[i]}, known)
		if err != nil {
			return termstructure.Term[float64, float64]{}, fmt.Errorf("rates: bootstrap node %g: %w", n, err)
		}
		dfs[i] = df
		known = append(known, Point{N: n, Value: df})
	}
	return termstructure.New(tenors, dfs)
}
