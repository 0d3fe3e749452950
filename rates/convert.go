// Package rates converts between discount factors, forward, spot and swap
// rates under a compounding convention.
package rates

import (
	"fmt"
	"math"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/interest"
	"github.com/meenmo/dpm/termstructure"
)

// Point is a curve node: tenor N in years and a value (discount factor or rate).
type Point struct {
	N     float64
	Value float64
}

// Status tells a computed forward rate apart from a zero substituted for
// an interval that could not produce one.
type Status int

const (
	Computed Status = iota
	Degenerate
	NonFinite
)

func (s Status) String() string {
	switch s {
	case Computed:
		return "computed"
	case Degenerate:
		return "degenerate"
	case NonFinite:
		return "non-finite"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Forward is a forward rate and how it was obtained. Rate is zero unless
// Status is Computed.
type Forward struct {
	Rate   float64
	Status Status
}

// Err returns nil for a computed forward and a wrapped error otherwise.
func (f Forward) Err() error {
	switch f.Status {
	case Computed:
		return nil
	case Degenerate:
		return fmt.Errorf("rates: %w: zero-length forward interval", dpm.ErrDegenerateInterval)
	default:
		return fmt.Errorf("rates: %w: non-finite forward rate", dpm.ErrDegenerateInterval)
	}
}

// DiscountToForward returns the rate implied between two discount factors:
// conv.Rate(n2-n1, df2/df1).
func DiscountToForward(conv interest.Convention, p1, p2 Point) Forward {
	if p2.N == p1.N {
		return Forward{Status: Degenerate}
	}
	r := conv.Rate(p2.N-p1.N, p2.Value/p1.Value)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Forward{Status: NonFinite}
	}
	return Forward{Rate: r, Status: Computed}
}

// SpotToForward is DiscountToForward after turning each spot rate into a
// discount factor.
func SpotToForward(conv interest.Convention, s1, s2 Point) Forward {
	return DiscountToForward(conv,
		Point{N: s1.N, Value: conv.PV(s1.N, s1.Value)},
		Point{N: s2.N, Value: conv.PV(s2.N, s2.Value)},
	)
}

// Forwards applies DiscountToForward to each consecutive pair of a
// discount-factor curve, giving one fewer value than the curve has points.
func Forwards(conv interest.Convention, curve termstructure.Term[float64, float64]) ([]Forward, error) {
	return pairwise(conv, curve, DiscountToForward)
}

// SpotForwards applies SpotToForward to each consecutive pair of a spot curve.
func SpotForwards(conv interest.Convention, curve termstructure.Term[float64, float64]) ([]Forward, error) {
	return pairwise(conv, curve, SpotToForward)
}

func pairwise(conv interest.Convention, curve termstructure.Term[float64, float64], fn func(interest.Convention, Point, Point) Forward) ([]Forward, error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	if curve.Len() < 2 {
		return nil, nil
	}
	out := make([]Forward, curve.Len()-1)
	for i := 1; i < curve.Len(); i++ {
		n1, v1 := curve.At(i - 1)
		n2, v2 := curve.At(i)
		out[i-1] = fn(conv, Point{N: n1, Value: v1}, Point{N: n2, Value: v2})
	}
	return out, nil
}

// ForwardRates extracts the rates, substituting zero where none was computed.
func ForwardRates(fwds []Forward) []float64 {
	out := make([]float64, len(fwds))
	for i, f := range fwds {
		out[i] = f.Rate
	}
	return out
}

// DiscountToSpot converts each discount factor into the rate that
// discounts to it from time zero. Points at or before time zero get 0.
func DiscountToSpot(conv interest.Convention, curve termstructure.Term[float64, float64]) (termstructure.Term[float64, float64], error) {
	if err := conv.Validate(); err != nil {
		return termstructure.Term[float64, float64]{}, err
	}
	x := curve.X()
	y := curve.Y()
	for i := range y {
		if x[i] <= 0 {
			y[i] = 0
			continue
		}
		y[i] = conv.Rate(x[i], y[i])
	}
	return termstructure.New(x, y)
}
