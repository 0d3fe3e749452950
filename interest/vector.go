package interest

import (
	"fmt"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/solver"
)

// InterestEach broadcasts one rate over a sequence of period lengths.
func (c Convention) InterestEach(ns []float64, r float64) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([]float64, len(ns))
	for i, n := range ns {
		out[i] = c.Interest(n, r)
	}
	return out, nil
}

// InterestZip pairs period lengths with per-period rates.
func (c Convention) InterestZip(ns, rs []float64) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(ns) != len(rs) {
		return nil, fmt.Errorf("interest: %w: %d periods, %d rates", dpm.ErrLengthMismatch, len(ns), len(rs))
	}
	out := make([]float64, len(ns))
	for i := range ns {
		out[i] = c.Interest(ns[i], rs[i])
	}
	return out, nil
}

// PVZip returns the present value factor of each (n, r) pair.
func (c Convention) PVZip(ns, rs []float64) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(ns) != len(rs) {
		return nil, fmt.Errorf("interest: %w: %d periods, %d rates", dpm.ErrLengthMismatch, len(ns), len(rs))
	}
	out := make([]float64, len(ns))
	for i := range ns {
		out[i] = c.PV(ns[i], rs[i])
	}
	return out, nil
}

// Prod multiplies two equal-length sequences elementwise.
func Prod(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("interest: %w: %d and %d values", dpm.ErrLengthMismatch, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out, nil
}

// Scale multiplies every value by k.
func Scale(a []float64, k float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = v * k
	}
	return out
}

// Sum adds values left to right.
func Sum(a []float64) float64 {
	var s float64
	for _, v := range a {
		s += v
	}
	return s
}

// ImpliedRate solves PV(n, r) = pv for r numerically. Rate gives the closed
// form; this is the cross-check and the route for conventions without one.
func (c Convention) ImpliedRate(n, pv float64, opts solver.Options) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("interest: %w: period %g", dpm.ErrDegenerateInterval, n)
	}
	res, err := solver.Newton(func(r float64) float64 { return c.PV(n, r) }, pv, 0, opts)
	if err != nil {
		return 0, fmt.Errorf("interest: implied %s rate: %w", c, err)
	}
	return res.Root, nil
}
