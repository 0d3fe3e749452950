// Package solver finds the argument at which a function reaches a target
// value using Newton-Raphson iteration.
package solver

import (
	"fmt"
	"math"

	"github.com/meenmo/dpm"
)

// Func is a real function of one variable.
type Func func(x float64) float64

// Options controls the iteration. A nil Derivative selects a forward
// difference with width Step.
type Options struct {
	Step          float64
	Tolerance     float64
	MaxIterations int
	Derivative    Func
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		Step:          1e-8,
		Tolerance:     1e-16,
		MaxIterations: 1_000_000,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Step <= 0 {
		o.Step = def.Step
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = def.MaxIterations
	}
	return o
}

// Result is a converged root.
type Result struct {
	Root       float64
	Iterations int
	Residual   float64
}

// NonConvergenceError reports where the iteration stopped. It matches
// dpm.ErrNonConvergence under errors.Is.
type NonConvergenceError struct {
	Reason     string
	Iterations int
	Last       float64
	Residual   float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("solver: %s after %d iterations (x=%g, residual=%g)", e.Reason, e.Iterations, e.Last, e.Residual)
}

func (e *NonConvergenceError) Unwrap() error { return dpm.ErrNonConvergence }

// Newton solves f(x) = target starting from guess.
func Newton(f Func, target, guess float64, opts Options) (Result, error) {
	if f == nil {
		return Result{}, fmt.Errorf("solver: %w: nil function", dpm.ErrInvalidInput)
	}
	opts = opts.withDefaults()

	x := guess
	fx := f(x)
	for iter := 0; ; iter++ {
		residual := target - fx
		if math.IsNaN(residual) || math.IsInf(residual, 0) {
			return Result{}, &NonConvergenceError{Reason: "non-finite value", Iterations: iter, Last: x, Residual: residual}
		}
		if math.Abs(residual) < opts.Tolerance {
			return Result{Root: x, Iterations: iter, Residual: residual}, nil
		}
		if iter >= opts.MaxIterations {
			return Result{}, &NonConvergenceError{Reason: "iteration cap reached", Iterations: iter, Last: x, Residual: residual}
		}

		var slope float64
		if opts.Derivative != nil {
			slope = opts.Derivative(x)
		} else {
			slope = (f(x+opts.Step) - fx) / opts.Step
		}
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			return Result{}, &NonConvergenceError{Reason: "flat or non-finite derivative", Iterations: iter, Last: x, Residual: residual}
		}

		x += residual / slope
		fx = f(x)
	}
}
