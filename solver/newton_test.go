package solver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/solver"
)

func TestNewtonFindsSquareRoot(t *testing.T) {
	t.Parallel()

	square := func(x float64) float64 { return x * x }
	opts := solver.Options{Tolerance: 1e-12}

	res, err := solver.Newton(square, 2, 1, opts)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-10)
	assert.Less(t, res.Iterations, 50)

	opts.Derivative = func(x float64) float64 { return 2 * x }
	res, err = solver.Newton(square, 2, 1, opts)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-12)
}

func TestNewtonInvertsDiscountFactor(t *testing.T) {
	t.Parallel()

	const n = 2.5
	pv := func(r float64) float64 { return math.Exp(-r * n) }
	target := pv(0.07)

	res, err := solver.Newton(pv, target, 0, solver.Options{Tolerance: 1e-15})
	require.NoError(t, err)
	assert.InDelta(t, 0.07, res.Root, 1e-9)
}

func TestNewtonReportsNonConvergence(t *testing.T) {
	t.Parallel()

	// x^2 never reaches -1.
	square := func(x float64) float64 { return x * x }
	_, err := solver.Newton(square, -1, 3, solver.Options{MaxIterations: 25})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dpm.ErrNonConvergence))

	var nc *solver.NonConvergenceError
	require.ErrorAs(t, err, &nc)
	assert.LessOrEqual(t, nc.Iterations, 25)
}

func TestNewtonFlatDerivative(t *testing.T) {
	t.Parallel()

	flat := func(float64) float64 { return 1 }
	_, err := solver.Newton(flat, 2, 0, solver.DefaultOptions())
	assert.ErrorIs(t, err, dpm.ErrNonConvergence)
}

func TestNewtonNilFunction(t *testing.T) {
	t.Parallel()

	_, err := solver.Newton(nil, 1, 0, solver.DefaultOptions())
	assert.ErrorIs(t, err, dpm.ErrInvalidInput)
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := solver.DefaultOptions()
	assert.Equal(t, 1e-8, opts.Step)
	assert.Equal(t, 1e-16, opts.Tolerance)
	assert.Equal(t, 1_000_000, opts.MaxIterations)
}
