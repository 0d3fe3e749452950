package interpolation_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/interpolation"
)

var (
	knotsX = []float64{0.25, 0.5, 1, 2, 5, 10}
	knotsY = []float64{0.995, 0.989, 0.976, 0.948, 0.861, 0.725}
)

func TestBracket(t *testing.T) {
	t.Parallel()

	cases := []struct {
		xp   float64
		want int
	}{
		{-1, 0}, {0.1, 0}, {0.25, 0}, {0.3, 0}, {0.5, 1}, {1.5, 2},
		{5, 4}, {9.99, 4}, {10, 4}, {40, 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, interpolation.Bracket(knotsX, tc.xp), "xp=%g", tc.xp)
	}
}

func TestExactAtKnots(t *testing.T) {
	t.Parallel()

	for _, m := range interpolation.Methods {
		for i, x := range knotsX {
			got, err := interpolation.Interpolate(m, knotsX, knotsY, x)
			require.NoError(t, err)
			assert.InDelta(t, knotsY[i], got, 1e-12, "%s at knot %d", m, i)
		}
	}
}

func TestLinearAndLogLinear(t *testing.T) {
	t.Parallel()

	x := []float64{1, 3}
	y := []float64{0.9, 0.8}

	got, err := interpolation.Interpolate(interpolation.Linear, x, y, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, got, 1e-15)

	got, err = interpolation.Interpolate(interpolation.LogLinear, x, y, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.72), got, 1e-15)

	got, err = interpolation.Interpolate(interpolation.Exponential, x, y, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.72), got, 1e-15)
}

func TestExtrapolationUsesEdgeSegments(t *testing.T) {
	t.Parallel()

	x := []float64{1, 2, 4}
	y := []float64{1, 3, 4}

	below, err := interpolation.Interpolate(interpolation.Linear, x, y, 0)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, below, 1e-15)

	above, err := interpolation.Interpolate(interpolation.Linear, x, y, 6)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, above, 1e-15)

	for _, m := range interpolation.Methods {
		for _, xp := range []float64{-3, 0, 0.5, 4.5, 100} {
			_, err := interpolation.Interpolate(m, x, y, xp)
			assert.NoError(t, err, "%s at %g", m, xp)
		}
	}
}

func TestQuadraticCoefficients(t *testing.T) {
	t.Parallel()

	a, b, c := interpolation.QuadraticCoefficients(0.1, 0.2, 0.5, 1.2, 1.7, 2.1)
	assert.InDelta(t, -9.166667, a, 1e-6)
	assert.InDelta(t, 7.75, b, 1e-9)
	assert.InDelta(t, 0.516667, c, 1e-6)

	got, err := interpolation.Interpolate(interpolation.Quadratic, []float64{0.1, 0.2, 0.5}, []float64{1.2, 1.7, 2.1}, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, a*0.09+b*0.3+c, got, 1e-12)
}

func TestQuadraticReproducesParabola(t *testing.T) {
	t.Parallel()

	f := func(x float64) float64 { return 2*x*x - 3*x + 1 }
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i := range x {
		y[i] = f(x[i])
	}
	for _, xp := range []float64{0.5, 1.7, 3.2, 3.9, 5} {
		got, err := interpolation.Interpolate(interpolation.Quadratic, x, y, xp)
		require.NoError(t, err)
		assert.InDelta(t, f(xp), got, 1e-9, "xp=%g", xp)
	}
}

func TestCubicHermite(t *testing.T) {
	t.Parallel()

	// Straight lines are reproduced since every tangent equals the slope.
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 5, 7}
	for _, xp := range []float64{0.5, 1.25, 2.75} {
		got, err := interpolation.Interpolate(interpolation.CubicHermite, x, y, xp)
		require.NoError(t, err)
		assert.InDelta(t, 1+2*xp, got, 1e-12)
	}

	// Midpoint of the first segment: (y1+y2)/2 + h*(m0-m1)/8.
	y = []float64{0, 1, 4, 9}
	got, err := interpolation.Interpolate(interpolation.CubicHermite, x, y, 0.5)
	require.NoError(t, err)
	m0, m1 := 1.0, 2.0
	assert.InDelta(t, 0.5+(m0-m1)/8, got, 1e-12)
}

func TestDomainAndValidation(t *testing.T) {
	t.Parallel()

	_, err := interpolation.Interpolate(interpolation.LogLinear, []float64{1, 2}, []float64{0.01, -0.02}, 1.5)
	assert.ErrorIs(t, err, dpm.ErrOutOfDomain)

	_, err = interpolation.Interpolate(interpolation.Linear, []float64{1, 2}, []float64{1}, 1.5)
	assert.ErrorIs(t, err, dpm.ErrLengthMismatch)

	_, err = interpolation.Interpolate(interpolation.Quadratic, []float64{1, 2}, []float64{1, 2}, 1.5)
	assert.ErrorIs(t, err, dpm.ErrInvalidInput)

	_, err = interpolation.Interpolate(interpolation.Linear, []float64{1}, []float64{1}, 1)
	assert.ErrorIs(t, err, dpm.ErrInvalidInput)

	_, err = interpolation.Interpolate("Akima", knotsX, knotsY, 1)
	assert.ErrorIs(t, err, dpm.ErrInvalidConvention)

	_, err = interpolation.ParseMethod("spline")
	assert.ErrorIs(t, err, dpm.ErrInvalidConvention)

	m, err := interpolation.ParseMethod("loglinear")
	require.NoError(t, err)
	assert.Equal(t, interpolation.LogLinear, m)
}

func TestInterpolateAllMapsIndependently(t *testing.T) {
	t.Parallel()

	xps := []float64{0.3, 7, 1.5}
	all, err := interpolation.InterpolateAll(interpolation.LogLinear, knotsX, knotsY, xps)
	require.NoError(t, err)
	for i, xp := range xps {
		one, err := interpolation.Interpolate(interpolation.LogLinear, knotsX, knotsY, xp)
		require.NoError(t, err)
		assert.Equal(t, one, all[i])
	}
}

func TestDiscountFactorSentinels(t *testing.T) {
	t.Parallel()

	got, err := interpolation.DiscountFactorsAt(interpolation.LogLinear, knotsX, knotsY, []float64{-0.5, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 1.0, got[1])
	assert.InDelta(t, 0.976, got[2], 1e-12)

	// The plain interpolator extrapolates instead.
	plain, err := interpolation.Interpolate(interpolation.LogLinear, knotsX, knotsY, 0)
	require.NoError(t, err)
	assert.Greater(t, plain, 0.995)

	one, err := interpolation.DiscountFactorAt(interpolation.Linear, knotsX, knotsY, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, one)
}
