// Package interpolation evaluates a curve given by knots (x, y) at query
// points. Outside the knot range each method extrapolates with its first or
// last segment.
package interpolation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/meenmo/dpm"
)

// Method is an interpolation scheme.
type Method string

const (
	Linear       Method = "Linear"
	LogLinear    Method = "LogLinear"
	Exponential  Method = "Exponential"
	Quadratic    Method = "Quadratic"
	CubicHermite Method = "CubicHermite"
)

// Methods lists every supported scheme.
var Methods = []Method{Linear, LogLinear, Exponential, Quadratic, CubicHermite}

// ParseMethod is case-insensitive. The empty string selects LogLinear.
func ParseMethod(s string) (Method, error) {
	if strings.TrimSpace(s) == "" {
		return LogLinear, nil
	}
	for _, m := range Methods {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("interpolation: %w: method %q", dpm.ErrInvalidConvention, s)
}

// Bracket returns the index of the left knot of the segment used for xp:
// the number of knots at or below xp, less one, clamped to [0, len(x)-2].
// x must be non-decreasing and hold at least two knots.
func Bracket(x []float64, xp float64) int {
	n := sort.Search(len(x), func(i int) bool { return x[i] > xp })
	return min(max(n-1, 0), len(x)-2)
}

func validate(method Method, x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("interpolation: %w: %d x, %d y", dpm.ErrLengthMismatch, len(x), len(y))
	}
	need := 2
	if method == Quadratic {
		need = 3
	}
	if len(x) < need {
		return fmt.Errorf("interpolation: %w: %s needs %d knots, have %d", dpm.ErrInvalidInput, method, need, len(x))
	}
	return nil
}

// Interpolate evaluates the curve (x, y) at xp.
func Interpolate(method Method, x, y []float64, xp float64) (float64, error) {
	if err := validate(method, x, y); err != nil {
		return 0, err
	}
	return interpolate(method, x, y, xp)
}

// InterpolateAll evaluates the curve at every query point independently.
func InterpolateAll(method Method, x, y, xps []float64) ([]float64, error) {
	if err := validate(method, x, y); err != nil {
		return nil, err
	}
	out := make([]float64, len(xps))
	for i, xp := range xps {
		v, err := interpolate(method, x, y, xp)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func interpolate(method Method, x, y []float64, xp float64) (float64, error) {
	i := Bracket(x, xp)
	x1, x2 := x[i], x[i+1]
	y1, y2 := y[i], y[i+1]

	switch method {
	case Linear:
		t := (xp - x1) / (x2 - x1)
		return y1 + t*(y2-y1), nil
	case LogLinear:
		if y1 <= 0 || y2 <= 0 {
			return 0, fmt.Errorf("interpolation: %w: log-linear needs positive values, got %g and %g", dpm.ErrOutOfDomain, y1, y2)
		}
		h := x2 - x1
		return math.Exp((xp-x1)/h*math.Log(y2) + (x2-xp)/h*math.Log(y1)), nil
	case Exponential:
		if y1 <= 0 || y2 <= 0 {
			return 0, fmt.Errorf("interpolation: %w: exponential needs positive values, got %g and %g", dpm.ErrOutOfDomain, y1, y2)
		}
		h := x2 - x1
		return math.Pow(y2, (xp-x1)/h) * math.Pow(y1, (x2-xp)/h), nil
	case Quadratic:
		j := min(i, len(x)-3)
		a, b, c := QuadraticCoefficients(x[j], x[j+1], x[j+2], y[j], y[j+1], y[j+2])
		return a*xp*xp + b*xp + c, nil
	case CubicHermite:
		m0 := (y2 - y1) / (x2 - x1)
		m1 := m0
		if i+2 < len(x) {
			m1 = (y[i+2] - y1) / (x[i+2] - x1)
		}
		return hermite(x1, x2, y1, y2, m0, m1, xp), nil
	default:
		return 0, fmt.Errorf("interpolation: %w: method %q", dpm.ErrInvalidConvention, method)
	}
}

// QuadraticCoefficients returns a, b, c of the parabola a*x^2 + b*x + c
// through three knots with distinct abscissae.
func QuadraticCoefficients(x0, x1, x2, y0, y1, y2 float64) (a, b, c float64) {
	den := (x0 - x1) * (x0 - x2) * (x1 - x2)
	a = (x2*(y1-y0) + x1*(y0-y2) + x0*(y2-y1)) / den
	b = (x2*x2*(y0-y1) + x1*x1*(y2-y0) + x0*x0*(y1-y2)) / den
	c = y0*x1*x2/((x0-x1)*(x0-x2)) +
		y1*x0*x2/((x1-x0)*(x1-x2)) +
		y2*x0*x1/((x2-x0)*(x2-x1))
	return a, b, c
}

// hermite blends the end values and tangents with the cubic Hermite basis.
func hermite(x1, x2, y1, y2, m0, m1, xp float64) float64 {
	h := x2 - x1
	t := (xp - x1) / h
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*y1 + h10*h*m0 + h01*y2 + h11*h*m1
}
