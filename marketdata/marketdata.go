// Package marketdata loads named market curves and rate fixings and turns
// them into term structures the pricing core can read.
package marketdata

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/termstructure"
)

// DaysPerYear normalizes integer day tenors to year fractions.
const DaysPerYear = 365.0

// Loader supplies raw market data by name.
type Loader interface {
	// Curve returns tenor (days from the curve date) to value.
	Curve(ctx context.Context, name string) (map[int]float64, error)
	// Fixings returns fixing date to published rate.
	Fixings(ctx context.Context, name string) (map[time.Time]float64, error)
}

// CurveTerm orders a curve by tenor and converts the tenors to years by
// dividing by basis (DaysPerYear when basis is not positive).
func CurveTerm(points map[int]float64, basis float64) (termstructure.Term[float64, float64], error) {
	if len(points) == 0 {
		return termstructure.Term[float64, float64]{}, fmt.Errorf("marketdata: %w: empty curve", dpm.ErrMissingMarketData)
	}
	if basis <= 0 {
		basis = DaysPerYear
	}
	for tenor, v := range points {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return termstructure.Term[float64, float64]{}, fmt.Errorf("marketdata: %w: tenor %d is not finite", dpm.ErrMissingMarketData, tenor)
		}
	}
	days := termstructure.FromMap(points)
	return termstructure.MapX(days, func(d int) float64 { return float64(d) / basis }), nil
}

// LoadCurve fetches a curve and normalizes it with CurveTerm.
func LoadCurve(ctx context.Context, l Loader, name string, basis float64) (termstructure.Term[float64, float64], error) {
	points, err := l.Curve(ctx, name)
	if err != nil {
		return termstructure.Term[float64, float64]{}, err
	}
	term, err := CurveTerm(points, basis)
	if err != nil {
		return termstructure.Term[float64, float64]{}, fmt.Errorf("curve %q: %w", name, err)
	}
	return term, nil
}

// LoadFixings fetches fixings as a date-ordered term structure.
func LoadFixings(ctx context.Context, l Loader, name string) (termstructure.Term[time.Time, float64], error) {
	fixings, err := l.Fixings(ctx, name)
	if err != nil {
		return termstructure.Term[time.Time, float64]{}, err
	}
	return termstructure.FromDateMap(fixings), nil
}

// ParseTenor converts tenors like "1W", "3M", "10Y", "30D" or a bare day
// count to days. Months count 365/12 days and years 365, rounded.
func ParseTenor(tenor string) (int, error) {
	tenor = strings.TrimSpace(strings.ToUpper(tenor))
	if v, err := strconv.Atoi(tenor); err == nil && v >= 0 {
		return v, nil
	}
	if len(tenor) < 2 {
		return 0, fmt.Errorf("marketdata: %w: tenor %q", dpm.ErrInvalidInput, tenor)
	}
	v, err := strconv.Atoi(tenor[:len(tenor)-1])
	if err != nil || v < 0 {
		return 0, fmt.Errorf("marketdata: %w: tenor %q", dpm.ErrInvalidInput, tenor)
	}
	switch tenor[len(tenor)-1] {
	case 'D':
		return v, nil
	case 'W':
		return 7 * v, nil
	case 'M':
		return int(math.Round(float64(v) * DaysPerYear / 12)), nil
	case 'Y':
		return int(math.Round(float64(v) * DaysPerYear)), nil
	}
	return 0, fmt.Errorf("marketdata: %w: tenor %q", dpm.ErrInvalidInput, tenor)
}

func checkValue(kind, key string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("marketdata: %w: %s %s has no value", dpm.ErrMissingMarketData, kind, key)
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, fmt.Errorf("marketdata: %w: %s %s is not finite", dpm.ErrMissingMarketData, kind, key)
	}
	return *v, nil
}
