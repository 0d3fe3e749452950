// Package daycount converts pairs of dates into year fractions.
package daycount

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/utils"
)

// Convention is a day count basis.
type Convention string

const (
	Actual360       Convention = "ACT/360"
	Actual365Fixed  Convention = "ACT/365F"
	Actual365Actual Convention = "ACT/365A"
	NonLeap365      Convention = "NL/365"
	Thirty360Bond   Convention = "30/360"
	ThirtyE360      Convention = "30E/360"
	ThirtyEPlus360  Convention = "30E+/360"
)

// Conventions lists every supported basis.
var Conventions = []Convention{
	Actual360, Actual365Fixed, Actual365Actual, NonLeap365,
	Thirty360Bond, ThirtyE360, ThirtyEPlus360,
}

// ParseConvention accepts the canonical codes and common market aliases.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToUpper(strings.ReplaceAll(s, " ", "")) {
	case "ACT/360", "A360", "ACTUAL360":
		return Actual360, nil
	case "", "ACT/365F", "ACT/365", "A365F", "ACTUAL365FIXED":
		return Actual365Fixed, nil
	case "ACT/365A", "ACTUAL365ACTUAL":
		return Actual365Actual, nil
	case "NL/365", "NONLEAP365":
		return NonLeap365, nil
	case "30/360", "30U/360", "BOND", "THIRTY360BOND":
		return Thirty360Bond, nil
	case "30E/360", "EUROBOND", "THIRTYE360":
		return ThirtyE360, nil
	case "30E+/360", "THIRTYEPLUS360":
		return ThirtyEPlus360, nil
	}
	return "", fmt.Errorf("daycount: %w: %q", dpm.ErrInvalidConvention, s)
}

// YearFraction returns the year fraction from start to end. It is negative
// when end precedes start.
func YearFraction(conv Convention, start, end time.Time) (float64, error) {
	switch conv {
	case Actual360:
		return float64(utils.Days(start, end)) / 360.0, nil
	case Actual365Fixed:
		return float64(utils.Days(start, end)) / 365.0, nil
	case Actual365Actual:
		return float64(utils.Days(start, end)) / actualBasis(start, end), nil
	case NonLeap365:
		return float64(utils.Days(start, end)-leapDays(start, end)) / 365.0, nil
	case Thirty360Bond:
		d1, d2 := start.Day(), end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2), nil
	case ThirtyE360:
		return thirty360(start, end, min(start.Day(), 30), min(end.Day(), 30)), nil
	case ThirtyEPlus360:
		d1 := min(start.Day(), 30)
		if end.Day() == 31 {
			rolled := end.AddDate(0, 0, 1)
			return thirty360(start, rolled, d1, rolled.Day()), nil
		}
		return thirty360(start, end, d1, end.Day()), nil
	default:
		return 0, fmt.Errorf("daycount: %w: %q", dpm.ErrInvalidConvention, conv)
	}
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

// leapDays counts the 29 Februaries in (start, end].
func leapDays(start, end time.Time) int {
	sign := 1
	if end.Before(start) {
		start, end = end, start
		sign = -1
	}
	n := 0
	for y := start.Year(); y <= end.Year(); y++ {
		if !utils.IsLeapYear(y) {
			continue
		}
		feb29 := utils.Date(y, time.February, 29)
		if feb29.After(start) && !feb29.After(end) {
			n++
		}
	}
	return sign * n
}

func actualBasis(start, end time.Time) float64 {
	if leapDays(start, end) != 0 {
		return 366.0
	}
	return 365.0
}

// YearFractions broadcasts one start date against a sequence of end dates.
func YearFractions(conv Convention, start time.Time, ends []time.Time) ([]float64, error) {
	out := make([]float64, len(ends))
	for i, end := range ends {
		yf, err := YearFraction(conv, start, end)
		if err != nil {
			return nil, err
		}
		out[i] = yf
	}
	return out, nil
}

// Pairwise returns the year fraction of each (starts[i], ends[i]) pair.
func Pairwise(conv Convention, starts, ends []time.Time) ([]float64, error) {
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("daycount: %w: %d starts, %d ends", dpm.ErrLengthMismatch, len(starts), len(ends))
	}
	out := make([]float64, len(starts))
	for i := range starts {
		yf, err := YearFraction(conv, starts[i], ends[i])
		if err != nil {
			return nil, err
		}
		out[i] = yf
	}
	return out, nil
}

// DiscountFractions returns the year fraction from the valuation date to
// each payment date, floored at zero for dates already elapsed.
func DiscountFractions(conv Convention, valuation time.Time, dates []time.Time) ([]float64, error) {
	out, err := YearFractions(conv, valuation, dates)
	if err != nil {
		return nil, err
	}
	for i, yf := range out {
		out[i] = math.Max(yf, 0)
	}
	return out, nil
}
