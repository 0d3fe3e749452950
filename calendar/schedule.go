package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/utils"
)

// Unit is the time unit of a Period.
type Unit string

const (
	Days   Unit = "D"
	Weeks  Unit = "W"
	Months Unit = "M"
	Years  Unit = "Y"
)

// Period is a schedule step such as 3M or 1Y.
type Period struct {
	N    int
	Unit Unit
}

func (p Period) String() string { return strconv.Itoa(p.N) + string(p.Unit) }

// ParsePeriod parses tenors like "1W", "3M", "10Y", "30D".
func ParsePeriod(s string) (Period, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Period{}, fmt.Errorf("calendar: %w: period %q", dpm.ErrInvalidInput, s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return Period{}, fmt.Errorf("calendar: %w: period %q", dpm.ErrInvalidInput, s)
	}
	u := Unit(s[len(s)-1:])
	switch u {
	case Days, Weeks, Months, Years:
		return Period{N: n, Unit: u}, nil
	}
	return Period{}, fmt.Errorf("calendar: %w: period unit %q", dpm.ErrInvalidInput, u)
}

// Shift moves t by sign*p. Month and year steps clamp to the month end.
func (p Period) Shift(t time.Time, sign int) time.Time {
	n := sign * p.N
	switch p.Unit {
	case Days:
		return t.AddDate(0, 0, n)
	case Weeks:
		return t.AddDate(0, 0, 7*n)
	case Years:
		return utils.AddMonth(t, 12*n)
	default:
		return utils.AddMonth(t, n)
	}
}

// Sequence returns the bound-inclusive unadjusted dates between a and b,
// rolled backward from the later bound by step. A short stub, if any, is
// the first period. The order of the bounds does not matter.
func Sequence(a, b time.Time, step Period) ([]time.Time, error) {
	if step.N <= 0 {
		return nil, fmt.Errorf("calendar: %w: step %s", dpm.ErrInvalidInput, step)
	}
	lower, upper := a, b
	if upper.Before(lower) {
		lower, upper = upper, lower
	}

	var rolled []time.Time
	last := step.Shift(lower, 1)
	for current := upper; current.After(lower); {
		rolled = append(rolled, current)
		if !current.After(last) {
			break
		}
		current = step.Shift(current, -1)
	}

	out := make([]time.Time, 0, len(rolled)+1)
	out = append(out, lower)
	for i := len(rolled) - 1; i >= 0; i-- {
		out = append(out, rolled[i])
	}
	return out, nil
}

// Schedule builds the sequence between start and end and adjusts every date.
func Schedule(start, end time.Time, step Period, conv Convention, holidays HolidaySet) ([]time.Time, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("calendar: %w: end %s not after start %s",
			dpm.ErrInvalidInput, end.Format(utils.DateLayout), start.Format(utils.DateLayout))
	}
	raw, err := Sequence(start, end, step)
	if err != nil {
		return nil, err
	}
	return AdjustAll(raw, conv, holidays)
}
