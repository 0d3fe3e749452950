// Package termstructure holds paired coordinate sequences (tenor to rate,
// date to fixing, period start to period end). A Term is never modified in
// place; every operation returns a new one.
package termstructure

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/meenmo/dpm"
)

// Term pairs coordinates x with values y of the same length.
type Term[X comparable, Y any] struct {
	x []X
	y []Y
}

// New copies x and y into a Term.
func New[X comparable, Y any](x []X, y []Y) (Term[X, Y], error) {
	if len(x) != len(y) {
		return Term[X, Y]{}, fmt.Errorf("termstructure: %w: %d x, %d y", dpm.ErrLengthMismatch, len(x), len(y))
	}
	return Term[X, Y]{x: slices.Clone(x), y: slices.Clone(y)}, nil
}

// Padded builds a Term from sequences of unequal length by prepending
// defaults to the shorter one.
func Padded[X comparable, Y any](x []X, y []Y, defaultX X, defaultY Y) Term[X, Y] {
	for len(x) < len(y) {
		x = append([]X{defaultX}, x...)
	}
	for len(y) < len(x) {
		y = append([]Y{defaultY}, y...)
	}
	return Term[X, Y]{x: slices.Clone(x), y: slices.Clone(y)}
}

// FromMap orders a keyed mapping by key.
func FromMap[X cmp.Ordered, Y any](m map[X]Y) Term[X, Y] {
	keys := make([]X, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	vals := make([]Y, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}
	return Term[X, Y]{x: keys, y: vals}
}

// FromDateMap orders a date-keyed mapping chronologically.
func FromDateMap[Y any](m map[time.Time]Y) Term[time.Time, Y] {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b time.Time) int { return a.Compare(b) })
	vals := make([]Y, len(keys))
	for i, k := range keys {
		vals[i] = m[k]
	}
	return Term[time.Time, Y]{x: keys, y: vals}
}

// Periods pairs consecutive dates into (start, end) accrual periods.
func Periods(dates []time.Time) (Term[time.Time, time.Time], error) {
	if len(dates) < 2 {
		return Term[time.Time, time.Time]{}, fmt.Errorf("termstructure: %w: need at least two dates, have %d", dpm.ErrInvalidInput, len(dates))
	}
	return Term[time.Time, time.Time]{
		x: slices.Clone(dates[:len(dates)-1]),
		y: slices.Clone(dates[1:]),
	}, nil
}

// Len returns the number of points.
func (t Term[X, Y]) Len() int { return len(t.x) }

// X returns a copy of the coordinates.
func (t Term[X, Y]) X() []X { return slices.Clone(t.x) }

// Y returns a copy of the values.
func (t Term[X, Y]) Y() []Y { return slices.Clone(t.y) }

// At returns the i-th point.
func (t Term[X, Y]) At(i int) (X, Y) { return t.x[i], t.y[i] }

// LeftJoin overwrites each value whose coordinate appears in other with
// other's value for that coordinate. Coordinates are matched by equality.
func (t Term[X, Y]) LeftJoin(other Term[X, Y]) Term[X, Y] {
	lookup := make(map[X]Y, len(other.x))
	for i, k := range other.x {
		lookup[k] = other.y[i]
	}
	y := slices.Clone(t.y)
	for i, k := range t.x {
		if v, ok := lookup[k]; ok {
			y[i] = v
		}
	}
	return Term[X, Y]{x: slices.Clone(t.x), y: y}
}

// Matches counts the coordinates of t that appear in other.
func (t Term[X, Y]) Matches(other Term[X, Y]) int {
	seen := make(map[X]struct{}, len(other.x))
	for _, k := range other.x {
		seen[k] = struct{}{}
	}
	n := 0
	for _, k := range t.x {
		if _, ok := seen[k]; ok {
			n++
		}
	}
	return n
}

// MapX transforms the coordinates.
func MapX[X, Z comparable, Y any](t Term[X, Y], fn func(X) Z) Term[Z, Y] {
	x := make([]Z, len(t.x))
	for i, v := range t.x {
		x[i] = fn(v)
	}
	return Term[Z, Y]{x: x, y: slices.Clone(t.y)}
}

// MapY transforms the values.
func MapY[X comparable, Y, Z any](t Term[X, Y], fn func(Y) Z) Term[X, Z] {
	y := make([]Z, len(t.y))
	for i, v := range t.y {
		y[i] = fn(v)
	}
	return Term[X, Z]{x: slices.Clone(t.x), y: y}
}

// Shift adds amount to every value except those equal to unset.
func Shift[X comparable](t Term[X, float64], amount, unset float64) Term[X, float64] {
	return MapY(t, func(v float64) float64 {
		if v == unset {
			return v
		}
		return v + amount
	})
}
