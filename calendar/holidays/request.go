// Package holidays fetches public holiday calendars from the Nager.Date API
// and keeps them in a local file cache.
package holidays

import (
	"fmt"
	"slices"
	"strings"

	"github.com/meenmo/dpm"
)

const (
	minYear = 1900
	maxYear = 2200
)

// Request names the calendars and years to fetch.
type Request struct {
	Codes []string
	Years []int
}

// NewRequest validates and normalizes country codes (ISO 3166 alpha-2) and
// years. Duplicates are dropped.
func NewRequest(codes []string, years []int) (Request, error) {
	if len(codes) == 0 {
		return Request{}, fmt.Errorf("holidays: %w: no country codes", dpm.ErrInvalidInput)
	}
	if len(years) == 0 {
		return Request{}, fmt.Errorf("holidays: %w: no years", dpm.ErrInvalidInput)
	}

	norm := make([]string, 0, len(codes))
	for _, c := range codes {
		code, err := NormalizeCode(c)
		if err != nil {
			return Request{}, err
		}
		norm = append(norm, code)
	}
	for _, y := range years {
		if y < minYear || y > maxYear {
			return Request{}, fmt.Errorf("holidays: %w: year %d", dpm.ErrInvalidInput, y)
		}
	}

	slices.Sort(norm)
	ys := slices.Clone(years)
	slices.Sort(ys)
	return Request{Codes: slices.Compact(norm), Years: slices.Compact(ys)}, nil
}

// NormalizeCode upper-cases and checks a two-letter country code.
func NormalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 2 || c[0] < 'A' || c[0] > 'Z' || c[1] < 'A' || c[1] > 'Z' {
		return "", fmt.Errorf("holidays: %w: country code %q", dpm.ErrInvalidInput, code)
	}
	return c, nil
}

// YearRange expands "2020-2025" or "2024" into a list of years.
func YearRange(s string) ([]int, error) {
	var from, to int
	if _, err := fmt.Sscanf(s, "%d-%d", &from, &to); err != nil {
		if _, err := fmt.Sscanf(s, "%d", &from); err != nil {
			return nil, fmt.Errorf("holidays: %w: year range %q", dpm.ErrInvalidInput, s)
		}
		to = from
	}
	if to < from {
		return nil, fmt.Errorf("holidays: %w: year range %q", dpm.ErrInvalidInput, s)
	}
	out := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, y)
	}
	return out, nil
}
