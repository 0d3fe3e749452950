package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/utils"
)

// Convention is a business-day adjustment rule.
type Convention string

const (
	Actual            Convention = "Actual"
	Following         Convention = "Following"
	Preceding         Convention = "Preceding"
	ModifiedFollowing Convention = "ModifiedFollowing"
	ModifiedPreceding Convention = "ModifiedPreceding"
)

// maxRoll bounds the walk to the next business day. A year of consecutive
// holidays means the calendar data is broken.
const maxRoll = 366

// ParseConvention accepts the canonical names and the common abbreviations.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToUpper(strings.ReplaceAll(s, " ", "")) {
	case "", "ACTUAL", "NONE", "UNADJUSTED":
		return Actual, nil
	case "FOLLOWING", "F":
		return Following, nil
	case "PRECEDING", "P":
		return Preceding, nil
	case "MODIFIEDFOLLOWING", "MF":
		return ModifiedFollowing, nil
	case "MODIFIEDPRECEDING", "MP":
		return ModifiedPreceding, nil
	}
	return "", fmt.Errorf("calendar: %w: business day convention %q", dpm.ErrInvalidConvention, s)
}

// HolidaySet is an immutable set of non-business dates, keyed by calendar day.
type HolidaySet struct {
	days map[string]struct{}
}

// NewHolidaySet builds a set from the given dates. Time of day is ignored.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	days := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		days[d.Format(utils.DateLayout)] = struct{}{}
	}
	return HolidaySet{days: days}
}

// Contains reports whether t is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h.days[t.Format(utils.DateLayout)]
	return ok
}

// Len returns the number of holidays in the set.
func (h HolidaySet) Len() int { return len(h.days) }

// Dates returns the holidays in ascending order.
func (h HolidaySet) Dates() []time.Time {
	out := make([]time.Time, 0, len(h.days))
	for k := range h.days {
		out = append(out, utils.MustDate(k))
	}
	utils.SortDates(out)
	return out
}

// Union returns a set holding the holidays of both calendars.
func (h HolidaySet) Union(other HolidaySet) HolidaySet {
	days := make(map[string]struct{}, len(h.days)+len(other.days))
	for k := range h.days {
		days[k] = struct{}{}
	}
	for k := range other.days {
		days[k] = struct{}{}
	}
	return HolidaySet{days: days}
}

// HolidayProvider resolves a jurisdiction code (ISO 3166 alpha-2) to its holidays.
type HolidayProvider interface {
	Holidays(ctx context.Context, code string) (HolidaySet, error)
}

// StaticProvider serves fixed in-memory calendars.
type StaticProvider map[string]HolidaySet

// Holidays implements HolidayProvider.
func (p StaticProvider) Holidays(_ context.Context, code string) (HolidaySet, error) {
	h, ok := p[strings.ToUpper(code)]
	if !ok {
		return HolidaySet{}, fmt.Errorf("calendar: no holidays for %q", code)
	}
	return h, nil
}

// IsBusinessDay checks weekends and the holiday set.
func IsBusinessDay(t time.Time, holidays HolidaySet) bool {
	return !utils.IsWeekend(t) && !holidays.Contains(t)
}

func roll(t time.Time, step int, holidays HolidaySet) (time.Time, error) {
	for i := 0; !IsBusinessDay(t, holidays); i++ {
		if i >= maxRoll {
			return time.Time{}, fmt.Errorf("calendar: %w: no business day within %d days of %s",
				dpm.ErrInvalidInput, maxRoll, t.Format(utils.DateLayout))
		}
		t = t.AddDate(0, 0, step)
	}
	return t, nil
}

// Adjust moves t to a business day according to conv.
func Adjust(t time.Time, conv Convention, holidays HolidaySet) (time.Time, error) {
	switch conv {
	case Actual:
		return t, nil
	case Following:
		return roll(t, 1, holidays)
	case Preceding:
		return roll(t, -1, holidays)
	case ModifiedFollowing:
		adj, err := roll(t, 1, holidays)
		if err != nil || adj.Month() == t.Month() {
			return adj, err
		}
		return roll(t, -1, holidays)
	case ModifiedPreceding:
		adj, err := roll(t, -1, holidays)
		if err != nil || adj.Month() == t.Month() {
			return adj, err
		}
		return roll(t, 1, holidays)
	default:
		return time.Time{}, fmt.Errorf("calendar: %w: business day convention %q", dpm.ErrInvalidConvention, conv)
	}
}

// AdjustAll applies Adjust to every date independently.
func AdjustAll(dates []time.Time, conv Convention, holidays HolidaySet) ([]time.Time, error) {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		adj, err := Adjust(d, conv, holidays)
		if err != nil {
			return nil, err
		}
		out[i] = adj
	}
	return out, nil
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(t time.Time, n int, holidays HolidaySet) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(t, holidays) {
			n -= step
		}
	}
	return t
}
