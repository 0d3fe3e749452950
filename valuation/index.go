package valuation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/daycount"
)

// Index is the market convention of a term reference rate.
type Index struct {
	Name         string
	Step         calendar.Period
	DayCount     daycount.Convention
	BusinessDay  calendar.Convention
	Jurisdiction string
	// FixedDayCount is the usual accrual basis of a fixed leg quoted
	// against the index.
	FixedDayCount daycount.Convention
}

var (
	quarterly = calendar.Period{N: 3, Unit: calendar.Months}
	semi      = calendar.Period{N: 6, Unit: calendar.Months}
)

// Indices are the supported term rates keyed by upper-case name.
var Indices = map[string]Index{
	"JIBAR3M": {
		Name: "JIBAR3M", Step: quarterly, DayCount: daycount.Actual365Fixed,
		BusinessDay: calendar.ModifiedFollowing, Jurisdiction: "ZA",
		FixedDayCount: daycount.Actual365Fixed,
	},
	"EURIBOR3M": {
		Name: "EURIBOR3M", Step: quarterly, DayCount: daycount.Actual360,
		BusinessDay: calendar.ModifiedFollowing, Jurisdiction: "DE",
		FixedDayCount: daycount.ThirtyE360,
	},
	"EURIBOR6M": {
		Name: "EURIBOR6M", Step: semi, DayCount: daycount.Actual360,
		BusinessDay: calendar.ModifiedFollowing, Jurisdiction: "DE",
		FixedDayCount: daycount.ThirtyE360,
	},
	"TIBOR3M": {
		Name: "TIBOR3M", Step: quarterly, DayCount: daycount.Actual365Fixed,
		BusinessDay: calendar.ModifiedFollowing, Jurisdiction: "JP",
		FixedDayCount: daycount.Actual365Fixed,
	},
	"TIBOR6M": {
		Name: "TIBOR6M", Step: semi, DayCount: daycount.Actual365Fixed,
		BusinessDay: calendar.ModifiedFollowing, Jurisdiction: "JP",
		FixedDayCount: daycount.Actual365Fixed,
	},
	"CD91D": {
		Name: "CD91D", Step: quarterly, DayCount: daycount.Actual365Fixed,
		BusinessDay: calendar.ModifiedFollowing, Jurisdiction: "KR",
		FixedDayCount: daycount.Actual365Fixed,
	},
}

// IndexNames lists the catalog in alphabetical order.
func IndexNames() []string {
	names := make([]string, 0, len(Indices))
	for k := range Indices {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupIndex finds an index by case-insensitive name.
func LookupIndex(name string) (Index, error) {
	idx, ok := Indices[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Index{}, fmt.Errorf("valuation: %w: index %q", dpm.ErrInvalidConvention, name)
	}
	return idx, nil
}

// Apply fills the fields of spec that are still unset with the index
// conventions. Fixed legs without a day count get FixedDayCount.
func (i Index) Apply(spec *SwapSpec) {
	if spec.Step.N == 0 {
		spec.Step = i.Step
	}
	if spec.DayCount == "" {
		spec.DayCount = i.DayCount
	}
	if spec.BusinessDay == "" {
		spec.BusinessDay = i.BusinessDay
	}
	if spec.Jurisdiction == "" {
		spec.Jurisdiction = i.Jurisdiction
	}
	for _, leg := range []*LegSpec{&spec.Leg1, &spec.Leg2} {
		if leg.Kind == Fixed && leg.DayCount == "" {
			leg.DayCount = i.FixedDayCount
		}
	}
}
