package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/daycount"
	"github.com/meenmo/dpm/interest"
	"github.com/meenmo/dpm/interpolation"
)

// LegKind selects how a leg's coupon rates are set.
type LegKind string

const (
	Floating LegKind = "Floating"
	Fixed    LegKind = "Fixed"
)

// ForwardSource says what the values of a leg's forward curve are.
type ForwardSource string

const (
	// FromDiscount curves hold discount factors; forwards come from
	// consecutive pairs of them.
	FromDiscount ForwardSource = "FromDiscount"
	// FromSpot curves hold zero rates under the leg's compounding.
	FromSpot ForwardSource = "FromSpot"
	// Quoted curves hold the forward rate starting at each tenor.
	Quoted ForwardSource = "Quoted"
)

// LegSpec describes one leg of a swap.
//
// Rates and spreads are decimals (0.0006 == 6bp).
type LegSpec struct {
	Name    string
	Kind    LegKind
	Nominal float64

	// Spread is added to every floating rate that is set. It is ignored
	// for fixed legs.
	Spread    float64
	FixedRate float64

	Compounding interest.Convention
	// DayCount for accrual fractions. Empty falls back to SwapSpec.DayCount.
	DayCount daycount.Convention

	ForwardCurve  string
	ForwardSource ForwardSource
	// FixingIndex names the published fixings spliced in by period start.
	FixingIndex string

	// ExcludeElapsed drops periods paid before the valuation date.
	ExcludeElapsed bool
}

// SwapSpec is two legs on a shared schedule and discount curve.
type SwapSpec struct {
	Start     time.Time
	End       time.Time
	Valuation time.Time
	Step      calendar.Period

	BusinessDay  calendar.Convention
	Jurisdiction string
	// DayCount measures discount fractions from the valuation date.
	DayCount      daycount.Convention
	Interpolation interpolation.Method
	DiscountCurve string
	// PayLagDays shifts each payment after its period end in business days.
	PayLagDays int

	Leg1 LegSpec
	Leg2 LegSpec
}

func (l LegSpec) forwardSource() ForwardSource {
	if l.ForwardSource == "" {
		return FromDiscount
	}
	return l.ForwardSource
}

// Validate checks a leg in isolation.
func (l LegSpec) Validate() error {
	if math.IsNaN(l.Nominal) || math.IsInf(l.Nominal, 0) {
		return fmt.Errorf("valuation: %w: leg %q nominal is not finite", dpm.ErrInvalidInput, l.Name)
	}
	if err := l.Compounding.Validate(); err != nil {
		return fmt.Errorf("valuation: leg %q: %w", l.Name, err)
	}
	switch l.Kind {
	case Fixed:
		if math.IsNaN(l.FixedRate) || math.IsInf(l.FixedRate, 0) {
			return fmt.Errorf("valuation: %w: leg %q fixed rate is not finite", dpm.ErrInvalidInput, l.Name)
		}
	case Floating:
		if l.ForwardCurve == "" {
			return fmt.Errorf("valuation: %w: leg %q has no forward curve", dpm.ErrInvalidInput, l.Name)
		}
		if math.IsNaN(l.Spread) || math.IsInf(l.Spread, 0) {
			return fmt.Errorf("valuation: %w: leg %q spread is not finite", dpm.ErrInvalidInput, l.Name)
		}
		switch l.forwardSource() {
		case FromDiscount, FromSpot, Quoted:
		default:
			return fmt.Errorf("valuation: %w: leg %q forward source %q", dpm.ErrInvalidConvention, l.Name, l.ForwardSource)
		}
	default:
		return fmt.Errorf("valuation: %w: leg %q kind %q", dpm.ErrInvalidConvention, l.Name, l.Kind)
	}
	return nil
}

// Validate checks the shared schedule fields and both legs.
func (s SwapSpec) Validate() error {
	if s.Start.IsZero() || s.End.IsZero() || s.Valuation.IsZero() {
		return fmt.Errorf("valuation: %w: start, end and valuation dates are required", dpm.ErrInvalidInput)
	}
	if !s.End.After(s.Start) {
		return fmt.Errorf("valuation: %w: end %s is not after start %s", dpm.ErrInvalidInput, s.End.Format(time.DateOnly), s.Start.Format(time.DateOnly))
	}
	if s.Step.N <= 0 {
		return fmt.Errorf("valuation: %w: step %s", dpm.ErrInvalidInput, s.Step)
	}
	if s.DiscountCurve == "" {
		return fmt.Errorf("valuation: %w: no discount curve", dpm.ErrInvalidInput)
	}
	if s.PayLagDays < 0 {
		return fmt.Errorf("valuation: %w: negative pay lag", dpm.ErrInvalidInput)
	}
	for _, leg := range []LegSpec{s.Leg1, s.Leg2} {
		if err := leg.Validate(); err != nil {
			return err
		}
	}
	_, err := s.normalized()
	return err
}

// normalized resolves aliases and defaults in the convention fields.
func (s SwapSpec) normalized() (SwapSpec, error) {
	var err error
	if s.DayCount, err = daycount.ParseConvention(string(s.DayCount)); err != nil {
		return s, fmt.Errorf("valuation: %w", err)
	}
	if s.BusinessDay, err = calendar.ParseConvention(string(s.BusinessDay)); err != nil {
		return s, fmt.Errorf("valuation: %w", err)
	}
	if s.Interpolation, err = interpolation.ParseMethod(string(s.Interpolation)); err != nil {
		return s, fmt.Errorf("valuation: %w", err)
	}
	for _, leg := range []*LegSpec{&s.Leg1, &s.Leg2} {
		if leg.DayCount == "" {
			leg.DayCount = s.DayCount
		} else if leg.DayCount, err = daycount.ParseConvention(string(leg.DayCount)); err != nil {
			return s, fmt.Errorf("valuation: leg %q: %w", leg.Name, err)
		}
		leg.ForwardSource = leg.forwardSource()
	}
	return s, nil
}
