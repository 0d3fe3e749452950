package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/daycount"
	"github.com/meenmo/dpm/interpolation"
	"github.com/meenmo/dpm/rates"
	"github.com/meenmo/dpm/termstructure"
)

// Schedule is the adjusted period grid shared by both legs.
type Schedule struct {
	Periods termstructure.Term[time.Time, time.Time]
	Pay     []time.Time
	// EndFractions run from the valuation date to each period end, floored at 0.
	EndFractions []float64
	// PayFractions run from the valuation date to each payment, floored at 0.
	PayFractions []float64
	// Elapsed counts payments before the valuation date.
	Elapsed int
}

// BuildSchedule rolls the unadjusted dates, adjusts them and measures the
// discount fractions.
func BuildSchedule(spec SwapSpec, holidays calendar.HolidaySet) (Schedule, error) {
	dates, err := calendar.Schedule(spec.Start, spec.End, spec.Step, spec.BusinessDay, holidays)
	if err != nil {
		return Schedule{}, err
	}
	periods, err := termstructure.Periods(dates)
	if err != nil {
		return Schedule{}, err
	}
	ends := periods.Y()
	pay := ends
	if spec.PayLagDays > 0 {
		pay = make([]time.Time, len(ends))
		for i, d := range ends {
			pay[i] = calendar.AddBusinessDays(d, spec.PayLagDays, holidays)
		}
	}

	endFractions, err := daycount.DiscountFractions(spec.DayCount, spec.Valuation, ends)
	if err != nil {
		return Schedule{}, err
	}
	payFractions, err := daycount.DiscountFractions(spec.DayCount, spec.Valuation, pay)
	if err != nil {
		return Schedule{}, err
	}

	elapsed := 0
	for _, d := range pay {
		if d.Before(spec.Valuation) {
			elapsed++
		}
	}
	return Schedule{
		Periods:      periods,
		Pay:          pay,
		EndFractions: endFractions,
		PayFractions: payFractions,
		Elapsed:      elapsed,
	}, nil
}

// Cashflow is one accrual period of a leg.
type Cashflow struct {
	Start            time.Time
	End              time.Time
	Pay              time.Time
	Accrual          float64
	DiscountFraction float64
	DiscountFactor   float64
	Rate             float64
	// Fixed is set when Rate came from a published fixing.
	Fixed    bool
	Interest float64
	PV       float64
}

// Leg is a valued leg.
type Leg struct {
	Name      string
	Nominal   float64
	Cashflows []Cashflow
	PV        float64

	// Fixings counts periods whose rate was replaced by a fixing.
	Fixings int
	// Degenerate and NonFinite count forward intervals that produced no rate.
	Degenerate int
	NonFinite  int
}

// valueLeg prices one leg on a schedule.
func valueLeg(spec SwapSpec, leg LegSpec, sched Schedule, mkt Market) (Leg, error) {
	disc, err := mkt.curve(spec.DiscountCurve)
	if err != nil {
		return Leg{}, err
	}
	starts := sched.Periods.X()
	ends := sched.Periods.Y()

	accruals, err := daycount.Pairwise(leg.DayCount, starts, ends)
	if err != nil {
		return Leg{}, err
	}
	dfs, err := interpolation.DiscountFactorsAt(spec.Interpolation, disc.X(), disc.Y(), sched.PayFractions)
	if err != nil {
		return Leg{}, fmt.Errorf("valuation: discount curve %q: %w", spec.DiscountCurve, err)
	}

	out := Leg{Name: leg.Name, Nominal: leg.Nominal}
	var fixed map[time.Time]bool
	var rateTerm termstructure.Term[time.Time, float64]
	switch leg.Kind {
	case Fixed:
		r := make([]float64, len(starts))
		for i := range r {
			r[i] = leg.FixedRate
		}
		rateTerm, err = termstructure.New(starts, r)
		if err != nil {
			return Leg{}, err
		}
	case Floating:
		var fwds []rates.Forward
		rateTerm, fwds, err = forwardRates(spec, leg, sched, mkt)
		if err != nil {
			return Leg{}, err
		}
		for _, f := range fwds {
			switch f.Status {
			case rates.Degenerate:
				out.Degenerate++
			case rates.NonFinite:
				out.NonFinite++
			}
		}
		if leg.FixingIndex != "" {
			fixings, err := mkt.fixings(leg.FixingIndex)
			if err != nil {
				return Leg{}, err
			}
			out.Fixings = rateTerm.Matches(fixings)
			rateTerm = rateTerm.LeftJoin(fixings)
			fixed = make(map[time.Time]bool, fixings.Len())
			for _, d := range fixings.X() {
				fixed[d] = true
			}
		}
		rateTerm = termstructure.Shift(rateTerm, leg.Spread, 0)
	default:
		return Leg{}, fmt.Errorf("valuation: %w: leg kind %q", dpm.ErrInvalidConvention, leg.Kind)
	}

	rs := rateTerm.Y()
	interest, err := leg.Compounding.InterestZip(accruals, rs)
	if err != nil {
		return Leg{}, err
	}

	out.Cashflows = make([]Cashflow, 0, len(starts))
	for i := range starts {
		if leg.ExcludeElapsed && sched.Pay[i].Before(spec.Valuation) {
			continue
		}
		amount := interest[i] * leg.Nominal
		cf := Cashflow{
			Start:            starts[i],
			End:              ends[i],
			Pay:              sched.Pay[i],
			Accrual:          accruals[i],
			DiscountFraction: sched.PayFractions[i],
			DiscountFactor:   dfs[i],
			Rate:             rs[i],
			Fixed:            fixed[starts[i]],
			Interest:         amount,
			PV:               amount * dfs[i],
		}
		if math.IsNaN(cf.PV) || math.IsInf(cf.PV, 0) {
			return Leg{}, fmt.Errorf("valuation: %w: leg %q period %s has a non-finite present value",
				dpm.ErrOutOfDomain, leg.Name, cf.Start.Format(time.DateOnly))
		}
		out.Cashflows = append(out.Cashflows, cf)
		out.PV += cf.PV
	}
	return out, nil
}

// forwardRates returns the projected rate for every period keyed by period
// start, with the status of each forward interval used.
func forwardRates(spec SwapSpec, leg LegSpec, sched Schedule, mkt Market) (termstructure.Term[time.Time, float64], []rates.Forward, error) {
	fwd, err := mkt.curve(leg.ForwardCurve)
	if err != nil {
		return termstructure.Term[time.Time, float64]{}, nil, err
	}
	starts := sched.Periods.X()
	wrap := func(err error) error {
		return fmt.Errorf("valuation: forward curve %q: %w", leg.ForwardCurve, err)
	}

	var fwds []rates.Forward
	switch leg.ForwardSource {
	case Quoted:
		// The rate quoted at each period start applies to the whole period.
		startFractions, err := daycount.DiscountFractions(spec.DayCount, spec.Valuation, starts)
		if err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, err
		}
		rs, err := interpolation.InterpolateAll(spec.Interpolation, fwd.X(), fwd.Y(), startFractions)
		if err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, wrap(err)
		}
		term, err := termstructure.New(starts, rs)
		return term, nil, err
	case FromSpot:
		spots, err := interpolation.InterpolateAll(spec.Interpolation, fwd.X(), fwd.Y(), sched.EndFractions)
		if err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, wrap(err)
		}
		curve, err := termstructure.New(sched.EndFractions, spots)
		if err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, err
		}
		if fwds, err = rates.SpotForwards(leg.Compounding, curve); err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, err
		}
	default:
		factors, err := interpolation.DiscountFactorsAt(spec.Interpolation, fwd.X(), fwd.Y(), sched.EndFractions)
		if err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, wrap(err)
		}
		curve, err := termstructure.New(sched.EndFractions, factors)
		if err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, err
		}
		if fwds, err = rates.Forwards(leg.Compounding, curve); err != nil {
			return termstructure.Term[time.Time, float64]{}, nil, err
		}
	}
	// Consecutive period ends bracket every period but the first, which
	// stays unset until a fixing fills it.
	return termstructure.Padded(starts, rates.ForwardRates(fwds), time.Time{}, 0), fwds, nil
}
