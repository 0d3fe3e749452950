package valuation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/marketdata"
	"github.com/meenmo/dpm/termstructure"
)

// Curve is a market curve with tenors in years.
type Curve = termstructure.Term[float64, float64]

// Fixings are published rates keyed by fixing date.
type Fixings = termstructure.Term[time.Time, float64]

// Market is everything a swap valuation reads, already resolved.
type Market struct {
	Curves   map[string]Curve
	Fixings  map[string]Fixings
	Holidays calendar.HolidaySet
}

func (m Market) curve(name string) (Curve, error) {
	c, ok := m.Curves[name]
	if !ok {
		return Curve{}, fmt.Errorf("valuation: %w: curve %q", dpm.ErrMissingMarketData, name)
	}
	return c, nil
}

func (m Market) fixings(name string) (Fixings, error) {
	f, ok := m.Fixings[name]
	if !ok {
		return Fixings{}, fmt.Errorf("valuation: %w: fixings %q", dpm.ErrMissingMarketData, name)
	}
	return f, nil
}

// LoadMarket resolves the curves, fixings and holiday calendar a swap needs.
// Curve tenors are divided by basis to get years.
func LoadMarket(ctx context.Context, loader marketdata.Loader, holidays calendar.HolidayProvider, spec SwapSpec, basis float64) (Market, error) {
	curveNames := []string{spec.DiscountCurve}
	var fixingNames []string
	for _, leg := range []LegSpec{spec.Leg1, spec.Leg2} {
		if leg.Kind == Floating && leg.ForwardCurve != "" {
			curveNames = append(curveNames, leg.ForwardCurve)
		}
		if leg.FixingIndex != "" {
			fixingNames = append(fixingNames, leg.FixingIndex)
		}
	}

	curves := make([]Curve, len(curveNames))
	fixings := make([]Fixings, len(fixingNames))
	var hol calendar.HolidaySet

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range curveNames {
		g.Go(func() error {
			c, err := marketdata.LoadCurve(ctx, loader, name, basis)
			if err != nil {
				return err
			}
			curves[i] = c
			return nil
		})
	}
	for i, name := range fixingNames {
		g.Go(func() error {
			f, err := marketdata.LoadFixings(ctx, loader, name)
			if err != nil {
				return err
			}
			fixings[i] = f
			return nil
		})
	}
	if spec.Jurisdiction != "" && holidays != nil {
		g.Go(func() error {
			h, err := holidays.Holidays(ctx, spec.Jurisdiction)
			if err != nil {
				return fmt.Errorf("holidays %q: %w", spec.Jurisdiction, err)
			}
			hol = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Market{}, err
	}

	m := Market{
		Curves:   make(map[string]Curve, len(curveNames)),
		Fixings:  make(map[string]Fixings, len(fixingNames)),
		Holidays: hol,
	}
	for i, name := range curveNames {
		m.Curves[name] = curves[i]
	}
	for i, name := range fixingNames {
		m.Fixings[name] = fixings[i]
	}
	return m, nil
}
