// Package valuation prices the legs of an interest rate swap: it builds the
// payment schedule, reads discount and forward curves at each payment,
// splices in published fixings and sums the discounted interest.
package valuation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/marketdata"
	"github.com/meenmo/dpm/solver"
)

// Swap is a valued two-leg swap. NetPV is Leg1.PV - Leg2.PV.
type Swap struct {
	RunID     string
	Valuation time.Time
	Leg1      Leg
	Leg2      Leg
	NetPV     float64
	// Elapsed counts schedule payments before the valuation date. Their
	// discount fraction is floored at zero.
	Elapsed int
}

// Valuer prices swaps against a resolved market.
type Valuer struct {
	Logger *zap.Logger
}

// New returns a Valuer logging to logger (nil discards).
func New(logger *zap.Logger) *Valuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Valuer{Logger: logger}
}

func (v *Valuer) logger() *zap.Logger {
	if v == nil || v.Logger == nil {
		return zap.NewNop()
	}
	return v.Logger
}

// ValueSwap values both legs of spec on mkt.
func (v *Valuer) ValueSwap(spec SwapSpec, mkt Market) (Swap, error) {
	if err := spec.Validate(); err != nil {
		return Swap{}, err
	}
	spec, err := spec.normalized()
	if err != nil {
		return Swap{}, err
	}

	runID := uuid.NewString()
	log := v.logger().With(zap.String("run_id", runID))

	sched, err := BuildSchedule(spec, mkt.Holidays)
	if err != nil {
		return Swap{}, err
	}
	log.Debug("schedule built",
		zap.Int("periods", sched.Periods.Len()),
		zap.Time("first_start", sched.Periods.X()[0]),
		zap.Time("last_end", sched.Periods.Y()[sched.Periods.Len()-1]),
	)
	if sched.Elapsed > 0 {
		log.Info("payments before valuation date discounted at par",
			zap.Int("elapsed", sched.Elapsed),
			zap.Time("valuation", spec.Valuation),
		)
	}

	out := Swap{RunID: runID, Valuation: spec.Valuation, Elapsed: sched.Elapsed}
	for _, item := range []struct {
		spec LegSpec
		dst  *Leg
	}{{spec.Leg1, &out.Leg1}, {spec.Leg2, &out.Leg2}} {
		leg, err := valueLeg(spec, item.spec, sched, mkt)
		if err != nil {
			return Swap{}, err
		}
		logLeg(log, leg)
		*item.dst = leg
	}
	out.NetPV = out.Leg1.PV - out.Leg2.PV

	log.Info("swap valued",
		zap.Float64("leg1_pv", out.Leg1.PV),
		zap.Float64("leg2_pv", out.Leg2.PV),
		zap.Float64("net_pv", out.NetPV),
	)
	return out, nil
}

func logLeg(log *zap.Logger, leg Leg) {
	fields := []zap.Field{
		zap.String("leg", leg.Name),
		zap.Int("cashflows", len(leg.Cashflows)),
		zap.Int("fixings", leg.Fixings),
		zap.Int("degenerate", leg.Degenerate),
		zap.Float64("pv", leg.PV),
	}
	if leg.NonFinite > 0 {
		log.Warn("forward rates not finite, priced at zero", append(fields, zap.Int("non_finite", leg.NonFinite))...)
		return
	}
	log.Debug("leg valued", fields...)
}

// ValueSwapFrom resolves the market through loader and holidays and then
// values spec.
func (v *Valuer) ValueSwapFrom(ctx context.Context, spec SwapSpec, loader marketdata.Loader, holidays calendar.HolidayProvider, basis float64) (Swap, error) {
	if err := spec.Validate(); err != nil {
		return Swap{}, err
	}
	mkt, err := LoadMarket(ctx, loader, holidays, spec, basis)
	if err != nil {
		return Swap{}, err
	}
	return v.ValueSwap(spec, mkt)
}

// DefaultSpreadTolerance is the net PV tolerance per unit nominal used by
// SolveSpread when opts leaves it unset.
const DefaultSpreadTolerance = 1e-10

// SolveSpread finds the leg 1 spread at which the net PV equals target.
// Tolerance in opts is per unit of leg 1 nominal.
func (v *Valuer) SolveSpread(spec SwapSpec, mkt Market, target float64, opts solver.Options) (float64, error) {
	if spec.Leg1.Kind != Floating {
		return 0, fmt.Errorf("valuation: %w: spread solve needs a floating first leg", dpm.ErrInvalidInput)
	}
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	spec, err := spec.normalized()
	if err != nil {
		return 0, err
	}
	sched, err := BuildSchedule(spec, mkt.Holidays)
	if err != nil {
		return 0, err
	}
	leg2, err := valueLeg(spec, spec.Leg2, sched, mkt)
	if err != nil {
		return 0, err
	}

	var evalErr error
	net := func(s float64) float64 {
		leg := spec.Leg1
		leg.Spread = s
		leg1, err := valueLeg(spec, leg, sched, mkt)
		if err != nil {
			evalErr = err
			return math.NaN()
		}
		return leg1.PV - leg2.PV
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultSpreadTolerance
	}
	opts.Tolerance *= math.Max(1, math.Abs(spec.Leg1.Nominal))
	res, err := solver.Newton(net, target, spec.Leg1.Spread, opts)
	if evalErr != nil {
		return 0, evalErr
	}
	if err != nil {
		return 0, fmt.Errorf("valuation: spread: %w", err)
	}
	v.logger().Debug("spread solved",
		zap.Float64("spread", res.Root),
		zap.Int("iterations", res.Iterations),
		zap.Float64("residual", res.Residual),
	)
	return res.Root, nil
}
