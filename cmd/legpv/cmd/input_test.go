package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/daycount"
	"github.com/meenmo/dpm/interest"
	"github.com/meenmo/dpm/interpolation"
	"github.com/meenmo/dpm/utils"
	"github.com/meenmo/dpm/valuation"
)

func TestSpecDefaults(t *testing.T) {
	t.Parallel()

	in, err := decodeInput([]byte(`{
		"start": "2009-10-15", "end": "2039-09-23", "valuation_date": "2022-12-31",
		"discount_curve": "zar_disc_csa_irs",
		"leg1": {"nominal": 400000000, "spread_bp": 6, "forward_curve": "zar_swap_irs", "fixing_index": "jibar"},
		"leg2": {"kind": "fixed", "nominal": 400000000, "fixed_rate": 9.187, "compounding": "quarterly"}
	}`))
	require.NoError(t, err)
	spec, err := in.Spec()
	require.NoError(t, err)

	assert.Equal(t, utils.Date(2009, 10, 15), spec.Start)
	assert.Equal(t, calendar.Period{N: 3, Unit: calendar.Months}, spec.Step)
	assert.Equal(t, calendar.ModifiedFollowing, spec.BusinessDay)
	assert.Equal(t, daycount.Actual365Fixed, spec.DayCount)
	assert.Equal(t, interpolation.LogLinear, spec.Interpolation)

	assert.Equal(t, "leg1", spec.Leg1.Name)
	assert.Equal(t, valuation.Floating, spec.Leg1.Kind)
	assert.InDelta(t, 0.0006, spec.Leg1.Spread, 1e-15)
	assert.Equal(t, interest.SimpleRate(), spec.Leg1.Compounding)
	assert.Equal(t, valuation.FromDiscount, spec.Leg1.ForwardSource)

	assert.Equal(t, valuation.Fixed, spec.Leg2.Kind)
	assert.InDelta(t, 0.09187, spec.Leg2.FixedRate, 1e-15)
	assert.Equal(t, interest.Discrete, spec.Leg2.Compounding.Kind)
	assert.Equal(t, interest.Quarterly, spec.Leg2.Compounding.Frequency)
}

func TestSpecIndex(t *testing.T) {
	t.Parallel()

	in := SwapInput{
		Start: "2024-01-15", End: "2029-01-15", ValuationDate: "2024-01-15",
		Index: "tibor6m", DayCount: "ACT/360", DiscountCurve: "tonar",
		Leg1: LegInput{ForwardCurve: "tibor6m"},
		Leg2: LegInput{Kind: "fixed", FixedRatePct: 1},
	}
	spec, err := in.Spec()
	require.NoError(t, err)
	assert.Equal(t, calendar.Period{N: 6, Unit: calendar.Months}, spec.Step)
	assert.Equal(t, daycount.Actual360, spec.DayCount)
	assert.Equal(t, "JP", spec.Jurisdiction)
	assert.Equal(t, daycount.Actual365Fixed, spec.Leg2.DayCount)

	in.Index = "libor"
	_, err = in.Spec()
	assert.Error(t, err)

	in.Index = ""
	in.Leg1.Kind = "amortizing"
	_, err = in.Spec()
	assert.ErrorContains(t, err, "invalid kind")
}
