package daycount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/daycount"
	"github.com/meenmo/dpm/utils"
)

func d(s string) time.Time { return utils.MustDate(s) }

func TestYearFraction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		conv       daycount.Convention
		start, end string
		want       float64
	}{
		{daycount.Actual360, "2023-01-15", "2023-04-17", 92.0 / 360.0},
		{daycount.Actual365Fixed, "2023-01-15", "2023-04-17", 92.0 / 365.0},
		{daycount.Actual365Fixed, "2022-12-31", "2023-12-31", 1.0},
		{daycount.Actual365Actual, "2024-01-15", "2024-04-15", 91.0 / 366.0},
		{daycount.Actual365Actual, "2023-01-15", "2023-04-15", 90.0 / 365.0},
		{daycount.NonLeap365, "2024-01-01", "2025-01-01", 1.0},
		{daycount.Thirty360Bond, "2023-01-30", "2023-03-31", 60.0 / 360.0},
		{daycount.Thirty360Bond, "2023-01-15", "2023-03-31", 76.0 / 360.0},
		{daycount.Thirty360Bond, "2023-01-31", "2023-02-28", 28.0 / 360.0},
		{daycount.ThirtyE360, "2023-01-15", "2023-03-31", 75.0 / 360.0},
		{daycount.ThirtyE360, "2023-01-31", "2023-07-31", 0.5},
		{daycount.ThirtyEPlus360, "2023-01-15", "2023-03-31", 76.0 / 360.0},
		{daycount.ThirtyEPlus360, "2023-01-31", "2023-07-31", 181.0 / 360.0},
	}
	for _, tc := range cases {
		got, err := daycount.YearFraction(tc.conv, d(tc.start), d(tc.end))
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-15, "%s %s->%s", tc.conv, tc.start, tc.end)
	}
}

func TestYearFractionRejectsUnknownConvention(t *testing.T) {
	t.Parallel()

	_, err := daycount.YearFraction("BUS/252", d("2023-01-01"), d("2023-02-01"))
	assert.ErrorIs(t, err, dpm.ErrInvalidConvention)

	_, err = daycount.ParseConvention("BUS/252")
	assert.ErrorIs(t, err, dpm.ErrInvalidConvention)

	for _, conv := range daycount.Conventions {
		parsed, err := daycount.ParseConvention(string(conv))
		require.NoError(t, err)
		assert.Equal(t, conv, parsed)
	}
}

func TestPairwiseLengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := daycount.Pairwise(daycount.Actual365Fixed, []time.Time{d("2023-01-01")}, nil)
	assert.ErrorIs(t, err, dpm.ErrLengthMismatch)

	got, err := daycount.Pairwise(daycount.Actual360,
		[]time.Time{d("2023-01-01"), d("2023-04-01")},
		[]time.Time{d("2023-04-01"), d("2023-07-01")})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{90.0 / 360.0, 91.0 / 360.0}, got, 1e-15)
}

func TestDiscountFractionsAreFloored(t *testing.T) {
	t.Parallel()

	valuation := d("2022-12-31")
	dates := []time.Time{d("2022-06-30"), d("2022-12-31"), d("2023-06-30")}

	raw, err := daycount.YearFractions(daycount.Actual365Fixed, valuation, dates)
	require.NoError(t, err)
	assert.Less(t, raw[0], 0.0)

	got, err := daycount.DiscountFractions(daycount.Actual365Fixed, valuation, dates)
	require.NoError(t, err)
	for _, yf := range got {
		assert.GreaterOrEqual(t, yf, 0.0)
	}
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 0.0, got[1])
	assert.InDelta(t, 181.0/365.0, got[2], 1e-15)
}
