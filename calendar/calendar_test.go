package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/calendar"
	"github.com/meenmo/dpm/utils"
)

func d(s string) time.Time { return utils.MustDate(s) }

// South African public holidays around the cases below.
var za = calendar.NewHolidaySet(
	d("2022-12-16"), d("2022-12-25"), d("2022-12-26"), d("2022-12-27"),
	d("2023-01-02"), d("2023-03-21"), d("2023-04-07"), d("2023-04-10"),
	d("2023-04-27"), d("2023-05-01"), d("2023-06-16"), d("2023-08-09"),
	d("2023-09-24"), d("2023-09-25"), d("2023-12-16"), d("2023-12-25"),
	d("2023-12-26"), d("2024-03-29"),
)

func TestAdjust(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		conv calendar.Convention
		want string
	}{
		{"actual keeps weekend", "2023-04-29", calendar.Actual, "2023-04-29"},
		{"following over long weekend", "2023-04-07", calendar.Following, "2023-04-11"},
		{"preceding over holiday", "2023-04-10", calendar.Preceding, "2023-04-06"},
		{"modified following stays in month", "2023-04-29", calendar.ModifiedFollowing, "2023-04-28"},
		{"modified following plain", "2023-01-01", calendar.ModifiedFollowing, "2023-01-03"},
		{"modified following month end", "2023-09-30", calendar.ModifiedFollowing, "2023-09-29"},
		{"modified preceding month start", "2023-10-01", calendar.ModifiedPreceding, "2023-10-02"},
		{"modified preceding plain", "2023-12-17", calendar.ModifiedPreceding, "2023-12-15"},
		{"business day untouched", "2023-06-15", calendar.ModifiedFollowing, "2023-06-15"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := calendar.Adjust(d(tc.in), tc.conv, za)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Format(utils.DateLayout))
		})
	}
}

func TestAdjustInvariants(t *testing.T) {
	t.Parallel()

	start := d("2022-12-01")
	for i := 0; i < 500; i++ {
		day := start.AddDate(0, 0, i)
		for _, conv := range []calendar.Convention{calendar.Following, calendar.Preceding, calendar.ModifiedFollowing, calendar.ModifiedPreceding} {
			got, err := calendar.Adjust(day, conv, za)
			require.NoError(t, err)
			assert.True(t, calendar.IsBusinessDay(got, za), "%s %s -> %s", conv, day, got)
		}

		mf, _ := calendar.Adjust(day, calendar.ModifiedFollowing, za)
		f, _ := calendar.Adjust(day, calendar.Following, za)
		p, _ := calendar.Adjust(day, calendar.Preceding, za)
		if f.Month() == day.Month() {
			assert.Equal(t, f, mf)
		} else {
			assert.Equal(t, p, mf)
		}
	}
}

func TestAdjustRejectsUnknownConvention(t *testing.T) {
	t.Parallel()

	_, err := calendar.Adjust(d("2023-01-01"), calendar.Convention("Nearest"), za)
	assert.True(t, errors.Is(err, dpm.ErrInvalidConvention))

	_, err = calendar.ParseConvention("sideways")
	assert.ErrorIs(t, err, dpm.ErrInvalidConvention)

	conv, err := calendar.ParseConvention("mf")
	require.NoError(t, err)
	assert.Equal(t, calendar.ModifiedFollowing, conv)
}

func TestAdjustTerminatesOnSaturatedCalendar(t *testing.T) {
	t.Parallel()

	var all []time.Time
	for day := d("2023-01-01"); day.Year() < 2025; day = day.AddDate(0, 0, 1) {
		all = append(all, day)
	}
	_, err := calendar.Adjust(d("2023-06-01"), calendar.Following, calendar.NewHolidaySet(all...))
	assert.ErrorIs(t, err, dpm.ErrInvalidInput)
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2023-04-12", calendar.AddBusinessDays(d("2023-04-06"), 2, za).Format(utils.DateLayout))
	assert.Equal(t, "2023-04-05", calendar.AddBusinessDays(d("2023-04-11"), -2, za).Format(utils.DateLayout))
}

func TestHolidaySetAndProvider(t *testing.T) {
	t.Parallel()

	h := calendar.NewHolidaySet(d("2023-01-02"), d("2023-01-02"))
	assert.Equal(t, 1, h.Len())
	u := h.Union(calendar.NewHolidaySet(d("2023-12-25")))
	assert.Equal(t, []time.Time{d("2023-01-02"), d("2023-12-25")}, u.Dates())

	p := calendar.StaticProvider{"ZA": za}
	got, err := p.Holidays(context.Background(), "za")
	require.NoError(t, err)
	assert.True(t, got.Contains(d("2023-04-27")))

	_, err = p.Holidays(context.Background(), "GB")
	assert.Error(t, err)
}
