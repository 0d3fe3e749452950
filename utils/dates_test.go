package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonthClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		months int
		want   string
	}{
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-03-31", -1, "2023-02-28"},
		{"2039-09-23", -3, "2039-06-23"},
		{"2022-12-15", 3, "2023-03-15"},
		{"2023-05-31", -12, "2022-05-31"},
	}
	for _, tc := range cases {
		got := AddMonth(MustDate(tc.in), tc.months)
		assert.Equal(t, tc.want, got.Format(DateLayout), "%s %+d", tc.in, tc.months)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2022-12-31")
	require.NoError(t, err)
	assert.Equal(t, Date(2022, time.December, 31), d)

	_, err = ParseDate("31/12/2022")
	assert.Error(t, err)
}

func TestDaysAcrossDST(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	start := time.Date(2023, time.March, 20, 0, 0, 0, 0, loc)
	end := time.Date(2023, time.April, 3, 0, 0, 0, 0, loc)
	assert.Equal(t, 14, Days(start, end))
}

func TestIsLeapYear(t *testing.T) {
	t.Parallel()

	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2023))
}

func TestSortDates(t *testing.T) {
	t.Parallel()

	dates := []time.Time{MustDate("2023-03-01"), MustDate("2021-01-01"), MustDate("2022-06-30")}
	SortDates(dates)
	assert.Equal(t, "2021-01-01", dates[0].Format(DateLayout))
	assert.Equal(t, "2023-03-01", dates[2].Format(DateLayout))
}
