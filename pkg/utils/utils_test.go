package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarDiff(t *testing.T) {
	tests := []struct {
		name       string
		a, b       time.Time
		years      int
		months     int
		days       int
	}{
		{
			name:   "same date",
			a:      date(2026, time.August, 28),
			b:      date(2026, time.August, 28),
			years:  0,
			months: 0,
			days:   0,
		},
		{
			name:   "two months later, two days before the due day",
			a:      date(2026, time.August, 28),
			b:      date(2026, time.June, 30),
			years:  0,
			months: 2,
			days:   -2,
		},
		{
			name:   "components stay raw across a year boundary",
			a:      date(2026, time.January, 5),
			b:      date(2025, time.December, 20),
			years:  1,
			months: -11,
			days:   -15,
		},
		{
			name:   "a before b yields negative components",
			a:      date(2026, time.March, 1),
			b:      date(2026, time.May, 15),
			years:  0,
			months: -2,
			days:   -14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, months, days := CalendarDiff(tt.a, tt.b)
			assert.Equal(t, tt.years, years)
			assert.Equal(t, tt.months, months)
			assert.Equal(t, tt.days, days)
		})
	}
}

func TestElapsedBlocks(t *testing.T) {
	from := date(2026, time.January, 1)

	tests := []struct {
		name      string
		to        time.Time
		blockDays int
		expected  int
	}{
		{"less than one block", from.AddDate(0, 0, 29), 30, 0},
		{"exactly one block", from.AddDate(0, 0, 30), 30, 1},
		{"forty days is one block", from.AddDate(0, 0, 40), 30, 1},
		{"two blocks", from.AddDate(0, 0, 65), 30, 2},
		{"to before from", from.AddDate(0, 0, -45), 30, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ElapsedBlocks(from, tt.to, tt.blockDays))
		})
	}
}

func TestElapsedMonths(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{"same day", date(2026, time.January, 10), date(2026, time.January, 10), 0},
		{"one day short of a month", date(2026, time.January, 10), date(2026, time.February, 9), 0},
		{"exactly one month", date(2026, time.January, 10), date(2026, time.February, 10), 1},
		{"four whole months", date(2026, time.January, 10), date(2026, time.May, 20), 4},
		{"anchored across a year", date(2025, time.November, 15), date(2026, time.February, 14), 2},
		{"to before from", date(2026, time.June, 1), date(2026, time.January, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ElapsedMonths(tt.from, tt.to))
		})
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2026, 2)

	assert.Equal(t, date(2026, time.February, 1), start)
	assert.Equal(t, time.February, end.Month())
	assert.Equal(t, 28, end.Day())
	assert.True(t, end.Before(date(2026, time.March, 1)))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-08-28")
	assert.NoError(t, err)
	assert.Equal(t, date(2026, time.August, 28), parsed)

	_, err = ParseDate("28/08/2026")
	assert.Error(t, err)
}

func TestDayStart(t *testing.T) {
	noon := time.Date(2026, time.August, 28, 12, 34, 56, 789, time.UTC)
	assert.Equal(t, date(2026, time.August, 28), DayStart(noon))
}

func TestSumAmounts(t *testing.T) {
	total := SumAmounts([]decimal.Decimal{
		decimal.NewFromInt(100),
		decimal.NewFromInt(250),
		decimal.NewFromInt(650),
	})
	assert.True(t, total.Equal(decimal.NewFromInt(1000)))

	assert.True(t, SumAmounts(nil).Equal(decimal.Zero))
}
