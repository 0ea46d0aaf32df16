package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for payment and query dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// CalendarDiff returns the component-wise calendar difference a − b:
// year, month and day-of-month deltas taken independently, not normalized.
// The reminder window works on these raw deltas.
func CalendarDiff(a, b time.Time) (years, months, days int) {
	years = a.Year() - b.Year()
	months = int(a.Month()) - int(b.Month())
	days = a.Day() - b.Day()
	return years, months, days
}

// ElapsedBlocks counts how many whole blocks of blockDays days lie between
// from and to. Negative when to precedes from.
func ElapsedBlocks(from, to time.Time, blockDays int) int {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return -((-days) / blockDays)
	}
	return days / blockDays
}

// ElapsedMonths counts whole calendar months between from and to,
// anchored on from's day of month.
func ElapsedMonths(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// MonthWindow returns the inclusive start and end instants of a calendar month.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Truncate to midnight, keeping the location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SumAmounts adds up a slice of decimals.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
