// Package dates parses the heterogeneous date strings found in
// employee records and movement ledgers. Dates are treated as local
// calendar dates at midnight; there is no timezone normalization.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Layouts tried by the free-form fallback, in order.
var fallbackLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseFlexible converts a date string into a calendar date. The
// dd/MM/yyyy European form is tried first, with a strict round-trip
// check so that an overflowing day (31/02/2024) is rejected instead of
// silently rolling into March. Anything else goes through a free-form
// fallback. Failure is reported through ok=false, never an error:
// callers exclude unparseable records from calculations.
func ParseFlexible(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}

	if parts := strings.Split(s, "/"); len(parts) == 3 {
		day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errD == nil && errM == nil && errY == nil && year >= 100 {
			d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
			// time.Date normalizes overflow, so reconstruct and compare.
			if d.Year() == year && int(d.Month()) == month && d.Day() == day {
				return d, true
			}
			return time.Time{}, false
		}
	}

	for _, layout := range fallbackLayouts {
		if d, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return midnight(d), true
		}
	}

	return time.Time{}, false
}

// Format renders a date in the application's canonical dd/MM/yyyy form.
func Format(d time.Time) string {
	return d.Format("02/01/2006")
}

// SameYear reports whether d falls in the given calendar year.
func SameYear(d time.Time, year int) bool {
	return d.Year() == year
}

// SameMonth reports whether d falls in the given calendar year and month.
func SameMonth(d time.Time, year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

// WholeMonthsBetween returns the number of whole months elapsed from
// 'from' to 'to'. Partial months are truncated.
func WholeMonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return -WholeMonthsBetween(to, from)
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

// DaysBetween returns the number of whole days from 'from' to 'to',
// comparing calendar midnights.
func DaysBetween(from, to time.Time) int {
	return int(midnight(to).Sub(midnight(from)).Hours() / 24)
}

// AddMonths shifts a date by n calendar months, clamping the day to
// the target month's length so 31 Jan + 1 month lands on the last day
// of February instead of rolling into March.
func AddMonths(d time.Time, n int) time.Time {
	year, month, day := d.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, d.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

// EndOfMonth returns the last day of the given month at midnight.
func EndOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local).AddDate(0, 0, -1)
}

func midnight(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}
