package util

import (
	"fmt"
	"time"
)

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthKey returns a stable "YYYY-MM" key for grouping by calendar month
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// SameMonth reports whether two times fall in the same calendar month
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfMonth returns midnight on the first day of t's month
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfDay returns midnight on t's day
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole days from a to b, negative when b is before a
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int) time.Time {
	lastDay := DaysInMonth(year, month)

	actualDay := targetDay
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}
