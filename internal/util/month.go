package util

import "time"

// StartOfMonth returns the first instant of t's calendar month in t's location
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's calendar month in t's location
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// LastDayOfMonth returns the number of days in the given month
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths shifts t by n months (negative n goes back), keeping the time of
// day. The day is clamped to the target month's length, so Mar 31 minus one
// month is Feb 28/29 rather than Mar 3.
func AddMonths(t time.Time, n int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)

	day := t.Day()
	if lastDay := LastDayOfMonth(target.Year(), target.Month()); day > lastDay {
		day = lastDay
	}

	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's day in t's location
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
