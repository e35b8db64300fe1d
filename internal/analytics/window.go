package analytics

import (
	"time"

	"github.com/fintrack/fintrack-backend/internal/util"
)

// Window is an inclusive time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in the window. A nil window contains every
// instant.
func (w *Window) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthBounds returns the calendar month containing t, from its first instant
// to its last.
func MonthBounds(t time.Time) Window {
	return Window{Start: util.StartOfMonth(t), End: util.EndOfMonth(t)}
}

// TrailingMonths returns the n calendar months ending with the month of now,
// ordered oldest first.
func TrailingMonths(now time.Time, n int) []Window {
	if n <= 0 {
		return nil
	}
	current := util.StartOfMonth(now)
	windows := make([]Window, 0, n)
	for i := n - 1; i >= 0; i-- {
		windows = append(windows, MonthBounds(current.AddDate(0, -i, 0)))
	}
	return windows
}

// PeriodWindows splits the 2×months before now into the current period
// [now−months, now] and the previous one [now−2×months, now−months].
func PeriodWindows(now time.Time, months int) (current, previous Window) {
	currentStart := util.AddMonths(now, -months)
	current = Window{Start: currentStart, End: now}
	previous = Window{Start: util.AddMonths(currentStart, -months), End: currentStart}
	return current, previous
}
