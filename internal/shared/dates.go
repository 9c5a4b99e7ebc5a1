package shared

import (
	"math"
	"time"
)

// dayLayout is the calendar-day key format shared by entries and work items.
const dayLayout = "2006-01-02"

// DayKey formats a timestamp as its calendar day ("2006-01-02") in UTC.
//
// Both sides of the reconciliation derive day keys through this function so
// that an entry and a work item booked on the same day always produce the
// exact same string.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// StartOfDay truncates a timestamp to midnight UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekRange returns the [start, end) window covering the week that begins on
// the selected day. End is exclusive and lies exactly seven days after the
// start so that the final day is fully included regardless of how the remote
// API treats its end_date parameter.
func WeekRange(selected time.Time) (start, end time.Time) {
	start = StartOfDay(selected)
	end = start.AddDate(0, 0, 7)
	return start, end
}

// InWindow reports whether t falls inside the [start, end) window.
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// RoundMinutes converts a second count to whole minutes, rounding half away
// from zero.
func RoundMinutes(seconds int64) int {
	return int(math.Round(float64(seconds) / 60))
}

// RoundToNearest5 snaps a minute count to the nearest 5-minute tick, rounding
// half away from zero. Mirrors the booking granularity of the issue tracker.
func RoundToNearest5(minutes float64) int {
	return int(math.Round(minutes/5)) * 5
}

// RoundSecondsTo5Minutes converts a second count straight to the 5-minute
// grid used for all duration comparisons.
func RoundSecondsTo5Minutes(seconds int64) int {
	return RoundToNearest5(float64(seconds) / 60)
}

// FormatDay renders a timestamp as a human-readable day for notifications,
// e.g. "Mon, 01 Jan 2024".
func FormatDay(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006")
}
