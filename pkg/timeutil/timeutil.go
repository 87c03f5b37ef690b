// Package timeutil provides calendar-day utilities for streak accounting.
// Check-in rules compare calendar days in the office timezone, not elapsed
// durations: 23:59 and 00:01 the next day are adjacent days.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DefaultTZ is the office timezone used when none is configured (UTC+5,
// no DST year-round).
var DefaultTZ = time.FixedZone("Asia/Almaty", 5*60*60)

// Now returns the current time in the default timezone.
func Now() time.Time {
	return time.Now().In(DefaultTZ)
}

// StartOfDay returns 00:00:00 of t's day in the given location.
// A nil location means DefaultTZ.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = DefaultTZ
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// IsNextDay reports whether b falls exactly on the calendar day after a.
// AddDate handles month and year boundaries correctly.
func IsNextDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).AddDate(0, 0, 1).Equal(StartOfDay(b, loc))
}

// IsYesterday reports whether t falls on the calendar day before ref.
func IsYesterday(t, ref time.Time, loc *time.Location) bool {
	return IsNextDay(t, ref, loc)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	start := StartOfDay(a, loc)
	end := StartOfDay(b, loc)
	return int(end.Sub(start).Hours() / 24)
}

// Common date/time formats.
const (
	DateFormat     = "2006-01-02"
	TimeFormat     = "15:04"
	DateTimeFormat = "2006-01-02 15:04:05"
)

// FormatDate formats a time as YYYY-MM-DD in the given location.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = DefaultTZ
	}
	return t.In(loc).Format(DateFormat)
}

// FormatDateTime formats a time as a datetime string in the given location.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = DefaultTZ
	}
	return t.In(loc).Format(DateTimeFormat)
}

// FormatRelative returns a human-readable relative time string.
func FormatRelative(t time.Time) string {
	d := time.Since(t)
	if d < 0 {
		return "только что"
	}
	switch {
	case d < time.Minute:
		return "только что"
	case d < time.Hour:
		return fmt.Sprintf("%d мин назад", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d ч назад", int(d.Hours()))
	default:
		return fmt.Sprintf("%d дн назад", int(d.Hours()/24))
	}
}
