package timeutil

import (
	"time"
)

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a time in loc.
func FromMillis(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc)
}

// DayStart returns the local midnight of the day containing ms.
func DayStart(ms int64, loc *time.Location) int64 {
	t := FromMillis(ms, loc)
	return Millis(Midnight(t))
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves ms by n calendar days and returns the local midnight of the
// resulting day. Days are calendar days, not 24h spans.
func AddDays(ms int64, n int, loc *time.Location) int64 {
	t := FromMillis(ms, loc)
	return Millis(time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location()))
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b int64, loc *time.Location) bool {
	return DayStart(a, loc) == DayStart(b, loc)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateKey formats the calendar day of ms, for example "2024-01-02".
func DateKey(ms int64, loc *time.Location) string {
	return FromMillis(ms, loc).Format(DateLayout)
}

// ParseDateKey parses a "2006-01-02" key as local midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, key, loc)
}
