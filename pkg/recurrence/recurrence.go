// Package recurrence decides which calendar days a recurring task occurs on.
//
// Every function takes days as local midnights; the location of the time
// value is the calendar used for weekday and month arithmetic. Nothing here
// reads the wall clock.
package recurrence

import (
	"sort"
	"time"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// DefaultHorizon bounds forward scans, in days.
const DefaultHorizon = 366 * 4

// OccursOn reports whether t has an occurrence on the calendar day of day.
// Non-recurring tasks and tasks without a pattern never occur.
func OccursOn(t *task.Task, day time.Time) bool {
	if !t.IsRecurring() || t.RecurrencePattern == task.PatternNone || t.RecurrenceStartDate == nil {
		return false
	}
	loc := day.Location()
	day = timeutil.Midnight(day)
	ms := timeutil.Millis(day)

	start := timeutil.DayStart(*t.RecurrenceStartDate, loc)
	if ms < start {
		return false
	}
	if t.RecurrenceEndDate != nil && ms > timeutil.DayStart(*t.RecurrenceEndDate, loc) {
		return false
	}

	switch t.RecurrencePattern {
	case task.PatternDaily:
		return true
	case task.PatternWeekly:
		return weekly(t, timeutil.FromMillis(start, loc), day)
	case task.PatternMonthly:
		if t.RecurrenceDayOfMonth == nil {
			return false
		}
		return day.Day() == clampDay(day.Year(), day.Month(), *t.RecurrenceDayOfMonth)
	case task.PatternYearly:
		if t.RecurrenceMonth == nil || t.RecurrenceDayOfYear == nil {
			return false
		}
		if int(day.Month())-1 != *t.RecurrenceMonth {
			return false
		}
		return day.Day() == clampDay(day.Year(), day.Month(), *t.RecurrenceDayOfYear)
	case task.PatternSpecificDates:
		for _, d := range t.RecurrenceSpecificDates {
			if timeutil.DayStart(d, loc) == ms {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// OccursOnMillis is OccursOn for an epoch-millisecond day start.
func OccursOnMillis(t *task.Task, dayStart int64, loc *time.Location) bool {
	return OccursOn(t, timeutil.FromMillis(dayStart, loc))
}

// NextOnOrAfter returns the first occurrence on or after day, scanning at most
// horizon days. A horizon <= 0 uses DefaultHorizon.
func NextOnOrAfter(t *task.Task, day time.Time, horizon int) (time.Time, bool) {
	if !t.IsRecurring() {
		return time.Time{}, false
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	day = timeutil.Midnight(day)

	if t.RecurrencePattern == task.PatternSpecificDates {
		// The set is ordered; pick the first in range without scanning days.
		for _, d := range sortedDays(t.RecurrenceSpecificDates, day.Location()) {
			candidate := timeutil.FromMillis(d, day.Location())
			if candidate.Before(day) {
				continue
			}
			if timeutil.DaysBetween(day, candidate) >= horizon {
				break
			}
			if OccursOn(t, candidate) {
				return candidate, true
			}
		}
		return time.Time{}, false
	}

	// Nothing can occur before the start date, so jump there.
	if t.RecurrenceStartDate != nil {
		start := timeutil.FromMillis(timeutil.DayStart(*t.RecurrenceStartDate, day.Location()), day.Location())
		if start.After(day) {
			horizon -= timeutil.DaysBetween(day, start)
			day = start
		}
	}
	for i := 0; i < horizon; i++ {
		candidate := time.Date(day.Year(), day.Month(), day.Day()+i, 0, 0, 0, 0, day.Location())
		if t.RecurrenceEndDate != nil && timeutil.Millis(candidate) > timeutil.DayStart(*t.RecurrenceEndDate, day.Location()) {
			break
		}
		if OccursOn(t, candidate) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// Between enumerates occurrences in the inclusive day range [from, to].
func Between(t *task.Task, from, to time.Time) []time.Time {
	from = timeutil.Midnight(from)
	to = timeutil.Midnight(to)
	var out []time.Time
	for d := from; !d.After(to); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, d.Location()) {
		if OccursOn(t, d) {
			out = append(out, d)
		}
	}
	return out
}

func weekly(t *task.Task, start, day time.Time) bool {
	wd := int(day.Weekday())
	match := false
	for _, d := range t.RecurrenceDaysOfWeek {
		if d == wd {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	interval := t.WeekInterval()
	if interval == 1 {
		return true
	}
	startWeek := start.AddDate(0, 0, -int(start.Weekday()))
	dayWeek := day.AddDate(0, 0, -int(day.Weekday()))
	weeks := timeutil.DaysBetween(startWeek, dayWeek) / 7
	return weeks%interval == 0
}

// clampDay maps a requested day of month onto the month, so the 31st becomes
// the 30th in April and the 29th in a leap February.
func clampDay(year int, month time.Month, want int) int {
	last := timeutil.DaysIn(year, month)
	if want > last {
		return last
	}
	if want < 1 {
		return 1
	}
	return want
}

func sortedDays(dates []int64, loc *time.Location) []int64 {
	out := make([]int64, 0, len(dates))
	for _, d := range dates {
		out = append(out, timeutil.DayStart(d, loc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
