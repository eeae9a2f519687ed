package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day key format used for markers and flags.
const DateLayout = "2006-01-02"

// Context is a snapshot of "now" supplied by the caller. The five markers are
// epoch milliseconds computed from the caller's local calendar; Location is
// only used for calendar math and is never consulted for the current time.
type Context struct {
	Now           int64
	TodayStart    int64
	TomorrowStart int64
	WeekStart     int64
	NextWeekStart int64

	Location *time.Location
}

// For builds a Context from now, using now's location as the calendar.
// Weeks start on Sunday.
func For(now time.Time) Context {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	return Context{
		Now:           Millis(now),
		TodayStart:    Millis(today),
		TomorrowStart: Millis(today.AddDate(0, 0, 1)),
		WeekStart:     Millis(weekStart),
		NextWeekStart: Millis(weekStart.AddDate(0, 0, 7)),
		Location:      loc,
	}
}

// ForDay builds a Context for the start of the given calendar day. It is used
// to replay a past day, such as yesterday during carryover.
func ForDay(day time.Time) Context {
	loc := day.Location()
	return For(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc))
}

// Loc returns the calendar location, defaulting to time.Local.
func (c Context) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Today returns the TodayStart marker as a time in the calendar location.
func (c Context) Today() time.Time {
	return FromMillis(c.TodayStart, c.Loc())
}

// TodayKey returns today's calendar key, for example "2024-01-02".
func (c Context) TodayKey() string {
	return DateKey(c.TodayStart, c.Loc())
}

// Yesterday returns a Context for the calendar day before c.
func (c Context) Yesterday() Context {
	return ForDay(c.Today().AddDate(0, 0, -1))
}

// Validate checks that the markers are ordered and day aligned.
func (c Context) Validate() error {
	loc := c.Loc()
	switch {
	case DayStart(c.TodayStart, loc) != c.TodayStart:
		return fmt.Errorf("timeutil: today start %d is not a local midnight", c.TodayStart)
	case c.TomorrowStart != AddDays(c.TodayStart, 1, loc):
		return fmt.Errorf("timeutil: tomorrow start %d does not follow today", c.TomorrowStart)
	case c.WeekStart > c.TodayStart || c.NextWeekStart <= c.TodayStart:
		return fmt.Errorf("timeutil: week [%d, %d) does not contain today", c.WeekStart, c.NextWeekStart)
	}
	return nil
}

func (c Context) String() string {
	return fmt.Sprintf("%s (week of %s)", c.TodayKey(), DateKey(c.WeekStart, c.Loc()))
}
