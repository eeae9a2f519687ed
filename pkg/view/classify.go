package view

import (
	"time"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/recurrence"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Board is the dashboard: Today and Tomorrow as separate lists.
type Board struct {
	Today    []Entry
	Tomorrow []Entry
}

// Classify returns the entries of view name as of c. Recurring tasks are
// expanded over Window(name, c) and their occurrences carry the overlay from
// states; a nil states reads every occurrence as the zero State.
//
// Classify never fails. A task whose type and fields disagree is only listed
// in Bank. The dashboard is returned as Today followed by Tomorrow.
func Classify(tasks []*task.Task, name Name, c timeutil.Context, states instance.Lookup) []Entry {
	switch name {
	case Dashboard:
		b := ClassifyDashboard(tasks, c, states)
		return append(b.Today, b.Tomorrow...)
	case Bank:
		out := make([]Entry, 0, len(tasks))
		for _, t := range tasks {
			if t != nil {
				out = append(out, Concrete{Task: t})
			}
		}
		return out
	}

	var out []Entry
	days := Window(name, c)
	for _, t := range tasks {
		if !t.Consistent() {
			continue
		}
		if t.IsRecurring() {
			for _, day := range days {
				v := Virtual{Parent: t, Date: day}
				if states != nil {
					v.State = states.State(t.ID, day)
				}
				if !recurrence.OccursOnMillis(t, day, c.Loc()) && !pinnedOffDay(v, name, c) {
					continue
				}
				if In(v, name, c) {
					out = append(out, v)
				}
			}
			continue
		}
		if e := (Concrete{Task: t}); In(e, name, c) {
			out = append(out, e)
		}
	}
	return out
}

// pinnedOffDay reports whether v is an overlay row pinned onto a day the rule
// does not produce, such as a carried-over occurrence moved to today.
func pinnedOffDay(v Virtual, name Name, c timeutil.Context) bool {
	switch name {
	case Today:
		return v.Date == c.TodayStart && v.State.PinnedToday
	case Tomorrow:
		return v.Date == c.TomorrowStart && v.State.PinnedTomorrow
	}
	return false
}

// ClassifyDashboard returns the Today and Tomorrow views together.
func ClassifyDashboard(tasks []*task.Task, c timeutil.Context, states instance.Lookup) Board {
	return Board{
		Today:    Classify(tasks, Today, c, states),
		Tomorrow: Classify(tasks, Tomorrow, c, states),
	}
}

// Window returns the local midnights a recurring task is expanded over for
// view name. Someday and Bank have no window.
func Window(name Name, c timeutil.Context) []int64 {
	loc := c.Loc()
	switch name {
	case Today:
		return []int64{c.TodayStart}
	case Tomorrow:
		return []int64{c.TomorrowStart}
	case Overdue:
		return []int64{timeutil.AddDays(c.TodayStart, -1, loc)}
	case ThisWeek:
		return week(c.WeekStart, loc)
	case NextWeek:
		return week(c.NextWeekStart, loc)
	case Dashboard:
		return []int64{c.TodayStart, c.TomorrowStart}
	}
	return nil
}

func week(start int64, loc *time.Location) []int64 {
	days := make([]int64, 7)
	for i := range days {
		days[i] = timeutil.AddDays(start, i, loc)
	}
	return days
}

// Membership returns the single-list views e belongs to as of c, in
// AllNames order. Every entry is in Bank.
func Membership(e Entry, c timeutil.Context) []Name {
	var names []Name
	for _, n := range AllNames() {
		if n == Dashboard {
			continue
		}
		if In(e, n, c) {
			names = append(names, n)
		}
	}
	return names
}

// In reports whether e belongs to the single-list view name as of c. For the
// dashboard it reports membership in Today or Tomorrow.
func In(e Entry, name Name, c timeutil.Context) bool {
	t := Definition(e)
	if t == nil {
		return false
	}
	if name == Bank {
		return true
	}
	if name == Dashboard {
		return In(e, Today, c) || In(e, Tomorrow, c)
	}
	if !t.Consistent() {
		return false
	}
	switch e := e.(type) {
	case Virtual:
		return virtualIn(e, name, c)
	case Concrete:
		return concreteIn(e.Task, name, c)
	}
	return false
}

func virtualIn(v Virtual, name Name, c timeutil.Context) bool {
	st := v.State
	loc := c.Loc()
	switch name {
	case Today:
		return v.Date == c.TodayStart && (st.PinnedToday || !st.Completed)
	case Tomorrow:
		return v.Date == c.TomorrowStart && (st.PinnedTomorrow || !st.Completed)
	case Overdue:
		return v.Date < c.TodayStart && !st.Completed && !st.PinnedToday
	case ThisWeek:
		return within(v.Date, c.WeekStart, timeutil.AddDays(c.WeekStart, 7, loc))
	case NextWeek:
		return within(v.Date, c.NextWeekStart, timeutil.AddDays(c.NextWeekStart, 7, loc))
	}
	return false
}

// span is the calendar-day extent of a dated task: [first, last] as local
// midnights.
type span struct {
	first, last int64
	// at is the exact stored moment for deadline and scheduled tasks.
	at int64
}

// spanOf returns false for undated tasks.
func spanOf(t *task.Task, loc *time.Location) (span, bool) {
	switch t.Type {
	case task.TypeDeadline:
		d := timeutil.DayStart(*t.DeadlineAt, loc)
		return span{first: d, last: d, at: *t.DeadlineAt}, true
	case task.TypeScheduled:
		d := timeutil.DayStart(*t.ScheduledAt, loc)
		return span{first: d, last: d, at: *t.ScheduledAt}, true
	case task.TypeDateRange:
		return span{
			first: timeutil.DayStart(*t.RangeStartDate, loc),
			last:  timeutil.DayStart(*t.RangeEndDate, loc),
			at:    *t.RangeStartDate,
		}, true
	}
	return span{}, false
}

func (s span) covers(day int64) bool {
	return s.first <= day && day <= s.last
}

func concreteIn(t *task.Task, name Name, c timeutil.Context) bool {
	loc := c.Loc()
	s, dated := spanOf(t, loc)

	switch name {
	case Today:
		if t.PinnedToday {
			return true
		}
		return !t.IsCompleted && dated && s.covers(c.TodayStart)
	case Tomorrow:
		if t.PinnedTomorrow {
			return true
		}
		if t.IsCompleted || !dated {
			return false
		}
		if s.covers(c.TomorrowStart) {
			return true
		}
		// Due-tomorrow warnings surface on the day before the stored date.
		return timeutil.AddDays(s.first, -1, loc) <= c.TodayStart &&
			c.TodayStart <= timeutil.AddDays(s.last, -1, loc)
	case Overdue:
		if t.IsCompleted || t.PinnedToday || !dated {
			return false
		}
		if t.Type == task.TypeDateRange {
			return s.last < c.TodayStart
		}
		return s.at < c.TodayStart
	case ThisWeek:
		return dated && intersects(s, c.WeekStart, timeutil.AddDays(c.WeekStart, 7, loc))
	case NextWeek:
		return dated && intersects(s, c.NextWeekStart, timeutil.AddDays(c.NextWeekStart, 7, loc))
	case Someday:
		return t.Type == task.TypeNone
	}
	return false
}

func within(day, from, to int64) bool {
	return from <= day && day < to
}

// intersects reports whether s overlaps the half-open window [from, to).
func intersects(s span, from, to int64) bool {
	return s.first < to && s.last >= from
}
