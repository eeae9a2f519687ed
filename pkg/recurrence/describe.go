package recurrence

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Describe renders a short human summary of the rule, for example
// "every 2 weeks on Mon, Wed, Fri" or "monthly on day 31".
func Describe(t *task.Task, loc *time.Location) string {
	if !t.IsRecurring() {
		return ""
	}
	var b strings.Builder
	switch t.RecurrencePattern {
	case task.PatternDaily:
		b.WriteString("daily")
	case task.PatternWeekly:
		days := make([]string, 0, len(t.RecurrenceDaysOfWeek))
		for _, d := range t.RecurrenceDaysOfWeek {
			if d >= 0 && d <= 6 {
				days = append(days, time.Weekday(d).String()[:3])
			}
		}
		if n := t.WeekInterval(); n > 1 {
			fmt.Fprintf(&b, "every %d weeks", n)
		} else {
			b.WriteString("weekly")
		}
		if len(days) > 0 {
			fmt.Fprintf(&b, " on %s", strings.Join(days, ", "))
		}
	case task.PatternMonthly:
		if t.RecurrenceDayOfMonth != nil {
			fmt.Fprintf(&b, "monthly on day %d", *t.RecurrenceDayOfMonth)
		} else {
			b.WriteString("monthly")
		}
	case task.PatternYearly:
		if t.RecurrenceMonth != nil && t.RecurrenceDayOfYear != nil {
			fmt.Fprintf(&b, "yearly on %s %d", time.Month(*t.RecurrenceMonth+1), *t.RecurrenceDayOfYear)
		} else {
			b.WriteString("yearly")
		}
	case task.PatternSpecificDates:
		days := make([]string, 0, len(t.RecurrenceSpecificDates))
		for _, d := range sortedDays(t.RecurrenceSpecificDates, loc) {
			days = append(days, timeutil.DateKey(d, loc))
		}
		fmt.Fprintf(&b, "on %s", strings.Join(days, ", "))
	default:
		return "unknown rule"
	}
	if t.RecurrenceStartDate != nil {
		fmt.Fprintf(&b, " from %s", timeutil.DateKey(*t.RecurrenceStartDate, loc))
	}
	if t.RecurrenceEndDate != nil {
		fmt.Fprintf(&b, " until %s", timeutil.DateKey(*t.RecurrenceEndDate, loc))
	}
	return b.String()
}
