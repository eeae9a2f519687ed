package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/dayplan/pkg/recurrence"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Occurrences prints months calendars starting at the month of from with
// the days a recurring task occurs on in bold.
func (pp *PrettyPrint) Occurrences(t *task.Task, from time.Time, months int) {
	then := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for i := 0; i < months; i++ {
		days := timeutil.DaysIn(then.Year(), then.Month())
		count := make([]int, days)
		last := then.AddDate(0, 0, days-1)
		for _, d := range recurrence.Between(t, then, last) {
			count[d.Day()-1]++
		}
		pp.PrintMonthCount(then, count)
		then = NextMonth(then)
	}
}

const width = len("11 12 13 14 15 16 17") // an example week

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	out := pp.Writer()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	if then.Year() != time.Now().Year() {
		m = fmt.Sprintf("%s %d", m, then.Year())
	}
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(out, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	days := timeutil.DaysIn(then.Year(), then.Month())

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(out, "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(out, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	_, _ = fmt.Fprint(out, "\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 0, 0, 0, 0, then.Location())
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 0, 0, 0, 0, then.Location()).Weekday()
}
