package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

type PrettyPrint struct {
	ShowID bool
	// Badge is printed after every entry, for example "yesterday" in the
	// carryover dialog.
	Badge string
	// Width wraps titles. Zero means 80.
	Width int
	// Location renders dates. Nil means time.Local.
	Location *time.Location
	Out      io.Writer
}

var (
	spacing = strings.Repeat(" ", len("c7a1b9e0-0000-0000  "))
)

// Writer is where output goes, color.Output unless Out is set.
func (pp *PrettyPrint) Writer() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) loc() *time.Location {
	if pp.Location != nil {
		return pp.Location
	}
	return time.Local
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Writer(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.Writer(), spacing)
	}
	_, _ = t.Fprintln(pp.Writer(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.Writer(), spacing)
	}
	_, _ = t.Fprint(pp.Writer(), title)
	_, _ = c.Fprintf(pp.Writer(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Writer(), " task")
	default:
		_, _ = c.Fprintln(pp.Writer(), " tasks")
	}
}

// Entries prints one row per entry.
func (pp *PrettyPrint) Entries(entries ...view.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = fmt.Fprint(pp.Writer(), spacing)
		}
		_, _ = f.Fprint(pp.Writer(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = " "
	for _, e := range entries {
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(view.TrackingID(e)))
		}
		row = append(row, pp.mark(e), pp.title(e), pp.when(e), pp.badges(e))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
	_, _ = fmt.Fprintln(pp.Writer(), "")
}

// View prints a titled view.
func (pp *PrettyPrint) View(name view.Name, entries []view.Entry) {
	pp.TitleWithCount(name.Title(), len(entries))
	pp.Entries(entries...)
}

// Board prints the dashboard as two sections.
func (pp *PrettyPrint) Board(b view.Board) {
	pp.View(view.Today, b.Today)
	pp.View(view.Tomorrow, b.Tomorrow)
}

// CarryoverHint points at the carryover dialog when n items from yesterday
// are waiting. Nothing is printed for zero.
func (pp *PrettyPrint) CarryoverHint(n int) {
	if n <= 0 {
		return
	}
	noun := "tasks"
	if n == 1 {
		noun = "task"
	}
	_, _ = color.New(color.FgYellow).Fprintf(pp.Writer(), "%d %s carried over from yesterday, run `dayplan carryover`.\n", n, noun)
}

func (pp *PrettyPrint) mark(e view.Entry) string {
	st := view.Flags(e)
	switch {
	case st.Completed:
		return color.New(color.FgGreen).Sprint("[x]")
	case st.PinnedToday || st.PinnedTomorrow:
		return color.New(color.FgCyan).Sprint("[*]")
	}
	return "[ ]"
}

func (pp *PrettyPrint) title(e view.Entry) string {
	t := view.Definition(e)
	if t == nil {
		return ""
	}
	title := wordwrap.String(t.Title, pp.width()/2)
	if view.IsCompleted(e) {
		return color.New(color.Faint, color.CrossedOut).Sprint(title)
	}
	return title
}

func (pp *PrettyPrint) when(e view.Entry) string {
	t := view.Definition(e)
	if t == nil {
		return ""
	}
	f := color.New(color.Faint)
	loc := pp.loc()
	switch e := e.(type) {
	case view.Virtual:
		return f.Sprint(timeutil.FromMillis(e.Date, loc).Format("Mon Jan 2"))
	case view.Concrete:
		return f.Sprint(When(e.Task, loc))
	}
	return ""
}

func (pp *PrettyPrint) badges(e view.Entry) string {
	var b []string
	if _, ok := e.(view.Virtual); ok {
		b = append(b, "recurring")
	}
	st := view.Flags(e)
	if st.PinnedToday {
		b = append(b, "pinned today")
	}
	if st.PinnedTomorrow {
		b = append(b, "pinned tomorrow")
	}
	if pp.Badge != "" {
		b = append(b, color.New(color.FgHiRed).Sprint(pp.Badge))
	}
	if len(b) == 0 {
		return ""
	}
	return color.New(color.Italic).Sprint("(" + strings.Join(b, ", ") + ")")
}

// When describes the date fields of a stored task.
func When(t *task.Task, loc *time.Location) string {
	const (
		day    = "Mon Jan 2"
		moment = "Mon Jan 2 15:04"
	)
	at := func(ms int64, layout string) string {
		tm := timeutil.FromMillis(ms, loc)
		if layout == moment && tm.Hour() == 0 && tm.Minute() == 0 {
			layout = day
		}
		return tm.Format(layout)
	}
	switch t.Type {
	case task.TypeDeadline:
		if t.DeadlineAt != nil {
			return "due " + at(*t.DeadlineAt, moment)
		}
	case task.TypeScheduled:
		if t.ScheduledAt != nil {
			return "at " + at(*t.ScheduledAt, moment)
		}
	case task.TypeDateRange:
		if t.RangeStartDate != nil && t.RangeEndDate != nil {
			return at(*t.RangeStartDate, day) + " - " + at(*t.RangeEndDate, day)
		}
	case task.TypeRecurring:
		return "recurring"
	}
	return "someday"
}
