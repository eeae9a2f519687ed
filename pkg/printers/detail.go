package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Detail prints a single task with its derived fields.
func (pp *PrettyPrint) Detail(d app.TaskDetail) {
	t := d.Task
	if t == nil {
		return
	}
	bold := color.New(color.Bold)
	loc := pp.loc()

	pp.Title(t.Title)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("id"), t.ID)
	tbl.AddRow(bold.Sprint("type"), string(t.Type))
	tbl.AddRow(bold.Sprint("when"), When(t, loc))
	if d.Recurrence != "" {
		tbl.AddRow(bold.Sprint("repeats"), d.Recurrence)
	}
	if d.Next != nil {
		tbl.AddRow(bold.Sprint("next"), timeutil.FromMillis(*d.Next, loc).Format("Mon Jan 2 2006"))
	}
	if d.Today != nil {
		tbl.AddRow(bold.Sprint("today"), flags(d.Today.Completed, d.Today.PinnedToday, d.Today.PinnedTomorrow))
	} else if !t.IsRecurring() {
		tbl.AddRow(bold.Sprint("state"), flags(t.IsCompleted, t.PinnedToday, t.PinnedTomorrow))
	}
	if len(t.TagIDs) > 0 {
		tbl.AddRow(bold.Sprint("tags"), strings.Join(t.TagIDs, ", "))
	}
	if t.FolderID != nil {
		tbl.AddRow(bold.Sprint("folder"), *t.FolderID)
	}
	views := make([]string, 0, len(d.Views))
	for _, v := range d.Views {
		views = append(views, string(v))
	}
	tbl.AddRow(bold.Sprint("views"), strings.Join(views, ", "))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.Writer(), tbl)

	if t.Description != "" {
		_, _ = fmt.Fprintln(pp.Writer(), "")
		_, _ = fmt.Fprintln(pp.Writer(), wordwrap.String(t.Description, pp.width()))
	}
	pp.NewLine()
}

func flags(completed, today, tomorrow bool) string {
	var out []string
	if completed {
		out = append(out, "completed")
	}
	if today {
		out = append(out, "pinned today")
	}
	if tomorrow {
		out = append(out, "pinned tomorrow")
	}
	if len(out) == 0 {
		return "open"
	}
	return strings.Join(out, ", ")
}

// Report prints completed entries grouped by day.
func (pp *PrettyPrint) Report(r app.ReportResult, label string) {
	since := r.Since.Format(timeutil.DateLayout)
	until := r.Until.Format(timeutil.DateLayout)
	pp.Title(fmt.Sprintf("Report · last %s (%s → %s)", label, since, until))

	if r.Total == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.Writer(), "  No completed tasks in this window.")
		pp.NewLine()
		return
	}
	for _, s := range r.Sections {
		day, err := timeutil.ParseDateKey(s.Day, pp.loc())
		heading := s.Day
		if err == nil {
			heading = day.Format("Monday, January 2")
		}
		pp.NewLine()
		pp.TitleWithCount(heading, len(s.Entries))
		pp.Entries(s.Entries...)
	}
}
