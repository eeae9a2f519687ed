// Package key prints the legend for marks, badges and views.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dayplan/pkg/view"
)

// Key prints the legend used by list, watch and carryover.
type Key struct {
	Out io.Writer
}

var marks = [][2]string{
	{"[ ]", "open"},
	{"[*]", "pinned into today or tomorrow"},
	{"[x]", "completed"},
}

var badges = [][2]string{
	{"(recurring)", "one occurrence of a recurring task"},
	{"(pinned today)", "shown in Today regardless of its date"},
	{"(pinned tomorrow)", "shown in Tomorrow regardless of its date"},
	{"(yesterday)", "carried over from yesterday"},
}

var views = map[view.Name]string{
	view.Dashboard: "Today and Tomorrow",
	view.Today:     "due, scheduled or in range today, pinned today, or overdue and open",
	view.Tomorrow:  "dated tomorrow or pinned tomorrow",
	view.ThisWeek:  "dated between Sunday and Saturday of this week",
	view.NextWeek:  "dated in the following week",
	view.Overdue:   "open tasks dated before today",
	view.Someday:   "tasks without a date",
	view.Bank:      "every task definition",
}

func (k *Key) Do(ctx context.Context) error {
	w := k.Out
	if w == nil {
		w = color.Output
	}
	_, _ = fmt.Fprintln(w, "")
	k.Key(w, "  Marks", marks)
	_, _ = fmt.Fprintln(w, "")
	k.Key(w, "Badges", badges)
	_, _ = fmt.Fprintln(w, "")

	rows := make([][2]string, 0, len(views))
	for _, n := range view.AllNames() {
		rows = append(rows, [2]string{string(n), views[n]})
	}
	k.Key(w, " Views", rows)
	_, _ = fmt.Fprintln(w, "")
	return nil
}

// Key renders a two column table under title.
func (k *Key) Key(w io.Writer, title string, rows [][2]string) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(title), bold.Sprint("Meaning"))
	for _, r := range rows {
		tbl.AddRow(r[0], r[1])
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}
