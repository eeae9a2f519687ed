// Package add provides the runner logic for creating tasks.
package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// Add stores Task and prints the view it lands in.
type Add struct {
	Service *app.Service
	Task    *task.Task
	TC      timeutil.Context

	ShowID bool
	Output string
	Out    io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	created, err := n.Service.CreateTask(ctx, n.Task)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Location: n.TC.Loc(), Out: n.Out}
	if n.Output != "" {
		return printers.Encode(pp.Writer(), n.Output, created)
	}

	d, err := n.Service.GetTask(ctx, created.ID, n.TC)
	if err != nil {
		return err
	}
	name := landing(d.Views)
	entries, err := n.Service.ListTasks(ctx, name, n.TC, filterFor(created))
	if err != nil {
		return err
	}
	view.SortChronological(entries)
	pp.NewLine()
	pp.View(name, entries)
	return nil
}

// landing picks the first dated view a new task shows up in.
func landing(in []view.Name) view.Name {
	for _, want := range []view.Name{view.Overdue, view.Today, view.Tomorrow, view.ThisWeek, view.NextWeek, view.Someday} {
		for _, n := range in {
			if n == want {
				return n
			}
		}
	}
	return view.Bank
}

func filterFor(t *task.Task) store.Filter {
	if t.FolderID == nil {
		return store.Filter{}
	}
	return store.Filter{FolderID: *t.FolderID}
}
