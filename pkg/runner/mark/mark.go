// Package mark sets completion and pin flags on a task or one occurrence.
package mark

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/recurrence"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// Mark writes Value into Field of ID. For recurring tasks the occurrence on
// On is changed instead; On defaults to today.
type Mark struct {
	Service *app.Service
	ID      string
	Field   instance.Field
	Value   bool
	On      int64
	TC      timeutil.Context

	ShowID bool
	Out    io.Writer
}

func (n *Mark) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not mark, no service")
	}
	t, err := n.Service.Task(ctx, n.ID)
	if err != nil {
		return err
	}

	if t.IsRecurring() {
		on := n.On
		if on == 0 {
			on = n.TC.TodayStart
		}
		key := instance.Key{ParentID: t.ID, Date: on}
		if !recurrence.OccursOnMillis(t, on, n.TC.Loc()) {
			// A carried-over occurrence pinned onto this day can still be marked.
			st, err := n.Service.InstanceState(ctx, key)
			if err != nil {
				return err
			}
			if !st.PinnedToday && !st.PinnedTomorrow {
				return fmt.Errorf("%q does not occur on %s", t.Title, timeutil.DateKey(on, n.TC.Loc()))
			}
		}
		if _, err := n.Service.SetInstanceFlag(ctx, key, n.Field, n.Value); err != nil {
			return err
		}
	} else if _, err := n.Service.SetFlag(ctx, t.ID, n.Field, n.Value); err != nil {
		return err
	}

	name := view.Today
	if n.Field == instance.FieldPinnedTomorrow {
		name = view.Tomorrow
	}
	entries, err := n.Service.ListTasks(ctx, name, n.TC, store.Filter{})
	if err != nil {
		return err
	}
	view.SortChronological(entries)
	pp := printers.PrettyPrint{ShowID: n.ShowID, Location: n.TC.Loc(), Out: n.Out}
	pp.NewLine()
	pp.View(name, entries)
	return nil
}
