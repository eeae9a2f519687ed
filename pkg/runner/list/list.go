// Package list renders one view or the dashboard.
package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/carryover"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// List prints the entries of View as of TC.
type List struct {
	Service *app.Service
	View    view.Name
	Filter  store.Filter
	TC      timeutil.Context
	// Detector, when set, adds a hint under Today and the dashboard if
	// yesterday left items for the carryover dialog.
	Detector *carryover.Detector

	ShowID bool
	Output string
	Out    io.Writer
}

func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errors.New("can not list, no service")
	}
	pp := printers.PrettyPrint{ShowID: l.ShowID, Location: l.TC.Loc(), Out: l.Out}

	if l.View == view.Dashboard {
		b, err := l.Service.Dashboard(ctx, l.TC, l.Filter)
		if err != nil {
			return err
		}
		if l.Output != "" {
			return printers.Encode(pp.Writer(), l.Output, map[string][]view.Item{
				string(view.Today):    view.Items(b.Today, l.TC.Loc()),
				string(view.Tomorrow): view.Items(b.Tomorrow, l.TC.Loc()),
			})
		}
		pp.NewLine()
		pp.Board(b)
		return l.hint(ctx, &pp)
	}

	entries, err := l.Service.ListTasks(ctx, l.View, l.TC, l.Filter)
	if err != nil {
		return err
	}
	view.SortChronological(entries)
	if l.Output != "" {
		return printers.Encode(pp.Writer(), l.Output, view.Items(entries, l.TC.Loc()))
	}
	pp.NewLine()
	pp.View(l.View, entries)
	if l.View == view.Today {
		return l.hint(ctx, &pp)
	}
	return nil
}

// hint peeks so listing never consumes the day's carryover marker.
func (l *List) hint(ctx context.Context, pp *printers.PrettyPrint) error {
	if l.Detector == nil {
		return nil
	}
	items, err := l.Detector.Peek(ctx, timeutil.FromMillis(l.TC.Now, l.TC.Loc()))
	if err != nil {
		return err
	}
	pp.CarryoverHint(len(items))
	return nil
}
