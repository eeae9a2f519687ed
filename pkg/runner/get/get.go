// Package get prints one task in detail.
package get

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/timeutil"
)

type Get struct {
	Service *app.Service
	ID      string
	TC      timeutil.Context
	// Months of occurrence calendar shown for recurring tasks.
	Months int

	Output string
	Out    io.Writer
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	d, err := n.Service.GetTask(ctx, n.ID, n.TC)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Location: n.TC.Loc(), Out: n.Out}
	if n.Output != "" {
		return printers.Encode(pp.Writer(), n.Output, d)
	}

	pp.NewLine()
	pp.Detail(d)
	if d.Task.IsRecurring() && n.Months > 0 {
		pp.Occurrences(d.Task, n.TC.Today(), n.Months)
	}
	return nil
}
