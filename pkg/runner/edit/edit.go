// Package edit rewrites a stored task definition.
package edit

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Edit loads ID, lets Apply change it and stores the result.
type Edit struct {
	Service *app.Service
	ID      string
	TC      timeutil.Context
	Apply   func(t *task.Task) error

	Out io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}
	t, err := n.Service.Task(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.Apply != nil {
		if err := n.Apply(t); err != nil {
			return err
		}
	}
	if _, err := n.Service.UpdateTask(ctx, t); err != nil {
		return err
	}

	d, err := n.Service.GetTask(ctx, n.ID, n.TC)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Location: n.TC.Loc(), Out: n.Out}
	pp.NewLine()
	pp.Detail(d)
	return nil
}
