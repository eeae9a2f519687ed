// Package remove deletes tasks.
package remove

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/dayplan/pkg/app"
)

// Delete removes IDs. Recurring tasks take their occurrence state with them.
type Delete struct {
	Service *app.Service
	IDs     []string
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	w := writer(n.Out)
	var errs []error
	for _, id := range n.IDs {
		t, err := n.Service.Task(ctx, id)
		if err == nil {
			err = n.Service.DeleteTask(ctx, id)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, _ = fmt.Fprintf(w, "deleted %s %q\n", t.ID, t.Title)
	}
	return errors.Join(errs...)
}

// Clean removes every completed one-off task.
type Clean struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Clean) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not clean, no service")
	}
	ids, err := n.Service.DeleteAllCompleted(ctx)
	if err != nil {
		return err
	}
	w := writer(n.Out)
	switch len(ids) {
	case 0:
		_, _ = color.New(color.Faint, color.Italic).Fprintln(w, "nothing to clean")
	case 1:
		_, _ = fmt.Fprintln(w, "deleted 1 completed task")
	default:
		_, _ = fmt.Fprintf(w, "deleted %d completed tasks\n", len(ids))
	}
	return nil
}

func writer(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}
