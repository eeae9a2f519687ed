// Package finish ends a recurring task.
package finish

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Finish completes every future occurrence of ID. With From set the series
// stops before that day; otherwise it stops at the next open occurrence.
type Finish struct {
	Service *app.Service
	ID      string
	From    int64
	TC      timeutil.Context

	Out io.Writer
}

func (n *Finish) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not finish, no service")
	}
	var (
		t   *task.Task
		err error
	)
	if n.From != 0 {
		t, err = n.Service.CompleteAllFutureOccurrences(ctx, n.ID, n.From, n.TC.Loc())
	} else {
		t, err = n.Service.CompleteAllFutureFrom(ctx, n.ID, n.TC)
	}
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Location: n.TC.Loc(), Out: n.Out}
	w := pp.Writer()
	switch {
	case !t.IsRecurring():
		_, _ = color.New(color.FgGreen).Fprintf(w, "%q is done for good.\n", t.Title)
	case t.RecurrenceEndDate != nil:
		_, _ = fmt.Fprintf(w, "%q now ends on %s.\n", t.Title, timeutil.DateKey(*t.RecurrenceEndDate, n.TC.Loc()))
	}
	return nil
}
