// Package report prints what was completed recently.
package report

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// DefaultWindow is the report window used when none is provided.
const DefaultWindow = "7d"

type Report struct {
	Service *app.Service
	// Last is a window such as "3d" or "1d12h".
	Last string
	Now  time.Time

	Output string
	Out    io.Writer
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no service")
	}
	last := n.Last
	if last == "" {
		last = DefaultWindow
	}
	window, label, err := timeutil.ParseInterval(last)
	if err != nil {
		return err
	}
	until := n.Now
	if until.IsZero() {
		until = time.Now()
	}
	res, err := n.Service.Report(ctx, until.Add(-window), until)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Location: until.Location(), Out: n.Out}
	if n.Output != "" {
		type section struct {
			Day   string      `json:"day" yaml:"day"`
			Items []view.Item `json:"items" yaml:"items"`
		}
		out := make([]section, 0, len(res.Sections))
		for _, s := range res.Sections {
			out = append(out, section{Day: s.Day, Items: view.Items(s.Entries, until.Location())})
		}
		return printers.Encode(pp.Writer(), n.Output, out)
	}
	pp.NewLine()
	pp.Report(res, label)
	return nil
}
