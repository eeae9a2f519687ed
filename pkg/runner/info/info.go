// Package info reports where dayplan keeps its data and what is in it.
package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

type Info struct {
	Config  store.Config
	Service *app.Service
	TC      timeutil.Context
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	w := n.Out
	if w == nil {
		w = color.Output
	}

	if override := os.Getenv("DAYPLAN_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(w, "DAYPLAN_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(w, "DAYPLAN_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("database:", n.Config.DatabasePath())
	tbl.AddRow("state:", n.Config.StatePath())
	tbl.AddRow("watch every:", n.Config.WatchEvery())
	tbl.AddRow("today:", n.TC.String())
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)

	if n.Service == nil {
		return errors.New("failed to open the task database")
	}

	_, _ = fmt.Fprintln(w, "")
	_, _ = color.New(color.Bold).Fprintln(w, "Tasks:")
	counts := uitable.New()
	counts.Separator = "  "
	for _, name := range view.AllNames() {
		if name == view.Dashboard {
			continue
		}
		entries, err := n.Service.ListTasks(ctx, name, n.TC, store.Filter{})
		if err != nil {
			return err
		}
		open := 0
		for _, e := range entries {
			if !view.IsCompleted(e) {
				open++
			}
		}
		counts.AddRow("  "+string(name), fmt.Sprintf("%d", len(entries)), fmt.Sprintf("(%d open)", open))
	}
	_, _ = fmt.Fprintln(w, counts)
	return nil
}
