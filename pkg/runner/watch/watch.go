// Package watch keeps the dashboard on screen and redraws it when tasks
// change, on a fixed interval and at local midnight.
package watch

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/carryover"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/timeutil"
)

type Watch struct {
	Service  *app.Service
	Detector *carryover.Detector
	DBPath   string
	Every    time.Duration
	Location *time.Location
	Filter   store.Filter

	// Clock defaults to time.Now.
	Clock  func() time.Time
	ShowID bool
	Out    io.Writer
}

type trigger string

const (
	triggerStart    trigger = "start"
	triggerChange   trigger = "change"
	triggerInterval trigger = "interval"
	triggerMidnight trigger = "midnight"
)

func (w *Watch) Do(ctx context.Context) error {
	if w.Service == nil {
		return errors.New("can not watch, no service")
	}
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}

	events, err := store.Watch(ctx, w.DBPath)
	if err != nil {
		return err
	}

	triggers := make(chan trigger, 1)
	send := func(t trigger) func() {
		return func() {
			select {
			case triggers <- t:
			default:
			}
		}
	}
	s := newScheduler(loc)
	if _, err := s.daily(0, 0, send(triggerMidnight)); err != nil {
		return err
	}
	if w.Every > 0 {
		if _, err := s.every(w.Every, send(triggerInterval)); err != nil {
			return err
		}
	}
	s.start()
	defer s.stop()

	log.Printf("[info] watching %s, refresh every %s", w.DBPath, timeutil.FormatInterval(w.Every))
	if err := w.render(ctx, triggerStart, loc); err != nil {
		return err
	}
	for {
		var t trigger
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return errors.New("watch: storage watcher stopped")
			}
			if ev.Type == store.EventInvalidated {
				log.Printf("[info] storage invalidated: %s", ev.Path)
			}
			t = triggerChange
		case t = <-triggers:
		}
		if err := w.render(ctx, t, loc); err != nil {
			log.Printf("[warn] refresh after %s failed: %v", t, err)
		}
	}
}

func (w *Watch) now(loc *time.Location) time.Time {
	if w.Clock != nil {
		return w.Clock().In(loc)
	}
	return time.Now().In(loc)
}

func (w *Watch) render(ctx context.Context, t trigger, loc *time.Location) error {
	now := w.now(loc)
	tc := timeutil.For(now)
	b, err := w.Service.Dashboard(ctx, tc, w.Filter)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: w.ShowID, Location: loc, Out: w.Out}
	out := pp.Writer()
	_, _ = color.New(color.Faint).Fprintf(out, "\n── %s · %s ──\n\n", now.Format("Mon Jan 2 15:04"), t)
	pp.Board(b)

	if w.Detector == nil || (t != triggerMidnight && t != triggerStart) {
		return nil
	}
	items, err := w.Detector.Peek(ctx, now)
	if err != nil {
		return err
	}
	pp.CarryoverHint(len(items))
	return nil
}
