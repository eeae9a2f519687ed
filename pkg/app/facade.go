package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// Facade routes entry-level actions: occurrences of recurring tasks go to the
// instance overlay keyed by parent and date, everything else to the task.
// The Set forms are idempotent, so a repeated action converges.
type Facade struct {
	Service *Service
	// Location is the calendar used when rescheduling date ranges.
	Location *time.Location
}

// Set writes v into field f of e.
func (f Facade) Set(ctx context.Context, e view.Entry, field instance.Field, v bool) error {
	switch e := e.(type) {
	case view.Virtual:
		_, err := f.Service.SetInstanceFlag(ctx, e.Key(), field, v)
		return err
	case view.Concrete:
		_, err := f.Service.SetFlag(ctx, e.Task.ID, field, v)
		return err
	}
	return fmt.Errorf("app: unsupported entry %T", e)
}

// Toggle flips field f of e.
func (f Facade) Toggle(ctx context.Context, e view.Entry, field instance.Field) error {
	switch e := e.(type) {
	case view.Virtual:
		_, err := f.Service.toggleInstance(ctx, e.Key(), field)
		return err
	case view.Concrete:
		_, err := f.Service.updateFlag(ctx, e.Task.ID, field, func(cur bool) bool { return !cur })
		return err
	}
	return fmt.Errorf("app: unsupported entry %T", e)
}

func (f Facade) Complete(ctx context.Context, e view.Entry) error {
	return f.Set(ctx, e, instance.FieldCompleted, true)
}

// PinToday pins e onto the day of today. An occurrence from an earlier day is
// pinned on today's key, and its own row is pinned too so it leaves Overdue.
func (f Facade) PinToday(ctx context.Context, e view.Entry, today timeutil.Context) error {
	v, ok := e.(view.Virtual)
	if !ok || v.Date == today.TodayStart {
		return f.Set(ctx, e, instance.FieldPinnedToday, true)
	}
	if _, err := f.Service.SetInstanceFlag(ctx, instance.Key{ParentID: v.Parent.ID, Date: today.TodayStart}, instance.FieldPinnedToday, true); err != nil {
		return err
	}
	if v.Date < today.TodayStart {
		_, err := f.Service.SetInstanceFlag(ctx, v.Key(), instance.FieldPinnedToday, true)
		return err
	}
	return nil
}

// PinTomorrow pins e onto the day after today. Occurrences are moved to the
// key of tomorrow.
func (f Facade) PinTomorrow(ctx context.Context, e view.Entry, today timeutil.Context) error {
	v, ok := e.(view.Virtual)
	if !ok {
		return f.Set(ctx, e, instance.FieldPinnedTomorrow, true)
	}
	_, err := f.Service.SetInstanceFlag(ctx, instance.Key{ParentID: v.Parent.ID, Date: today.TomorrowStart}, instance.FieldPinnedTomorrow, true)
	return err
}

// Delete removes the task behind e. For an occurrence this deletes the whole
// series together with its overlay rows.
func (f Facade) Delete(ctx context.Context, e view.Entry) error {
	id := view.TrackingID(e)
	if id == "" {
		return errors.New("app: entry has no task")
	}
	return f.Service.DeleteTask(ctx, id)
}

// Reschedule moves e to the moment to. Occurrences cannot be moved on their
// own.
func (f Facade) Reschedule(ctx context.Context, e view.Entry, to int64) error {
	switch e := e.(type) {
	case view.Virtual:
		return fmt.Errorf("%w: %s: occurrences cannot be rescheduled", ErrRecurring, e.Parent.ID)
	case view.Concrete:
		_, err := f.Service.Reschedule(ctx, e.Task.ID, to, f.Location)
		return err
	}
	return fmt.Errorf("app: unsupported entry %T", e)
}
