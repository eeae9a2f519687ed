package view

import (
	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/task"
)

// Entry is one row of a view: either a stored task (Concrete) or one
// occurrence of a recurring task (Virtual). Consumers switch on the type.
type Entry interface {
	isEntry()
}

// Concrete wraps a stored, non-expanded task definition.
type Concrete struct {
	Task *task.Task
}

// Virtual is a non-persisted projection of a recurring task onto one day.
type Virtual struct {
	Parent *task.Task
	// Date is the local midnight of the occurrence, in epoch milliseconds.
	Date  int64
	State instance.State
}

func (Concrete) isEntry() {}
func (Virtual) isEntry()  {}

// Key returns the instance key that mutations of v are routed to.
func (v Virtual) Key() instance.Key {
	return instance.Key{ParentID: v.Parent.ID, Date: v.Date}
}

// Definition returns the task definition behind e.
func Definition(e Entry) *task.Task {
	switch e := e.(type) {
	case Concrete:
		return e.Task
	case Virtual:
		return e.Parent
	}
	return nil
}

// TrackingID is the parent id for occurrences and the task id otherwise.
func TrackingID(e Entry) string {
	if t := Definition(e); t != nil {
		return t.ID
	}
	return ""
}

// When returns the entry's relevant moment in epoch milliseconds: the
// occurrence date for virtual entries, otherwise the deadline, scheduled time
// or range start. ok is false for undated entries.
func When(e Entry) (int64, bool) {
	switch e := e.(type) {
	case Virtual:
		return e.Date, true
	case Concrete:
		t := e.Task
		if t == nil {
			return 0, false
		}
		switch t.Type {
		case task.TypeDeadline:
			if t.DeadlineAt != nil {
				return *t.DeadlineAt, true
			}
		case task.TypeScheduled:
			if t.ScheduledAt != nil {
				return *t.ScheduledAt, true
			}
		case task.TypeDateRange:
			if t.RangeStartDate != nil {
				return *t.RangeStartDate, true
			}
		}
	}
	return 0, false
}

// Flags returns completion and pin state, from the overlay for virtual
// entries and from the task itself otherwise.
func Flags(e Entry) instance.State {
	switch e := e.(type) {
	case Virtual:
		return e.State
	case Concrete:
		if e.Task == nil {
			return instance.State{}
		}
		return instance.State{
			Completed:      e.Task.IsCompleted,
			PinnedToday:    e.Task.PinnedToday,
			PinnedTomorrow: e.Task.PinnedTomorrow,
		}
	}
	return instance.State{}
}

// IsCompleted reports whether e is done.
func IsCompleted(e Entry) bool { return Flags(e).Completed }

// IsPinnedToday reports whether e is pinned to today.
func IsPinnedToday(e Entry) bool { return Flags(e).PinnedToday }

// IsPinnedTomorrow reports whether e is pinned to tomorrow.
func IsPinnedTomorrow(e Entry) bool { return Flags(e).PinnedTomorrow }
