// Package instance holds the per-occurrence overlay of recurring tasks.
//
// A State row is keyed by the parent task id and the local midnight of the
// occurrence. Rows exist only after a mutation; a missing row reads as the
// zero State.
package instance

import (
	"context"
	"fmt"
	"strings"
)

// Key identifies one occurrence of a recurring task.
type Key struct {
	ParentID string `json:"parentTaskId"`
	Date     int64  `json:"instanceDate"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.ParentID, k.Date)
}

// State is the overlay for one occurrence.
type State struct {
	Completed      bool `json:"completed" yaml:"completed"`
	PinnedToday    bool `json:"pinnedToday" yaml:"pinnedToday"`
	PinnedTomorrow bool `json:"pinnedTomorrow" yaml:"pinnedTomorrow"`
}

// Field names one boolean of a State.
type Field string

const (
	FieldCompleted      Field = "completed"
	FieldPinnedToday    Field = "pinned_today"
	FieldPinnedTomorrow Field = "pinned_tomorrow"
)

// ParseField converts a string to a Field.
func ParseField(raw string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(raw))); f {
	case FieldCompleted, FieldPinnedToday, FieldPinnedTomorrow:
		return f, nil
	case "complete", "done":
		return FieldCompleted, nil
	case "today":
		return FieldPinnedToday, nil
	case "tomorrow":
		return FieldPinnedTomorrow, nil
	}
	return "", fmt.Errorf("instance: unknown field %q", raw)
}

// Get returns the value of f.
func (s State) Get(f Field) bool {
	switch f {
	case FieldCompleted:
		return s.Completed
	case FieldPinnedToday:
		return s.PinnedToday
	case FieldPinnedTomorrow:
		return s.PinnedTomorrow
	}
	return false
}

// With returns a copy of s with f set to v. Other fields are untouched.
func (s State) With(f Field, v bool) State {
	switch f {
	case FieldCompleted:
		s.Completed = v
	case FieldPinnedToday:
		s.PinnedToday = v
	case FieldPinnedTomorrow:
		s.PinnedTomorrow = v
	}
	return s
}

// IsZero reports whether every field is false.
func (s State) IsZero() bool {
	return s == State{}
}

// Lookup resolves the overlay of an occurrence without touching storage.
type Lookup interface {
	State(parentID string, date int64) State
}

// Snapshot is an in-memory Lookup, typically prefetched for a view window.
type Snapshot map[Key]State

// State implements Lookup. Missing keys read as the zero State.
func (s Snapshot) State(parentID string, date int64) State {
	if s == nil {
		return State{}
	}
	return s[Key{ParentID: parentID, Date: date}]
}

// Store persists instance rows. Upsert must be atomic per key.
type Store interface {
	InstanceState(ctx context.Context, key Key) (State, bool, error)
	UpsertInstanceState(ctx context.Context, key Key, state State) error
	DeleteInstanceStates(ctx context.Context, parentID string) error
}
