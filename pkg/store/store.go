package store

import (
	"context"
	"errors"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/task"
)

// ErrNotFound is returned when a task id does not exist.
var ErrNotFound = errors.New("store: task not found")

// Filter narrows ListTasks. Zero values match everything.
type Filter struct {
	FolderID string
	// TagIDs matches tasks carrying any of the tags.
	TagIDs []string
	// Search is a case-insensitive substring of the title or description.
	Search        string
	HideCompleted bool
}

// Persistence defines the persistence contract for task definitions and the
// per-occurrence overlay of recurring tasks.
type Persistence interface {
	instance.Store

	ListTasks(ctx context.Context, f Filter) ([]*task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	// SaveTask inserts or replaces the task and its tags.
	SaveTask(ctx context.Context, t *task.Task) error
	// DeleteTask removes the task, its tags and its instance rows together.
	DeleteTask(ctx context.Context, id string) error
	// DeleteCompleted removes every completed task and returns the ids.
	DeleteCompleted(ctx context.Context) ([]string, error)
	// InstanceStates returns the stored rows of parentIDs with from <= date <= to.
	InstanceStates(ctx context.Context, parentIDs []string, from, to int64) (instance.Snapshot, error)

	Close() error
}
