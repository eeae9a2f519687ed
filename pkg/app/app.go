package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// Service provides the query and mutation entry points shared by the CLI and
// the MCP server. It wraps persistence so both surfaces classify and mutate
// tasks the same way.
type Service struct {
	Persistence store.Persistence

	// Clock stamps CreatedAt and UpdatedAt. Defaults to time.Now.
	Clock func() time.Time
	// NewID assigns ids to new tasks. Defaults to random UUIDs.
	NewID func() string
}

var (
	ErrNotFound     = errors.New("app: task not found")
	ErrRecurring    = errors.New("app: task is recurring")
	ErrNotRecurring = errors.New("app: task is not recurring")
	ErrNoOccurrence = errors.New("app: no upcoming occurrence")

	errNoPersistence = errors.New("app: no persistence configured")
)

func (s *Service) now() int64 {
	if s.Clock != nil {
		return timeutil.Millis(s.Clock())
	}
	return timeutil.Millis(time.Now())
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) ready() error {
	if s == nil || s.Persistence == nil {
		return errNoPersistence
	}
	return nil
}

// ListTasks returns the entries of view name as of tc, narrowed by f.
func (s *Service) ListTasks(ctx context.Context, name view.Name, tc timeutil.Context, f store.Filter) ([]view.Entry, error) {
	tasks, states, err := s.load(ctx, name, tc, f)
	if err != nil {
		return nil, err
	}
	return view.Classify(tasks, name, tc, states), nil
}

// Dashboard returns Today and Tomorrow as two lists.
func (s *Service) Dashboard(ctx context.Context, tc timeutil.Context, f store.Filter) (view.Board, error) {
	tasks, states, err := s.load(ctx, view.Dashboard, tc, f)
	if err != nil {
		return view.Board{}, err
	}
	return view.ClassifyDashboard(tasks, tc, states), nil
}

func (s *Service) load(ctx context.Context, name view.Name, tc timeutil.Context, f store.Filter) ([]*task.Task, instance.Snapshot, error) {
	if err := s.ready(); err != nil {
		return nil, nil, err
	}
	if err := tc.Validate(); err != nil {
		return nil, nil, fmt.Errorf("app: %w", err)
	}
	tasks, err := s.Persistence.ListTasks(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("app: list tasks: %w", err)
	}
	states, err := s.statesFor(ctx, tasks, view.Window(name, tc))
	if err != nil {
		return nil, nil, err
	}
	return tasks, states, nil
}

// statesFor prefetches the overlay of every recurring task over days.
func (s *Service) statesFor(ctx context.Context, tasks []*task.Task, days []int64) (instance.Snapshot, error) {
	if len(days) == 0 {
		return nil, nil
	}
	var ids []string
	for _, t := range tasks {
		if t.IsRecurring() {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	from, to := days[0], days[len(days)-1]
	states, err := s.Persistence.InstanceStates(ctx, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("app: load instance states: %w", err)
	}
	return states, nil
}

// AllTasks returns every stored definition.
func (s *Service) AllTasks(ctx context.Context) ([]*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tasks, err := s.Persistence.ListTasks(ctx, store.Filter{})
	if err != nil {
		return nil, fmt.Errorf("app: list tasks: %w", err)
	}
	return tasks, nil
}

// InstanceStates returns the overlay rows of parentIDs between from and to.
func (s *Service) InstanceStates(ctx context.Context, parentIDs []string, from, to int64) (instance.Snapshot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.InstanceStates(ctx, parentIDs, from, to)
}

// Task returns the stored definition with id.
func (s *Service) Task(ctx context.Context, id string) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.Persistence.GetTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("app: get task: %w", err)
	}
	return t, nil
}

// CreateTask validates and stores a new task. The caller's value is not
// modified; the stored copy is returned.
func (s *Service) CreateTask(ctx context.Context, in *task.Task) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errors.New("app: task required")
	}
	t := in.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.Persistence.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("app: create task: %w", err)
	}
	return t, nil
}

// UpdateTask replaces the stored definition with in. CreatedAt is preserved.
func (s *Service) UpdateTask(ctx context.Context, in *task.Task) (*task.Task, error) {
	if in == nil || in.ID == "" {
		return nil, errors.New("app: task id required")
	}
	cur, err := s.Task(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	t := in.Clone()
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = s.now()
	if err := s.Persistence.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("app: update task: %w", err)
	}
	return t, nil
}

// DeleteTask removes the task and all of its instance rows.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	err := s.Persistence.DeleteTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("app: delete task: %w", err)
	}
	return nil
}

// DeleteAllCompleted removes every completed task and returns their ids.
func (s *Service) DeleteAllCompleted(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ids, err := s.Persistence.DeleteCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: delete completed: %w", err)
	}
	return ids, nil
}

// ToggleComplete flips completion of a non-recurring task.
func (s *Service) ToggleComplete(ctx context.Context, id string) (*task.Task, error) {
	return s.updateFlag(ctx, id, instance.FieldCompleted, func(cur bool) bool { return !cur })
}

// TogglePinToday flips the today pin of a non-recurring task.
func (s *Service) TogglePinToday(ctx context.Context, id string) (*task.Task, error) {
	return s.updateFlag(ctx, id, instance.FieldPinnedToday, func(cur bool) bool { return !cur })
}

// TogglePinTomorrow flips the tomorrow pin of a non-recurring task.
func (s *Service) TogglePinTomorrow(ctx context.Context, id string) (*task.Task, error) {
	return s.updateFlag(ctx, id, instance.FieldPinnedTomorrow, func(cur bool) bool { return !cur })
}

// SetFlag writes v into field f of a non-recurring task. Repeating the call
// converges on the same state.
func (s *Service) SetFlag(ctx context.Context, id string, f instance.Field, v bool) (*task.Task, error) {
	return s.updateFlag(ctx, id, f, func(bool) bool { return v })
}

func (s *Service) updateFlag(ctx context.Context, id string, f instance.Field, next func(cur bool) bool) (*task.Task, error) {
	t, err := s.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsRecurring() {
		return nil, fmt.Errorf("%w: %s: use the occurrence form", ErrRecurring, id)
	}
	st := instance.State{Completed: t.IsCompleted, PinnedToday: t.PinnedToday, PinnedTomorrow: t.PinnedTomorrow}
	st = st.With(f, next(st.Get(f)))
	t.IsCompleted, t.PinnedToday, t.PinnedTomorrow = st.Completed, st.PinnedToday, st.PinnedTomorrow
	t.UpdatedAt = s.now()
	if err := s.Persistence.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("app: update %s: %w", f, err)
	}
	return t, nil
}

// ToggleInstanceComplete flips completion of one occurrence.
func (s *Service) ToggleInstanceComplete(ctx context.Context, key instance.Key) (instance.State, error) {
	return s.toggleInstance(ctx, key, instance.FieldCompleted)
}

// ToggleInstancePinToday flips the today pin of one occurrence.
func (s *Service) ToggleInstancePinToday(ctx context.Context, key instance.Key) (instance.State, error) {
	return s.toggleInstance(ctx, key, instance.FieldPinnedToday)
}

// ToggleInstancePinTomorrow flips the tomorrow pin of one occurrence.
func (s *Service) ToggleInstancePinTomorrow(ctx context.Context, key instance.Key) (instance.State, error) {
	return s.toggleInstance(ctx, key, instance.FieldPinnedTomorrow)
}

func (s *Service) toggleInstance(ctx context.Context, key instance.Key, f instance.Field) (instance.State, error) {
	if err := s.requireRecurring(ctx, key.ParentID); err != nil {
		return instance.State{}, err
	}
	return instance.Overlay{Store: s.Persistence}.Toggle(ctx, key, f)
}

// SetInstanceFlag writes v into field f of one occurrence.
func (s *Service) SetInstanceFlag(ctx context.Context, key instance.Key, f instance.Field, v bool) (instance.State, error) {
	if err := s.requireRecurring(ctx, key.ParentID); err != nil {
		return instance.State{}, err
	}
	return instance.Overlay{Store: s.Persistence}.Set(ctx, key, f, v)
}

// InstanceState resolves the overlay of one occurrence without creating it.
func (s *Service) InstanceState(ctx context.Context, key instance.Key) (instance.State, error) {
	if err := s.ready(); err != nil {
		return instance.State{}, err
	}
	return instance.Overlay{Store: s.Persistence}.Resolve(ctx, key)
}

func (s *Service) requireRecurring(ctx context.Context, id string) error {
	t, err := s.Task(ctx, id)
	if err != nil {
		return err
	}
	if !t.IsRecurring() {
		return fmt.Errorf("%w: %s", ErrNotRecurring, id)
	}
	return nil
}

// Reschedule moves a non-recurring task to the moment to. Deadline and
// scheduled tasks take to as their new date; a date range keeps its length
// and starts on to's day; an undated task becomes a deadline.
func (s *Service) Reschedule(ctx context.Context, id string, to int64, loc *time.Location) (*task.Task, error) {
	t, err := s.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	switch t.Type {
	case task.TypeRecurring:
		return nil, fmt.Errorf("%w: %s: edit the recurrence instead", ErrRecurring, id)
	case task.TypeDeadline, task.TypeNone:
		t.Type = task.TypeDeadline
		t.DeadlineAt = task.Int64(to)
	case task.TypeScheduled:
		t.ScheduledAt = task.Int64(to)
	case task.TypeDateRange:
		if t.RangeStartDate == nil || t.RangeEndDate == nil {
			return nil, fmt.Errorf("app: task %s has an incomplete range", id)
		}
		from := timeutil.FromMillis(timeutil.DayStart(*t.RangeStartDate, loc), loc)
		days := timeutil.DaysBetween(from, timeutil.FromMillis(timeutil.DayStart(to, loc), loc))
		t.RangeStartDate = task.Int64(timeutil.AddDays(*t.RangeStartDate, days, loc))
		t.RangeEndDate = task.Int64(timeutil.AddDays(*t.RangeEndDate, days, loc))
	}
	t.IsCompleted = false
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.now()
	if err := s.Persistence.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("app: reschedule: %w", err)
	}
	return t, nil
}
