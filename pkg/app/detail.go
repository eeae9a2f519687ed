package app

import (
	"context"
	"fmt"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/recurrence"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// TaskDetail is a task as shown in an edit form.
type TaskDetail struct {
	Task *task.Task `json:"task" yaml:"task"`
	// Recurrence is a human summary of the rule, empty for one-off tasks.
	Recurrence string `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	// Next is the next occurrence on or after today.
	Next *int64 `json:"nextOccurrence,omitempty" yaml:"nextOccurrence,omitempty"`
	// Today is the overlay of today's occurrence, when there is one.
	Today *instance.State `json:"today,omitempty" yaml:"today,omitempty"`
	// Views lists the views the task currently appears in.
	Views []view.Name `json:"views" yaml:"views"`
}

// GetTask returns the task with id decorated for tc.
func (s *Service) GetTask(ctx context.Context, id string, tc timeutil.Context) (TaskDetail, error) {
	if err := tc.Validate(); err != nil {
		return TaskDetail{}, fmt.Errorf("app: %w", err)
	}
	t, err := s.Task(ctx, id)
	if err != nil {
		return TaskDetail{}, err
	}
	d := TaskDetail{Task: t}
	loc := tc.Loc()

	var states instance.Snapshot
	if t.IsRecurring() {
		d.Recurrence = recurrence.Describe(t, loc)
		if next, ok := recurrence.NextOnOrAfter(t, tc.Today(), 0); ok {
			d.Next = task.Int64(timeutil.Millis(next))
		}
		from := timeutil.AddDays(tc.TodayStart, -1, loc)
		to := timeutil.AddDays(tc.NextWeekStart, 6, loc)
		if from > tc.WeekStart {
			from = tc.WeekStart
		}
		states, err = s.Persistence.InstanceStates(ctx, []string{t.ID}, from, to)
		if err != nil {
			return TaskDetail{}, fmt.Errorf("app: load instance states: %w", err)
		}
		if recurrence.OccursOnMillis(t, tc.TodayStart, loc) {
			st := states.State(t.ID, tc.TodayStart)
			d.Today = &st
		}
	}

	tasks := []*task.Task{t}
	for _, name := range view.AllNames() {
		if name == view.Dashboard {
			continue
		}
		if len(view.Classify(tasks, name, tc, states)) > 0 {
			d.Views = append(d.Views, name)
		}
	}
	return d, nil
}
