package app

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/recurrence"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// CompleteAllFutureOccurrences stops a recurring task from generating
// occurrences on or after effective. The end date becomes the day before
// effective (never later than an existing end). When effective is on or
// before the start date the task is converted into a completed undated task.
// Instance rows are left untouched so past completions survive.
func (s *Service) CompleteAllFutureOccurrences(ctx context.Context, parentID string, effective int64, loc *time.Location) (*task.Task, error) {
	t, err := s.Task(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !t.IsRecurring() {
		return nil, fmt.Errorf("%w: %s", ErrNotRecurring, parentID)
	}
	if loc == nil {
		loc = time.Local
	}
	day := timeutil.DayStart(effective, loc)

	if t.RecurrenceStartDate == nil || day <= timeutil.DayStart(*t.RecurrenceStartDate, loc) {
		t.ClearRecurrence()
		t.Type = task.TypeNone
		t.IsCompleted = true
		t.PinnedToday = false
		t.PinnedTomorrow = false
	} else {
		end := timeutil.AddDays(day, -1, loc)
		if t.RecurrenceEndDate == nil || *t.RecurrenceEndDate > end {
			t.RecurrenceEndDate = task.Int64(end)
		}
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.now()
	if err := s.Persistence.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("app: complete all future: %w", err)
	}
	return t, nil
}

// CompleteAllFutureFrom finds the first occurrence on or after tc's today
// that is not completed and cuts the series there.
func (s *Service) CompleteAllFutureFrom(ctx context.Context, parentID string, tc timeutil.Context) (*task.Task, error) {
	next, err := s.NextOpenOccurrence(ctx, parentID, tc)
	if err != nil {
		return nil, err
	}
	return s.CompleteAllFutureOccurrences(ctx, parentID, next, tc.Loc())
}

// NextOpenOccurrence returns the first occurrence on or after tc's today whose
// overlay is not completed.
func (s *Service) NextOpenOccurrence(ctx context.Context, parentID string, tc timeutil.Context) (int64, error) {
	t, err := s.Task(ctx, parentID)
	if err != nil {
		return 0, err
	}
	if !t.IsRecurring() {
		return 0, fmt.Errorf("%w: %s", ErrNotRecurring, parentID)
	}
	loc := tc.Loc()
	day := tc.Today()
	horizon := timeutil.FromMillis(timeutil.AddDays(tc.TodayStart, recurrence.DefaultHorizon, loc), loc)

	var (
		states instance.Snapshot
		loaded bool
	)
	for {
		remaining := timeutil.DaysBetween(day, horizon)
		if remaining <= 0 {
			return 0, fmt.Errorf("%w: %s", ErrNoOccurrence, parentID)
		}
		next, ok := recurrence.NextOnOrAfter(t, day, remaining)
		if !ok || next.After(horizon) {
			return 0, fmt.Errorf("%w: %s", ErrNoOccurrence, parentID)
		}
		ms := timeutil.Millis(next)
		if !loaded {
			// One query for the rest of the scan.
			states, err = s.Persistence.InstanceStates(ctx, []string{parentID}, ms, timeutil.Millis(horizon))
			if err != nil {
				return 0, fmt.Errorf("app: load instance states: %w", err)
			}
			loaded = true
		}
		if !states.State(parentID, ms).Completed {
			return ms, nil
		}
		day = next.AddDate(0, 0, 1)
	}
}
