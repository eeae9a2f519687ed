// Package mcp provides the Model Context Protocol server integration for dayplan.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// Service adapts the application service to MCP arguments. Every call may
// carry the caller's clock as an RFC3339 timestamp; the offset of that
// timestamp decides which calendar day is "today".
type Service struct {
	App *app.Service
	// Clock is used when a call has no now argument. Defaults to time.Now.
	Clock func() time.Time
}

// CreateTaskOptions captures the parameters used to create a new task.
// Moments are RFC3339 and days are YYYY-MM-DD in the caller's zone.
type CreateTaskOptions struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"task_type"`

	Deadline   string `json:"deadline"`
	Scheduled  string `json:"scheduled"`
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`

	Pattern       string   `json:"recurrence_pattern"`
	DaysOfWeek    []int    `json:"days_of_week"`
	WeekInterval  int      `json:"week_interval"`
	DayOfMonth    int      `json:"day_of_month"`
	Month         int      `json:"month"`
	SpecificDates []string `json:"specific_dates"`
	Start         string   `json:"start"`
	End           string   `json:"end"`

	Tags   []string `json:"tags"`
	Folder string   `json:"folder"`
	Now    string   `json:"now"`
}

// ToggleResult reports the flags after a toggle.
type ToggleResult struct {
	ID         string         `json:"id"`
	Occurrence string         `json:"occurrence,omitempty"`
	State      instance.State `json:"state"`
}

// TimeContext builds the day markers for now, an optional RFC3339 value.
func (s *Service) TimeContext(now string) (timeutil.Context, error) {
	now = strings.TrimSpace(now)
	if now == "" {
		if s.Clock != nil {
			return timeutil.For(s.Clock()), nil
		}
		return timeutil.For(time.Now()), nil
	}
	t, err := time.Parse(time.RFC3339, now)
	if err != nil {
		return timeutil.Context{}, fmt.Errorf("invalid now %q, expected RFC3339 with offset: %w", now, err)
	}
	return timeutil.For(t), nil
}

func (s *Service) ready() error {
	if s.App == nil || s.App.Persistence == nil {
		return errors.New("persistence is not configured")
	}
	return nil
}

// ListTasks returns the items of view name.
func (s *Service) ListTasks(ctx context.Context, name, now string, f store.Filter) ([]view.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	v, err := view.ParseName(name)
	if err != nil {
		return nil, err
	}
	if v == view.Dashboard {
		v = view.Today
	}
	tc, err := s.TimeContext(now)
	if err != nil {
		return nil, err
	}
	entries, err := s.App.ListTasks(ctx, v, tc, f)
	if err != nil {
		return nil, err
	}
	view.SortChronological(entries)
	return view.Items(entries, tc.Loc()), nil
}

// Dashboard returns Today and Tomorrow.
func (s *Service) Dashboard(ctx context.Context, now string) (map[string][]view.Item, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tc, err := s.TimeContext(now)
	if err != nil {
		return nil, err
	}
	b, err := s.App.Dashboard(ctx, tc, store.Filter{})
	if err != nil {
		return nil, err
	}
	return map[string][]view.Item{
		string(view.Today):    view.Items(b.Today, tc.Loc()),
		string(view.Tomorrow): view.Items(b.Tomorrow, tc.Loc()),
	}, nil
}

// GetTask returns one task with its derived fields.
func (s *Service) GetTask(ctx context.Context, id, now string) (*app.TaskDetail, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("id is required")
	}
	tc, err := s.TimeContext(now)
	if err != nil {
		return nil, err
	}
	d, err := s.App.GetTask(ctx, id, tc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateTask stores a new task built from opts.
func (s *Service) CreateTask(ctx context.Context, opts CreateTaskOptions) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tc, err := s.TimeContext(opts.Now)
	if err != nil {
		return nil, err
	}
	t, err := opts.build(tc)
	if err != nil {
		return nil, err
	}
	return s.App.CreateTask(ctx, t)
}

// DeleteTask removes a task and its occurrence state.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if id == "" {
		return errors.New("id is required")
	}
	return s.App.DeleteTask(ctx, id)
}

// DeleteCompleted removes every completed task.
func (s *Service) DeleteCompleted(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.App.DeleteAllCompleted(ctx)
}

// Toggle flips field of id. For recurring tasks the occurrence on date
// (YYYY-MM-DD, default today) is toggled.
func (s *Service) Toggle(ctx context.Context, id string, field instance.Field, date, now string) (*ToggleResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tc, err := s.TimeContext(now)
	if err != nil {
		return nil, err
	}
	t, err := s.App.Task(ctx, id)
	if err != nil {
		return nil, err
	}

	if !t.IsRecurring() {
		if date != "" {
			return nil, fmt.Errorf("%s is not recurring, date is only valid for occurrences", id)
		}
		var updated *task.Task
		switch field {
		case instance.FieldCompleted:
			updated, err = s.App.ToggleComplete(ctx, id)
		case instance.FieldPinnedToday:
			updated, err = s.App.TogglePinToday(ctx, id)
		case instance.FieldPinnedTomorrow:
			updated, err = s.App.TogglePinTomorrow(ctx, id)
		default:
			return nil, fmt.Errorf("unknown field %q", field)
		}
		if err != nil {
			return nil, err
		}
		return &ToggleResult{ID: id, State: view.Flags(view.Concrete{Task: updated})}, nil
	}

	day, err := timeutil.ParseDay(date, tc)
	if err != nil {
		return nil, err
	}
	key := instance.Key{ParentID: id, Date: day}
	var st instance.State
	switch field {
	case instance.FieldCompleted:
		st, err = s.App.ToggleInstanceComplete(ctx, key)
	case instance.FieldPinnedToday:
		st, err = s.App.ToggleInstancePinToday(ctx, key)
	case instance.FieldPinnedTomorrow:
		st, err = s.App.ToggleInstancePinTomorrow(ctx, key)
	default:
		return nil, fmt.Errorf("unknown field %q", field)
	}
	if err != nil {
		return nil, err
	}
	return &ToggleResult{ID: id, Occurrence: timeutil.DateKey(day, tc.Loc()), State: st}, nil
}

// CompleteAllFuture ends a recurring task. With from empty the series is cut
// at the next open occurrence on or after today.
func (s *Service) CompleteAllFuture(ctx context.Context, id, from, now string) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tc, err := s.TimeContext(now)
	if err != nil {
		return nil, err
	}
	if from == "" {
		return s.App.CompleteAllFutureFrom(ctx, id, tc)
	}
	day, err := timeutil.ParseDay(from, tc)
	if err != nil {
		return nil, err
	}
	return s.App.CompleteAllFutureOccurrences(ctx, id, day, tc.Loc())
}

func (o CreateTaskOptions) build(tc timeutil.Context) (*task.Task, error) {
	typ, err := task.ParseType(o.Type)
	if err != nil {
		return nil, err
	}
	t := &task.Task{
		Title:       o.Title,
		Description: o.Description,
		Type:        typ,
		TagIDs:      o.Tags,
	}
	if o.Folder != "" {
		t.FolderID = task.String(o.Folder)
	}

	moment := func(raw string) (*int64, error) {
		if raw == "" {
			return nil, nil
		}
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid moment %q, expected RFC3339: %w", raw, err)
		}
		return task.Int64(timeutil.Millis(at)), nil
	}
	day := func(raw string) (*int64, error) {
		if raw == "" {
			return nil, nil
		}
		ms, err := timeutil.ParseDay(raw, tc)
		if err != nil {
			return nil, err
		}
		return task.Int64(ms), nil
	}

	if t.DeadlineAt, err = moment(o.Deadline); err != nil {
		return nil, err
	}
	if t.ScheduledAt, err = moment(o.Scheduled); err != nil {
		return nil, err
	}
	if t.RangeStartDate, err = day(o.RangeStart); err != nil {
		return nil, err
	}
	if t.RangeEndDate, err = day(o.RangeEnd); err != nil {
		return nil, err
	}
	if typ != task.TypeRecurring {
		return t, nil
	}

	if t.RecurrencePattern, err = task.ParsePattern(o.Pattern); err != nil {
		return nil, err
	}
	t.RecurrenceDaysOfWeek = o.DaysOfWeek
	if o.WeekInterval > 0 {
		t.RecurrenceWeekInterval = task.Int(o.WeekInterval)
	}
	if o.DayOfMonth > 0 {
		if t.RecurrencePattern == task.PatternYearly {
			t.RecurrenceDayOfYear = task.Int(o.DayOfMonth)
		} else {
			t.RecurrenceDayOfMonth = task.Int(o.DayOfMonth)
		}
	}
	if o.Month > 0 {
		t.RecurrenceMonth = task.Int(o.Month - 1)
	}
	for _, raw := range o.SpecificDates {
		ms, err := timeutil.ParseDay(raw, tc)
		if err != nil {
			return nil, err
		}
		t.RecurrenceSpecificDates = append(t.RecurrenceSpecificDates, ms)
	}
	if t.RecurrenceStartDate, err = day(o.Start); err != nil {
		return nil, err
	}
	if t.RecurrenceStartDate == nil {
		t.RecurrenceStartDate = task.Int64(tc.TodayStart)
	}
	if t.RecurrenceEndDate, err = day(o.End); err != nil {
		return nil, err
	}
	return t, nil
}
