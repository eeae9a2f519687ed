package mcp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/view"
)

// Wednesday 2024-01-03 09:00 in UTC.
const wednesday = "2024-01-03T09:00:00Z"

func newTestService(t *testing.T) *Service {
	t.Helper()
	p, err := store.Open(filepath.Join(t.TempDir(), "dayplan.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return &Service{
		App:   &app.Service{Persistence: p},
		Clock: func() time.Time { return time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC) },
	}
}

func TestServiceCreateTaskDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	got, err := svc.CreateTask(ctx, CreateTaskOptions{
		Title:      "gym",
		Type:       "recurring",
		Pattern:    "weekly",
		DaysOfWeek: []int{1, 3, 5},
		Now:        wednesday,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if got.RecurrenceStartDate == nil {
		t.Fatalf("expected start date to default to today")
	}
	want := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC).UnixMilli()
	if *got.RecurrenceStartDate != want {
		t.Fatalf("start = %d, want %d", *got.RecurrenceStartDate, want)
	}
}

func TestServiceCreateTaskYearlyMonth(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	got, err := svc.CreateTask(ctx, CreateTaskOptions{
		Title:      "birthday",
		Type:       "recurring",
		Pattern:    "yearly",
		Month:      3,
		DayOfMonth: 14,
		Now:        wednesday,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if got.RecurrenceMonth == nil || *got.RecurrenceMonth != 2 {
		t.Fatalf("month = %v, want 2 (March)", got.RecurrenceMonth)
	}
	if got.RecurrenceDayOfYear == nil || *got.RecurrenceDayOfYear != 14 {
		t.Fatalf("day = %v, want 14", got.RecurrenceDayOfYear)
	}
}

func TestServiceCreateTaskRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	tests := map[string]CreateTaskOptions{
		"no title":     {Type: "none"},
		"bad type":     {Title: "x", Type: "sometimes"},
		"bad deadline": {Title: "x", Type: "deadline", Deadline: "tomorrow-ish"},
		"no deadline":  {Title: "x", Type: "deadline"},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.CreateTask(ctx, opts); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestServiceTimeContext(t *testing.T) {
	svc := newTestService(t)

	tc, err := svc.TimeContext("2024-01-03T23:30:00-05:00")
	if err != nil {
		t.Fatalf("TimeContext returned error: %v", err)
	}
	if got := tc.TodayKey(); got != "2024-01-03" {
		t.Fatalf("today = %s, want 2024-01-03 in the caller's zone", got)
	}

	if _, err := svc.TimeContext("yesterday"); err == nil {
		t.Fatalf("expected error for non RFC3339 now")
	}

	tc, err = svc.TimeContext("")
	if err != nil {
		t.Fatalf("TimeContext returned error: %v", err)
	}
	if got := tc.TodayKey(); got != "2024-01-03" {
		t.Fatalf("clock today = %s", got)
	}
}

func TestServiceToggle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	once, err := svc.CreateTask(ctx, CreateTaskOptions{Title: "call mom", Now: wednesday})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	gym, err := svc.CreateTask(ctx, CreateTaskOptions{
		Title:      "gym",
		Type:       "recurring",
		Pattern:    "weekly",
		DaysOfWeek: []int{1, 3, 5},
		Start:      "2024-01-01",
		Now:        wednesday,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	res, err := svc.Toggle(ctx, once.ID, instance.FieldCompleted, "", wednesday)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !res.State.Completed || res.Occurrence != "" {
		t.Fatalf("unexpected one-off result %+v", res)
	}
	if _, err := svc.Toggle(ctx, once.ID, instance.FieldCompleted, "2024-01-03", wednesday); err == nil {
		t.Fatalf("expected date to be rejected for one-off tasks")
	}

	res, err = svc.Toggle(ctx, gym.ID, instance.FieldPinnedTomorrow, "2024-01-05", wednesday)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !res.State.PinnedTomorrow || res.Occurrence != "2024-01-05" {
		t.Fatalf("unexpected occurrence result %+v", res)
	}

	stored, err := svc.App.Task(ctx, gym.ID)
	if err != nil {
		t.Fatalf("Task returned error: %v", err)
	}
	if stored.PinnedTomorrow {
		t.Fatalf("occurrence toggle leaked onto the definition")
	}
}

func TestServiceListTasks(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, opts := range []CreateTaskOptions{
		{Title: "someday", Now: wednesday},
		{Title: "taxes", Type: "deadline", Deadline: "2024-01-03T17:00:00Z", Now: wednesday},
		{Title: "gym", Type: "recurring", Pattern: "daily", Start: "2024-01-01", Now: wednesday},
	} {
		if _, err := svc.CreateTask(ctx, opts); err != nil {
			t.Fatalf("CreateTask(%s) returned error: %v", opts.Title, err)
		}
	}

	items, err := svc.ListTasks(ctx, "today", wednesday, store.Filter{})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	titles := map[string]bool{}
	for _, it := range items {
		titles[it.Title] = true
	}
	if len(items) != 2 || !titles["taxes"] || !titles["gym"] {
		t.Fatalf("unexpected today items %+v", items)
	}

	board, err := svc.Dashboard(ctx, wednesday)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(board[string(view.Tomorrow)]) != 1 {
		t.Fatalf("expected only the gym occurrence tomorrow, got %+v", board[string(view.Tomorrow)])
	}

	if _, err := svc.ListTasks(ctx, "someday-soon", wednesday, store.Filter{}); err == nil {
		t.Fatalf("expected unknown view error")
	}
}

func TestServiceCompleteAllFuture(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	gym, err := svc.CreateTask(ctx, CreateTaskOptions{
		Title:   "gym",
		Type:    "recurring",
		Pattern: "daily",
		Start:   "2024-01-01",
		Now:     wednesday,
	})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	got, err := svc.CompleteAllFuture(ctx, gym.ID, "2024-01-05", wednesday)
	if err != nil {
		t.Fatalf("CompleteAllFuture returned error: %v", err)
	}
	want := time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got.RecurrenceEndDate == nil || *got.RecurrenceEndDate != want {
		t.Fatalf("end = %v, want %d", got.RecurrenceEndDate, want)
	}

	once, err := svc.CreateTask(ctx, CreateTaskOptions{Title: "once", Now: wednesday})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if _, err := svc.CompleteAllFuture(ctx, once.ID, "", wednesday); err == nil {
		t.Fatalf("expected error for non-recurring task")
	}
}

func TestServiceRequiresPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.ListTasks(context.Background(), "today", "", store.Filter{}); err == nil {
		t.Fatalf("expected error without persistence")
	}
	if err := svc.DeleteTask(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without persistence")
	}
}
