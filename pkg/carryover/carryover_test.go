package carryover

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

type memorySource struct {
	tasks  []*task.Task
	states instance.Snapshot
	err    error
}

func (m *memorySource) AllTasks(context.Context) ([]*task.Task, error) {
	return m.tasks, m.err
}

func (m *memorySource) InstanceStates(_ context.Context, _ []string, _, _ int64) (instance.Snapshot, error) {
	return m.states, nil
}

type recordingMutator struct {
	calls []string
	fail  map[string]error
}

func (r *recordingMutator) record(action string, e view.Entry) error {
	id := view.TrackingID(e)
	r.calls = append(r.calls, action+":"+id)
	return r.fail[id]
}

func (r *recordingMutator) Complete(_ context.Context, e view.Entry) error {
	return r.record("complete", e)
}

func (r *recordingMutator) PinToday(_ context.Context, e view.Entry, _ timeutil.Context) error {
	return r.record("pin_today", e)
}

func (r *recordingMutator) PinTomorrow(_ context.Context, e view.Entry, _ timeutil.Context) error {
	return r.record("pin_tomorrow", e)
}

func (r *recordingMutator) Reschedule(_ context.Context, e view.Entry, _ int64) error {
	return r.record("reschedule", e)
}

func (r *recordingMutator) Delete(_ context.Context, e view.Entry) error {
	return r.record("delete", e)
}

type brokenKV struct{ MemoryKV }

func (b *brokenKV) Get(key string) (string, bool, error) {
	return "", false, errors.New("corrupt")
}

var jan2 = time.Date(2024, time.January, 2, 8, 30, 0, 0, time.UTC)

func jan1(hour int) int64 {
	return timeutil.Millis(time.Date(2024, time.January, 1, hour, 0, 0, 0, time.UTC))
}

func newDetector(tasks ...*task.Task) (*Detector, *MemoryKV, *recordingMutator) {
	kv := NewMemoryKV()
	m := &recordingMutator{fail: map[string]error{}}
	return &Detector{KV: kv, Source: &memorySource{tasks: tasks}, Mutator: m}, kv, m
}

func TestDetectBoundary(t *testing.T) {
	tests := []struct {
		last, today string
		want        bool
		yesterday   string
	}{
		{"2024-01-01", "2024-01-02", true, "2024-01-01"},
		{"2024-01-02", "2024-01-02", false, ""},
		{"", "2024-03-01", true, "2024-02-29"},
		{"2023-12-20", "2024-01-01", true, "2023-12-31"},
		{"2024-01-01", "garbage", false, ""},
	}
	for _, tt := range tests {
		c, ok := DetectBoundary(tt.last, tt.today, time.UTC)
		if ok != tt.want {
			t.Errorf("DetectBoundary(%q, %q) = %v, want %v", tt.last, tt.today, ok, tt.want)
			continue
		}
		if ok && c.TodayKey() != tt.yesterday {
			t.Errorf("DetectBoundary(%q, %q) yesterday = %s, want %s", tt.last, tt.today, c.TodayKey(), tt.yesterday)
		}
	}
}

func TestCarryoverCompleteIsNotRepeated(t *testing.T) {
	x := &task.Task{ID: "x", Title: "X", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(15))}
	d, kv, m := newDetector(x)
	kv.Set(LastOpenedKey, "2024-01-01")
	ctx := context.Background()

	s, err := d.Start(ctx, jan2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != Presented {
		t.Fatalf("state = %s, want presented", s.State())
	}
	if len(s.Items()) != 1 || view.TrackingID(s.Items()[0]) != "x" {
		t.Fatalf("items = %v, want [x]", s.Items())
	}

	if err := s.Resolve(ctx, "x", Resolution{Action: ActionComplete}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.State() != Idle {
		t.Fatalf("state = %s, want idle after last item", s.State())
	}
	if len(m.calls) != 1 || m.calls[0] != "complete:x" {
		t.Fatalf("mutator calls = %v", m.calls)
	}
	if !DealtWith(kv, "2024-01-02")["x"] {
		t.Fatal("x should be in dealtWith:2024-01-02")
	}
	if last, _, _ := kv.Get(LastOpenedKey); last != "2024-01-02" {
		t.Fatalf("marker = %q, want 2024-01-02", last)
	}

	// A repeat run the same day sees no boundary.
	again, err := d.Start(ctx, jan2.Add(time.Hour))
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if again.State() != Idle || len(again.Items()) != 0 {
		t.Fatalf("second run state = %s items = %d", again.State(), len(again.Items()))
	}

	// Even with the marker lost, the dealt-with set keeps x out.
	kv.Set(LastOpenedKey, "")
	lost, err := d.Start(ctx, jan2.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("third start: %v", err)
	}
	if len(lost.Items()) != 0 {
		t.Fatalf("x resurfaced: %v", lost.Items())
	}
}

func TestCarryoverFiltersCompleted(t *testing.T) {
	done := &task.Task{ID: "done", Title: "done", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(9)), IsCompleted: true, PinnedToday: true}
	daily := &task.Task{
		ID: "daily", Title: "daily", Type: task.TypeRecurring,
		RecurrencePattern:   task.PatternDaily,
		RecurrenceStartDate: task.Int64(jan1(0)),
	}
	d, kv, _ := newDetector(done, daily)
	d.Source.(*memorySource).states = instance.Snapshot{
		{ParentID: "daily", Date: jan1(0)}: {Completed: true},
	}
	kv.Set(LastOpenedKey, "2024-01-01")

	s, err := d.Start(context.Background(), jan2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != Idle || len(s.Items()) != 0 {
		t.Fatalf("expected nothing to carry over, got %v", s.Items())
	}
}

func TestCarryoverRecurringUsesParentID(t *testing.T) {
	daily := &task.Task{
		ID: "daily", Title: "daily", Type: task.TypeRecurring,
		RecurrencePattern:   task.PatternDaily,
		RecurrenceStartDate: task.Int64(jan1(0)),
	}
	d, kv, m := newDetector(daily)
	kv.Set(LastOpenedKey, "2024-01-01")
	ctx := context.Background()

	s, err := d.Start(ctx, jan2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	v, ok := items[0].(view.Virtual)
	if !ok || v.Date != jan1(0) {
		t.Fatalf("expected yesterday's occurrence, got %#v", items[0])
	}
	if err := s.Resolve(ctx, "daily", Resolution{Action: ActionPinTomorrow}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if m.calls[0] != "pin_tomorrow:daily" {
		t.Fatalf("calls = %v", m.calls)
	}
}

func TestResolveAllReportsPerItem(t *testing.T) {
	a := &task.Task{ID: "a", Title: "a", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(9))}
	b := &task.Task{ID: "b", Title: "b", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(10))}
	c := &task.Task{ID: "c", Title: "c", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(11))}
	d, kv, m := newDetector(a, b, c)
	boom := errors.New("offline")
	m.fail["b"] = boom
	kv.Set(LastOpenedKey, "2024-01-01")
	ctx := context.Background()

	s, err := d.Start(ctx, jan2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	results := s.ResolveAll(ctx, Resolution{Action: ActionComplete})
	if len(results) != 3 {
		t.Fatalf("results = %v", results)
	}
	for _, r := range results {
		if r.TrackingID == "b" {
			if !errors.Is(r.Err, boom) {
				t.Fatalf("b error = %v, want %v", r.Err, boom)
			}
		} else if r.Err != nil {
			t.Fatalf("%s error = %v", r.TrackingID, r.Err)
		}
	}
	if len(m.calls) != 3 {
		t.Fatalf("every item should be attempted, calls = %v", m.calls)
	}
	dealt := DealtWith(kv, "2024-01-02")
	for _, id := range []string{"a", "b", "c"} {
		if !dealt[id] {
			t.Fatalf("%s should be dealt with even on failure", id)
		}
	}
	if s.State() != Idle {
		t.Fatalf("state = %s, want idle", s.State())
	}
}

func TestDeferAndInvalidTransitions(t *testing.T) {
	a := &task.Task{ID: "a", Title: "a", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(9))}
	d, kv, m := newDetector(a)
	kv.Set(LastOpenedKey, "2024-01-01")
	ctx := context.Background()

	s, err := d.Start(ctx, jan2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Resolve(ctx, "nope", Resolution{Action: ActionComplete}); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
	if err := s.Defer(ctx); err != nil {
		t.Fatalf("defer: %v", err)
	}
	if len(m.calls) != 0 {
		t.Fatalf("defer must not mutate, calls = %v", m.calls)
	}
	if !DealtWith(kv, "2024-01-02")["a"] {
		t.Fatal("deferred item should be dealt with")
	}
	if err := s.Resolve(ctx, "a", Resolution{Action: ActionComplete}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Defer(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUnreadableMarkersOverPrompt(t *testing.T) {
	a := &task.Task{ID: "a", Title: "a", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(9))}
	kv := &brokenKV{MemoryKV: MemoryKV{m: map[string]string{}}}
	d := &Detector{KV: kv, Source: &memorySource{tasks: []*task.Task{a}}, Mutator: &recordingMutator{}}

	s, err := d.Start(context.Background(), jan2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != Presented || len(s.Pending()) != 1 {
		t.Fatalf("expected a to be presented, state %s", s.State())
	}
	if len(s.Warnings) == 0 {
		t.Fatal("expected a warning for the unreadable marker")
	}
}

func TestSourceFailure(t *testing.T) {
	d, kv, _ := newDetector()
	d.Source.(*memorySource).err = errors.New("db locked")
	kv.Set(LastOpenedKey, "2024-01-01")
	if _, err := d.Start(context.Background(), jan2); err == nil {
		t.Fatal("expected source error")
	}
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{
		"complete":     ActionComplete,
		"done":         ActionComplete,
		"pin-today":    ActionPinToday,
		"tomorrow":     ActionPinTomorrow,
		"later":        ActionDefer,
		"Reschedule":   ActionReschedule,
		"delete":       ActionDelete,
		"pin_tomorrow": ActionPinTomorrow,
	} {
		got, err := ParseAction(in)
		if err != nil || got != want {
			t.Errorf("ParseAction(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestPeekLeavesMarker(t *testing.T) {
	x := &task.Task{ID: "x", Title: "X", Type: task.TypeDeadline, DeadlineAt: task.Int64(jan1(10))}
	d, kv, _ := newDetector(x)
	_ = kv.Set(LastOpenedKey, "2024-01-01")

	items, err := d.Peek(context.Background(), jan2)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("peek = %v", items)
	}
	if last, _, _ := kv.Get(LastOpenedKey); last != "2024-01-01" {
		t.Fatalf("peek moved the marker to %q", last)
	}

	s, err := d.Start(context.Background(), jan2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != Presented {
		t.Fatalf("state = %s", s.State())
	}
	if items, _ := d.Peek(context.Background(), jan2); len(items) != 0 {
		t.Fatalf("peek after start = %v", items)
	}
}
