package view

import (
	"testing"
	"time"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Wednesday 2024-01-03 09:00 UTC. The week runs 2023-12-31..2024-01-06.
var wednesday = timeutil.For(time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC))

func at(month time.Month, day, hour int) int64 {
	return timeutil.Millis(time.Date(2024, month, day, hour, 0, 0, 0, time.UTC))
}

func deadline(id string, ms int64) *task.Task {
	return &task.Task{ID: id, Title: id, Type: task.TypeDeadline, DeadlineAt: task.Int64(ms)}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, TrackingID(e))
	}
	return out
}

func contains(entries []Entry, id string) bool {
	for _, e := range entries {
		if TrackingID(e) == id {
			return true
		}
	}
	return false
}

func TestDeadlineTodayAndOverdue(t *testing.T) {
	due := deadline("due", wednesday.TodayStart+20*int64(time.Hour/time.Millisecond))
	late := deadline("late", timeutil.AddDays(wednesday.TodayStart, -1, time.UTC))
	tasks := []*task.Task{due, late}

	today := Classify(tasks, Today, wednesday, nil)
	if !contains(today, "due") || contains(today, "late") {
		t.Fatalf("today = %v, want [due]", ids(today))
	}
	overdue := Classify(tasks, Overdue, wednesday, nil)
	if !contains(overdue, "late") || contains(overdue, "due") {
		t.Fatalf("overdue = %v, want [late]", ids(overdue))
	}
}

func TestCompletedExcludedUnlessPinned(t *testing.T) {
	pinned := deadline("pinned", at(time.January, 3, 12))
	pinned.IsCompleted = true
	pinned.PinnedToday = true

	done := deadline("done", at(time.January, 3, 12))
	done.IsCompleted = true

	doneLate := deadline("done-late", at(time.January, 1, 12))
	doneLate.IsCompleted = true

	doneTomorrow := deadline("done-tomorrow", at(time.January, 4, 12))
	doneTomorrow.IsCompleted = true

	tasks := []*task.Task{pinned, done, doneLate, doneTomorrow}

	today := Classify(tasks, Today, wednesday, nil)
	if got := ids(today); len(got) != 1 || got[0] != "pinned" {
		t.Fatalf("today = %v, want [pinned]", got)
	}
	if got := Classify(tasks, Tomorrow, wednesday, nil); len(got) != 0 {
		t.Fatalf("tomorrow = %v, want none", ids(got))
	}
	if got := Classify(tasks, Overdue, wednesday, nil); len(got) != 0 {
		t.Fatalf("overdue = %v, want none", ids(got))
	}
	// Week views do not filter completion.
	if got := Classify(tasks, ThisWeek, wednesday, nil); len(got) != 4 {
		t.Fatalf("this week = %v, want all four", ids(got))
	}
}

func TestPinnedTodayIsNotOverdue(t *testing.T) {
	late := deadline("late", at(time.January, 1, 8))
	late.PinnedToday = true
	tasks := []*task.Task{late}

	if got := Classify(tasks, Overdue, wednesday, nil); len(got) != 0 {
		t.Fatalf("overdue = %v, want none", ids(got))
	}
	if got := Classify(tasks, Today, wednesday, nil); !contains(got, "late") {
		t.Fatalf("today = %v, want late", ids(got))
	}
}

func TestInconsistentTasksOnlyInBank(t *testing.T) {
	broken := &task.Task{ID: "broken", Title: "broken", Type: task.TypeDeadline, PinnedToday: true}
	noStart := &task.Task{ID: "no-start", Title: "no start", Type: task.TypeRecurring, RecurrencePattern: task.PatternDaily}
	tasks := []*task.Task{broken, noStart}

	for _, name := range []Name{Dashboard, Today, Tomorrow, ThisWeek, NextWeek, Overdue, Someday} {
		if got := Classify(tasks, name, wednesday, nil); len(got) != 0 {
			t.Errorf("%s = %v, want none", name, ids(got))
		}
	}
	if got := Classify(tasks, Bank, wednesday, nil); len(got) != 2 {
		t.Fatalf("bank = %v, want both", ids(got))
	}
}

func TestTomorrowAndWeekViews(t *testing.T) {
	tomorrow := deadline("tomorrow", at(time.January, 4, 17))
	scheduled := &task.Task{ID: "call", Title: "call", Type: task.TypeScheduled, ScheduledAt: task.Int64(at(time.January, 9, 10))}
	someday := &task.Task{ID: "someday", Title: "someday", Type: task.TypeNone}
	pinnedTomorrow := &task.Task{ID: "pinned", Title: "pinned", Type: task.TypeNone, PinnedTomorrow: true}
	tasks := []*task.Task{tomorrow, scheduled, someday, pinnedTomorrow}

	tests := []struct {
		name Name
		want []string
	}{
		{Today, nil},
		{Tomorrow, []string{"tomorrow", "pinned"}},
		{ThisWeek, []string{"tomorrow"}},
		{NextWeek, []string{"call"}},
		{Overdue, nil},
		{Someday, []string{"someday", "pinned"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			got := ids(Classify(tasks, tt.name, wednesday, nil))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestDateRangeMembership(t *testing.T) {
	trip := &task.Task{
		ID: "trip", Title: "trip", Type: task.TypeDateRange,
		RangeStartDate: task.Int64(at(time.January, 2, 0)),
		RangeEndDate:   task.Int64(at(time.January, 5, 0)),
	}
	ended := &task.Task{
		ID: "ended", Title: "ended", Type: task.TypeDateRange,
		RangeStartDate: task.Int64(at(time.January, 1, 0)),
		RangeEndDate:   task.Int64(at(time.January, 2, 0)),
	}
	later := &task.Task{
		ID: "later", Title: "later", Type: task.TypeDateRange,
		RangeStartDate: task.Int64(at(time.January, 6, 0)),
		RangeEndDate:   task.Int64(at(time.January, 8, 0)),
	}
	tasks := []*task.Task{trip, ended, later}

	check := func(name Name, want ...string) {
		t.Helper()
		got := Classify(tasks, name, wednesday, nil)
		if len(got) != len(want) {
			t.Fatalf("%s = %v, want %v", name, ids(got), want)
		}
		for _, id := range want {
			if !contains(got, id) {
				t.Fatalf("%s = %v, want %v", name, ids(got), want)
			}
		}
	}
	check(Today, "trip")
	check(Tomorrow, "trip")
	check(Overdue, "ended")
	check(ThisWeek, "trip", "ended", "later")
	check(NextWeek, "later")
}

func TestRecurringExpansion(t *testing.T) {
	daily := &task.Task{
		ID: "daily", Title: "daily", Type: task.TypeRecurring,
		RecurrencePattern:   task.PatternDaily,
		RecurrenceStartDate: task.Int64(at(time.January, 1, 0)),
	}
	tasks := []*task.Task{daily}

	today := Classify(tasks, Today, wednesday, nil)
	if len(today) != 1 {
		t.Fatalf("today = %v, want one occurrence", ids(today))
	}
	v, ok := today[0].(Virtual)
	if !ok {
		t.Fatalf("expected a virtual entry, got %T", today[0])
	}
	if v.Date != wednesday.TodayStart || v.Parent != daily || !v.State.IsZero() {
		t.Fatalf("unexpected occurrence %+v", v)
	}

	// The series starts on Monday, so this week's Sunday has no occurrence.
	if got := Classify(tasks, ThisWeek, wednesday, nil); len(got) != 6 {
		t.Fatalf("this week = %d occurrences, want 6", len(got))
	}
	if got := Classify(tasks, NextWeek, wednesday, nil); len(got) != 7 {
		t.Fatalf("next week = %d occurrences, want 7", len(got))
	}

	bank := Classify(tasks, Bank, wednesday, nil)
	if _, ok := bank[0].(Concrete); !ok || len(bank) != 1 {
		t.Fatalf("bank should list the definition once, got %v", bank)
	}
	if got := Classify(tasks, Someday, wednesday, nil); len(got) != 0 {
		t.Fatalf("someday = %v, want none", ids(got))
	}
}

func TestRecurringOverlay(t *testing.T) {
	daily := &task.Task{
		ID: "daily", Title: "daily", Type: task.TypeRecurring,
		RecurrencePattern:   task.PatternDaily,
		RecurrenceStartDate: task.Int64(at(time.January, 1, 0)),
	}
	tasks := []*task.Task{daily}
	yesterday := timeutil.AddDays(wednesday.TodayStart, -1, time.UTC)

	done := instance.Snapshot{
		{ParentID: "daily", Date: wednesday.TodayStart}: {Completed: true},
		{ParentID: "daily", Date: yesterday}:           {Completed: true},
	}
	if got := Classify(tasks, Today, wednesday, done); len(got) != 0 {
		t.Fatalf("completed occurrence should leave today, got %v", ids(got))
	}
	if got := Classify(tasks, Overdue, wednesday, done); len(got) != 0 {
		t.Fatalf("completed occurrence should not be overdue, got %v", ids(got))
	}
	if got := Classify(tasks, Overdue, wednesday, nil); len(got) != 1 {
		t.Fatalf("yesterday's open occurrence should be overdue, got %v", ids(got))
	}

	pinned := instance.Snapshot{
		{ParentID: "daily", Date: wednesday.TodayStart}: {Completed: true, PinnedToday: true},
	}
	got := Classify(tasks, Today, wednesday, pinned)
	if len(got) != 1 || !IsCompleted(got[0]) || !IsPinnedToday(got[0]) {
		t.Fatalf("pinned completed occurrence should stay in today, got %v", got)
	}
	// The overlay never leaks into the definition.
	if daily.IsCompleted || daily.PinnedToday {
		t.Fatal("definition was mutated")
	}
}

func TestPinnedOffDayOccurrence(t *testing.T) {
	mondays := &task.Task{
		ID: "mon", Title: "mondays", Type: task.TypeRecurring,
		RecurrencePattern:    task.PatternWeekly,
		RecurrenceDaysOfWeek: []int{1},
		RecurrenceStartDate:  task.Int64(at(time.January, 1, 0)),
	}
	tasks := []*task.Task{mondays}

	if got := Classify(tasks, Today, wednesday, instance.Snapshot{
		{ParentID: "mon", Date: wednesday.TodayStart}: {Completed: true},
	}); len(got) != 0 {
		t.Fatalf("unpinned off-day row listed in today: %v", ids(got))
	}

	moved := instance.Snapshot{
		{ParentID: "mon", Date: wednesday.TodayStart}:    {PinnedToday: true},
		{ParentID: "mon", Date: wednesday.TomorrowStart}: {PinnedTomorrow: true},
	}
	today := Classify(tasks, Today, wednesday, moved)
	if len(today) != 1 || today[0].(Virtual).Date != wednesday.TodayStart {
		t.Fatalf("today = %v, want the pinned occurrence", ids(today))
	}
	tomorrow := Classify(tasks, Tomorrow, wednesday, moved)
	if len(tomorrow) != 1 || tomorrow[0].(Virtual).Date != wednesday.TomorrowStart {
		t.Fatalf("tomorrow = %v, want the pinned occurrence", ids(tomorrow))
	}
	// Only the single-day views pick up pins off the rule.
	if got := Classify(tasks, ThisWeek, wednesday, moved); len(got) != 1 {
		t.Fatalf("this week = %d occurrences, want only Monday", len(got))
	}
}

func TestDashboard(t *testing.T) {
	tasks := []*task.Task{
		deadline("a", at(time.January, 3, 10)),
		deadline("b", at(time.January, 4, 10)),
	}
	b := ClassifyDashboard(tasks, wednesday, nil)
	if len(b.Today) != 1 || len(b.Tomorrow) != 1 {
		t.Fatalf("dashboard = %v / %v", ids(b.Today), ids(b.Tomorrow))
	}
	flat := ids(Classify(tasks, Dashboard, wednesday, nil))
	if len(flat) != 2 || flat[0] != "a" || flat[1] != "b" {
		t.Fatalf("dashboard list = %v, want [a b]", flat)
	}
}

func TestMembership(t *testing.T) {
	e := Concrete{Task: deadline("due", at(time.January, 4, 9))}
	got := Membership(e, wednesday)
	want := []Name{Tomorrow, ThisWeek, Bank}
	if len(got) != len(want) {
		t.Fatalf("membership = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("membership = %v, want %v", got, want)
		}
	}
}

func TestSortChronological(t *testing.T) {
	entries := []Entry{
		Concrete{Task: &task.Task{ID: "undated", Title: "undated", Type: task.TypeNone}},
		Concrete{Task: deadline("late", at(time.January, 5, 0))},
		Virtual{Parent: &task.Task{ID: "rec", Title: "rec"}, Date: at(time.January, 4, 0)},
		Concrete{Task: deadline("early", at(time.January, 3, 0))},
	}
	SortChronological(entries)
	got := ids(entries)
	want := []string{"early", "rec", "late", "undated"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := map[string]Name{
		"":          Dashboard,
		"today":     Today,
		"week":      ThisWeek,
		"this-week": ThisWeek,
		"next":      NextWeek,
		"all":       Bank,
		"Overdue":   Overdue,
	}
	for in, want := range tests {
		got, err := ParseName(in)
		if err != nil || got != want {
			t.Errorf("ParseName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseName("yesterday"); err == nil {
		t.Fatal("expected error for unknown view")
	}
}
