package mark

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

func init() {
	color.NoColor = true
}

// Wednesday 2024-01-03 09:00 UTC.
var tc = timeutil.For(time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC))

func newService(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Open(filepath.Join(t.TempDir(), "dayplan.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	svc := &app.Service{Persistence: p}
	for _, tk := range []*task.Task{
		{ID: "gym", Title: "gym", Type: task.TypeRecurring, RecurrencePattern: task.PatternWeekly, RecurrenceDaysOfWeek: []int{1, 3, 5}, RecurrenceStartDate: task.Int64(tc.TodayStart - 2*86400000)},
		{ID: "milk", Title: "buy milk", Type: task.TypeNone},
	} {
		if _, err := svc.CreateTask(context.Background(), tk); err != nil {
			t.Fatalf("create %s: %v", tk.ID, err)
		}
	}
	return svc
}

func TestMarkOccurrence(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var buf bytes.Buffer

	m := Mark{Service: svc, ID: "gym", Field: instance.FieldCompleted, Value: true, TC: tc, Out: &buf}
	if err := m.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}
	st, err := svc.InstanceState(ctx, instance.Key{ParentID: "gym", Date: tc.TodayStart})
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !st.Completed {
		t.Fatal("today's occurrence should be completed")
	}
	gym, _ := svc.Task(ctx, "gym")
	if gym.IsCompleted {
		t.Fatal("definition must not be completed")
	}
	if !strings.Contains(buf.String(), "Today") {
		t.Fatalf("expected today view:\n%s", buf.String())
	}
}

func TestMarkNoOccurrence(t *testing.T) {
	svc := newService(t)
	thursday := timeutil.AddDays(tc.TodayStart, 1, tc.Loc())
	m := Mark{Service: svc, ID: "gym", Field: instance.FieldCompleted, Value: true, On: thursday, TC: tc, Out: &bytes.Buffer{}}
	err := m.Do(context.Background())
	if err == nil || !strings.Contains(err.Error(), "does not occur") {
		t.Fatalf("expected occurrence error, got %v", err)
	}
}

func TestMarkPinnedOffDay(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	thursday := timeutil.AddDays(tc.TodayStart, 1, tc.Loc())
	key := instance.Key{ParentID: "gym", Date: thursday}
	if _, err := svc.SetInstanceFlag(ctx, key, instance.FieldPinnedTomorrow, true); err != nil {
		t.Fatalf("pin: %v", err)
	}

	var buf bytes.Buffer
	m := Mark{Service: svc, ID: "gym", Field: instance.FieldPinnedTomorrow, Value: false, On: thursday, TC: tc, Out: &buf}
	if err := m.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}
	st, err := svc.InstanceState(ctx, key)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.PinnedTomorrow {
		t.Fatal("thursday's pin should be cleared")
	}
	if !strings.Contains(buf.String(), "Tomorrow - 0 tasks") {
		t.Fatalf("expected an empty tomorrow view:\n%s", buf.String())
	}
}

func TestPinTomorrowOneOff(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var buf bytes.Buffer
	m := Mark{Service: svc, ID: "milk", Field: instance.FieldPinnedTomorrow, Value: true, TC: tc, Out: &buf}
	if err := m.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}
	milk, _ := svc.Task(ctx, "milk")
	if !milk.PinnedTomorrow {
		t.Fatal("milk should be pinned tomorrow")
	}
	if !strings.Contains(buf.String(), "Tomorrow - 1 task") || !strings.Contains(buf.String(), "buy milk") {
		t.Fatalf("expected tomorrow view with milk:\n%s", buf.String())
	}
}
