package task

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	start := int64(1_700_000_000_000)
	tests := []struct {
		name  string
		task  Task
		field string
	}{
		{
			name: "someday ok",
			task: Task{Title: "read", Type: TypeNone},
		},
		{
			name:  "missing title",
			task:  Task{Type: TypeNone},
			field: "title",
		},
		{
			name:  "deadline without date",
			task:  Task{Title: "x", Type: TypeDeadline},
			field: "deadlineAt",
		},
		{
			name:  "range reversed",
			task:  Task{Title: "x", Type: TypeDateRange, RangeStartDate: Int64(start), RangeEndDate: Int64(start - 1)},
			field: "rangeEndDate",
		},
		{
			name: "recurrence ends before start",
			task: Task{
				Title: "x", Type: TypeRecurring, RecurrencePattern: PatternDaily,
				RecurrenceStartDate: Int64(start), RecurrenceEndDate: Int64(start - 86_400_000),
			},
			field: "recurrenceEndDate",
		},
		{
			name: "weekly needs days",
			task: Task{
				Title: "x", Type: TypeRecurring, RecurrencePattern: PatternWeekly,
				RecurrenceStartDate: Int64(start),
			},
			field: "recurrenceDaysOfWeek",
		},
		{
			name: "weekly bad weekday",
			task: Task{
				Title: "x", Type: TypeRecurring, RecurrencePattern: PatternWeekly,
				RecurrenceStartDate: Int64(start), RecurrenceDaysOfWeek: []int{1, 7},
			},
			field: "recurrenceDaysOfWeek",
		},
		{
			name: "yearly month range",
			task: Task{
				Title: "x", Type: TypeRecurring, RecurrencePattern: PatternYearly,
				RecurrenceStartDate: Int64(start), RecurrenceMonth: Int(12), RecurrenceDayOfYear: Int(1),
			},
			field: "recurrenceMonth",
		},
		{
			name: "monthly ok",
			task: Task{
				Title: "rent", Type: TypeRecurring, RecurrencePattern: PatternMonthly,
				RecurrenceStartDate: Int64(start), RecurrenceDayOfMonth: Int(31),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on %s", tc.field)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected field %s, got %v", tc.field, err)
			}
		})
	}
}

func TestConsistentIsLenientAboutShape(t *testing.T) {
	if (&Task{Type: TypeDeadline}).Consistent() {
		t.Fatal("deadline task without deadline should be inconsistent")
	}
	if !(&Task{Type: TypeNone}).Consistent() {
		t.Fatal("undated task is always consistent")
	}
	if (&Task{Type: "bogus"}).Consistent() {
		t.Fatal("unknown type should be inconsistent")
	}
}

func TestNormalizeClearsForeignGroups(t *testing.T) {
	tk := Task{
		Title:                "  pay  ",
		Type:                 TypeDeadline,
		DeadlineAt:           Int64(10),
		ScheduledAt:          Int64(20),
		RecurrencePattern:    PatternDaily,
		RecurrenceDaysOfWeek: []int{5, 1, 5},
		TagIDs:               []string{"b", "a", "b", " "},
	}
	tk.Normalize()
	if tk.Title != "pay" {
		t.Fatalf("title not trimmed: %q", tk.Title)
	}
	if tk.ScheduledAt != nil || tk.RecurrencePattern != PatternNone || tk.RecurrenceDaysOfWeek != nil {
		t.Fatalf("foreign fields not cleared: %+v", tk)
	}
	if len(tk.TagIDs) != 2 || tk.TagIDs[0] != "a" {
		t.Fatalf("tags not normalized: %v", tk.TagIDs)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &Task{Title: "x", DeadlineAt: Int64(1), TagIDs: []string{"a"}}
	cp := orig.Clone()
	*cp.DeadlineAt = 2
	cp.TagIDs[0] = "b"
	if *orig.DeadlineAt != 1 || orig.TagIDs[0] != "a" {
		t.Fatal("clone shares memory with original")
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType("Range")
	if err != nil || got != TypeDateRange {
		t.Fatalf("expected date_range, got %v %v", got, err)
	}
	if _, err := ParseType("weekly"); err == nil {
		t.Fatal("expected error")
	}
	p, err := ParsePattern("dates")
	if err != nil || p != PatternSpecificDates {
		t.Fatalf("expected specific_dates, got %v %v", p, err)
	}
}
