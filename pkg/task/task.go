// Package task defines the stored task definition shared by the engine,
// persistence and the CLI.
package task

import (
	"fmt"
	"sort"
	"strings"
)

// Type selects which temporal field group a task uses.
type Type string

const (
	// TypeNone is an undated task; it lives in Someday.
	TypeNone Type = "none"
	// TypeDeadline is due at DeadlineAt.
	TypeDeadline Type = "deadline"
	// TypeDateRange spans RangeStartDate..RangeEndDate.
	TypeDateRange Type = "date_range"
	// TypeScheduled happens at ScheduledAt.
	TypeScheduled Type = "scheduled_time"
	// TypeRecurring repeats according to RecurrencePattern.
	TypeRecurring Type = "recurring"
)

// AllTypes returns the supported task types.
func AllTypes() []Type {
	return []Type{TypeNone, TypeDeadline, TypeDateRange, TypeScheduled, TypeRecurring}
}

// ParseType converts a string to a Type. Empty input means TypeNone.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case "":
		return TypeNone, nil
	case "range":
		return TypeDateRange, nil
	case "scheduled":
		return TypeScheduled, nil
	}
	for _, candidate := range AllTypes() {
		if candidate == t {
			return candidate, nil
		}
	}
	return TypeNone, fmt.Errorf("task: unknown type %q", raw)
}

// Pattern is the recurrence rule of a recurring task.
type Pattern string

const (
	PatternNone          Pattern = ""
	PatternDaily         Pattern = "daily"
	PatternWeekly        Pattern = "weekly"
	PatternMonthly       Pattern = "monthly"
	PatternYearly        Pattern = "yearly"
	PatternSpecificDates Pattern = "specific_dates"
)

// AllPatterns returns the supported recurrence patterns.
func AllPatterns() []Pattern {
	return []Pattern{PatternDaily, PatternWeekly, PatternMonthly, PatternYearly, PatternSpecificDates}
}

// ParsePattern converts a string to a Pattern.
func ParsePattern(raw string) (Pattern, error) {
	p := Pattern(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case "":
		return PatternNone, nil
	case "dates":
		return PatternSpecificDates, nil
	}
	for _, candidate := range AllPatterns() {
		if candidate == p {
			return candidate, nil
		}
	}
	return PatternNone, fmt.Errorf("task: unknown recurrence pattern %q", raw)
}

// Task is one logical task definition, including recurring ones. Epoch values
// are milliseconds; optional values are nil when unset.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        Type   `json:"taskType" yaml:"taskType"`

	DeadlineAt     *int64 `json:"deadlineAt,omitempty" yaml:"deadlineAt,omitempty"`
	RangeStartDate *int64 `json:"rangeStartDate,omitempty" yaml:"rangeStartDate,omitempty"`
	RangeEndDate   *int64 `json:"rangeEndDate,omitempty" yaml:"rangeEndDate,omitempty"`
	ScheduledAt    *int64 `json:"scheduledAt,omitempty" yaml:"scheduledAt,omitempty"`

	RecurrencePattern       Pattern `json:"recurrencePattern,omitempty" yaml:"recurrencePattern,omitempty"`
	RecurrenceDaysOfWeek    []int   `json:"recurrenceDaysOfWeek,omitempty" yaml:"recurrenceDaysOfWeek,omitempty"`
	RecurrenceWeekInterval  *int    `json:"recurrenceWeekInterval,omitempty" yaml:"recurrenceWeekInterval,omitempty"`
	RecurrenceDayOfMonth    *int    `json:"recurrenceDayOfMonth,omitempty" yaml:"recurrenceDayOfMonth,omitempty"`
	RecurrenceMonth         *int    `json:"recurrenceMonth,omitempty" yaml:"recurrenceMonth,omitempty"`
	RecurrenceDayOfYear     *int    `json:"recurrenceDayOfYear,omitempty" yaml:"recurrenceDayOfYear,omitempty"`
	RecurrenceSpecificDates []int64 `json:"recurrenceSpecificDates,omitempty" yaml:"recurrenceSpecificDates,omitempty"`
	RecurrenceStartDate     *int64  `json:"recurrenceStartDate,omitempty" yaml:"recurrenceStartDate,omitempty"`
	RecurrenceEndDate       *int64  `json:"recurrenceEndDate,omitempty" yaml:"recurrenceEndDate,omitempty"`

	IsCompleted    bool `json:"isCompleted" yaml:"isCompleted"`
	PinnedToday    bool `json:"pinnedToday" yaml:"pinnedToday"`
	PinnedTomorrow bool `json:"pinnedTomorrow" yaml:"pinnedTomorrow"`

	TagIDs   []string `json:"tagIds,omitempty" yaml:"tagIds,omitempty"`
	FolderID *string  `json:"folderId,omitempty" yaml:"folderId,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// IsRecurring reports whether the task expands into virtual instances.
func (t *Task) IsRecurring() bool {
	return t != nil && t.Type == TypeRecurring
}

// WeekInterval returns the weekly interval, defaulting to 1.
func (t *Task) WeekInterval() int {
	if t.RecurrenceWeekInterval == nil || *t.RecurrenceWeekInterval < 1 {
		return 1
	}
	return *t.RecurrenceWeekInterval
}

// Consistent reports whether the populated fields match the task type. It is
// the lenient check used during classification: an inconsistent task is
// view-less rather than an error.
func (t *Task) Consistent() bool {
	if t == nil {
		return false
	}
	switch t.Type {
	case TypeNone:
		return true
	case TypeDeadline:
		return t.DeadlineAt != nil
	case TypeScheduled:
		return t.ScheduledAt != nil
	case TypeDateRange:
		return t.RangeStartDate != nil && t.RangeEndDate != nil && *t.RangeEndDate >= *t.RangeStartDate
	case TypeRecurring:
		if t.RecurrenceStartDate == nil || t.RecurrencePattern == PatternNone {
			return false
		}
		if t.RecurrenceEndDate != nil && *t.RecurrenceEndDate < *t.RecurrenceStartDate {
			return false
		}
		return true
	default:
		return false
	}
}

// Normalize sorts and de-duplicates set fields and clears field groups that
// do not belong to the task type.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.TagIDs = uniqueStrings(t.TagIDs)
	t.RecurrenceDaysOfWeek = uniqueInts(t.RecurrenceDaysOfWeek)
	t.RecurrenceSpecificDates = uniqueInt64s(t.RecurrenceSpecificDates)

	if t.Type != TypeDeadline {
		t.DeadlineAt = nil
	}
	if t.Type != TypeScheduled {
		t.ScheduledAt = nil
	}
	if t.Type != TypeDateRange {
		t.RangeStartDate = nil
		t.RangeEndDate = nil
	}
	if t.Type == TypeRecurring {
		// Per-occurrence state lives in instance rows.
		t.IsCompleted = false
		t.PinnedToday = false
		t.PinnedTomorrow = false
		return
	}
	t.ClearRecurrence()
}

// ClearRecurrence removes every recurrence field.
func (t *Task) ClearRecurrence() {
	t.RecurrencePattern = PatternNone
	t.RecurrenceDaysOfWeek = nil
	t.RecurrenceWeekInterval = nil
	t.RecurrenceDayOfMonth = nil
	t.RecurrenceMonth = nil
	t.RecurrenceDayOfYear = nil
	t.RecurrenceSpecificDates = nil
	t.RecurrenceStartDate = nil
	t.RecurrenceEndDate = nil
}

// HasTag reports whether the task carries tag id.
func (t *Task) HasTag(id string) bool {
	for _, tag := range t.TagIDs {
		if tag == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	cp.DeadlineAt = cloneInt64(t.DeadlineAt)
	cp.RangeStartDate = cloneInt64(t.RangeStartDate)
	cp.RangeEndDate = cloneInt64(t.RangeEndDate)
	cp.ScheduledAt = cloneInt64(t.ScheduledAt)
	cp.RecurrenceWeekInterval = cloneInt(t.RecurrenceWeekInterval)
	cp.RecurrenceDayOfMonth = cloneInt(t.RecurrenceDayOfMonth)
	cp.RecurrenceMonth = cloneInt(t.RecurrenceMonth)
	cp.RecurrenceDayOfYear = cloneInt(t.RecurrenceDayOfYear)
	cp.RecurrenceStartDate = cloneInt64(t.RecurrenceStartDate)
	cp.RecurrenceEndDate = cloneInt64(t.RecurrenceEndDate)
	if t.FolderID != nil {
		f := *t.FolderID
		cp.FolderID = &f
	}
	cp.RecurrenceDaysOfWeek = append([]int(nil), t.RecurrenceDaysOfWeek...)
	cp.RecurrenceSpecificDates = append([]int64(nil), t.RecurrenceSpecificDates...)
	cp.TagIDs = append([]string(nil), t.TagIDs...)
	return &cp
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func uniqueInts(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func uniqueInt64s(in []int64) []int64 {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(in))
	out := make([]int64, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
