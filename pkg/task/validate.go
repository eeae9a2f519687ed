package task

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("task: invalid definition")

// ValidationError names the offending field of a rejected definition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate rejects definitions that must never be persisted. It is stricter
// than Consistent, which only decides view eligibility.
func (t *Task) Validate() error {
	if t == nil {
		return invalid("task", "missing")
	}
	if t.Title == "" {
		return invalid("title", "required")
	}
	switch t.Type {
	case TypeNone:
	case TypeDeadline:
		if t.DeadlineAt == nil {
			return invalid("deadlineAt", "required for %s tasks", t.Type)
		}
	case TypeScheduled:
		if t.ScheduledAt == nil {
			return invalid("scheduledAt", "required for %s tasks", t.Type)
		}
	case TypeDateRange:
		if t.RangeStartDate == nil || t.RangeEndDate == nil {
			return invalid("rangeStartDate", "start and end required for %s tasks", t.Type)
		}
		if *t.RangeEndDate < *t.RangeStartDate {
			return invalid("rangeEndDate", "ends before it starts")
		}
	case TypeRecurring:
		return t.validateRecurrence()
	default:
		return invalid("taskType", "unknown type %q", t.Type)
	}
	if t.RecurrencePattern != PatternNone {
		return invalid("recurrencePattern", "only recurring tasks repeat")
	}
	return nil
}

func (t *Task) validateRecurrence() error {
	if t.RecurrenceStartDate == nil {
		return invalid("recurrenceStartDate", "required for recurring tasks")
	}
	if t.RecurrenceEndDate != nil && *t.RecurrenceEndDate < *t.RecurrenceStartDate {
		return invalid("recurrenceEndDate", "ends before it starts")
	}
	if t.RecurrenceWeekInterval != nil && *t.RecurrenceWeekInterval < 1 {
		return invalid("recurrenceWeekInterval", "must be at least 1")
	}
	switch t.RecurrencePattern {
	case PatternDaily:
	case PatternWeekly:
		if len(t.RecurrenceDaysOfWeek) == 0 {
			return invalid("recurrenceDaysOfWeek", "at least one weekday required")
		}
		for _, d := range t.RecurrenceDaysOfWeek {
			if d < 0 || d > 6 {
				return invalid("recurrenceDaysOfWeek", "weekday %d out of range 0..6", d)
			}
		}
	case PatternMonthly:
		if t.RecurrenceDayOfMonth == nil || *t.RecurrenceDayOfMonth < 1 || *t.RecurrenceDayOfMonth > 31 {
			return invalid("recurrenceDayOfMonth", "must be 1..31")
		}
	case PatternYearly:
		if t.RecurrenceMonth == nil || *t.RecurrenceMonth < 0 || *t.RecurrenceMonth > 11 {
			return invalid("recurrenceMonth", "must be 0..11")
		}
		if t.RecurrenceDayOfYear == nil || *t.RecurrenceDayOfYear < 1 || *t.RecurrenceDayOfYear > 31 {
			return invalid("recurrenceDayOfYear", "must be 1..31")
		}
	case PatternSpecificDates:
		if len(t.RecurrenceSpecificDates) == 0 {
			return invalid("recurrenceSpecificDates", "at least one date required")
		}
	case PatternNone:
		return invalid("recurrencePattern", "required for recurring tasks")
	default:
		return invalid("recurrencePattern", "unknown pattern %q", t.RecurrencePattern)
	}
	return nil
}
