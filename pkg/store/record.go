package store

import (
	"encoding/json"
	"fmt"
	"os"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/task"
)

// taskRecord is the row of a task definition. Set fields are stored as JSON
// text columns.
type taskRecord struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	TaskType    string `gorm:"index"`

	DeadlineAt     *int64
	RangeStartDate *int64
	RangeEndDate   *int64
	ScheduledAt    *int64

	RecurrencePattern       string
	RecurrenceDaysOfWeek    string
	RecurrenceWeekInterval  *int
	RecurrenceDayOfMonth    *int
	RecurrenceMonth         *int
	RecurrenceDayOfYear     *int
	RecurrenceSpecificDates string
	RecurrenceStartDate     *int64
	RecurrenceEndDate       *int64

	IsCompleted    bool `gorm:"index"`
	PinnedToday    bool
	PinnedTomorrow bool
	FolderID       *string `gorm:"index"`

	CreatedAt int64 `gorm:"autoCreateTime:false"`
	UpdatedAt int64 `gorm:"autoUpdateTime:false"`

	Tags []taskTagRecord `gorm:"foreignKey:TaskID;references:ID"`
}

func (taskRecord) TableName() string { return "tasks" }

type taskTagRecord struct {
	TaskID string `gorm:"primaryKey"`
	TagID  string `gorm:"primaryKey;index"`
}

func (taskTagRecord) TableName() string { return "task_tags" }

// instanceRecord is one occurrence overlay, keyed by parent and local midnight.
type instanceRecord struct {
	ParentID       string `gorm:"primaryKey"`
	Date           int64  `gorm:"primaryKey;autoIncrement:false"`
	Completed      bool
	PinnedToday    bool
	PinnedTomorrow bool
}

func (instanceRecord) TableName() string { return "instance_states" }

func (r instanceRecord) key() instance.Key {
	return instance.Key{ParentID: r.ParentID, Date: r.Date}
}

func (r instanceRecord) state() instance.State {
	return instance.State{Completed: r.Completed, PinnedToday: r.PinnedToday, PinnedTomorrow: r.PinnedTomorrow}
}

func toRecord(t *task.Task) (*taskRecord, error) {
	days, err := encodeSet(t.RecurrenceDaysOfWeek)
	if err != nil {
		return nil, fmt.Errorf("encode days of week: %w", err)
	}
	dates, err := encodeSet(t.RecurrenceSpecificDates)
	if err != nil {
		return nil, fmt.Errorf("encode specific dates: %w", err)
	}
	r := &taskRecord{
		ID:                      t.ID,
		Title:                   t.Title,
		Description:             t.Description,
		TaskType:                string(t.Type),
		DeadlineAt:              t.DeadlineAt,
		RangeStartDate:          t.RangeStartDate,
		RangeEndDate:            t.RangeEndDate,
		ScheduledAt:             t.ScheduledAt,
		RecurrencePattern:       string(t.RecurrencePattern),
		RecurrenceDaysOfWeek:    days,
		RecurrenceWeekInterval:  t.RecurrenceWeekInterval,
		RecurrenceDayOfMonth:    t.RecurrenceDayOfMonth,
		RecurrenceMonth:         t.RecurrenceMonth,
		RecurrenceDayOfYear:     t.RecurrenceDayOfYear,
		RecurrenceSpecificDates: dates,
		RecurrenceStartDate:     t.RecurrenceStartDate,
		RecurrenceEndDate:       t.RecurrenceEndDate,
		IsCompleted:             t.IsCompleted,
		PinnedToday:             t.PinnedToday,
		PinnedTomorrow:          t.PinnedTomorrow,
		FolderID:                t.FolderID,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
	}
	for _, tag := range t.TagIDs {
		r.Tags = append(r.Tags, taskTagRecord{TaskID: t.ID, TagID: tag})
	}
	return r, nil
}

// fromRecord never fails: malformed set columns are reported and dropped so
// the task still reaches the classifier, which treats it as inconsistent.
func fromRecord(r *taskRecord) *task.Task {
	t := &task.Task{
		ID:                     r.ID,
		Title:                  r.Title,
		Description:            r.Description,
		Type:                   task.Type(r.TaskType),
		DeadlineAt:             r.DeadlineAt,
		RangeStartDate:         r.RangeStartDate,
		RangeEndDate:           r.RangeEndDate,
		ScheduledAt:            r.ScheduledAt,
		RecurrencePattern:      task.Pattern(r.RecurrencePattern),
		RecurrenceWeekInterval: r.RecurrenceWeekInterval,
		RecurrenceDayOfMonth:   r.RecurrenceDayOfMonth,
		RecurrenceMonth:        r.RecurrenceMonth,
		RecurrenceDayOfYear:    r.RecurrenceDayOfYear,
		RecurrenceStartDate:    r.RecurrenceStartDate,
		RecurrenceEndDate:      r.RecurrenceEndDate,
		IsCompleted:            r.IsCompleted,
		PinnedToday:            r.PinnedToday,
		PinnedTomorrow:         r.PinnedTomorrow,
		FolderID:               r.FolderID,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	if err := decodeSet(r.RecurrenceDaysOfWeek, &t.RecurrenceDaysOfWeek); err != nil {
		fmt.Fprintf(os.Stderr, "store: task %s: days of week: %s\n", r.ID, err)
	}
	if err := decodeSet(r.RecurrenceSpecificDates, &t.RecurrenceSpecificDates); err != nil {
		fmt.Fprintf(os.Stderr, "store: task %s: specific dates: %s\n", r.ID, err)
	}
	for _, tag := range r.Tags {
		t.TagIDs = append(t.TagIDs, tag.TagID)
	}
	return t
}

func encodeSet[T any](v []T) (string, error) {
	if len(v) == 0 {
		return "", nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func decodeSet[T any](raw string, into *[]T) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), into)
}
