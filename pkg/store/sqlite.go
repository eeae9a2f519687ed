package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/task"
)

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(dsn string) (Persistence, error) {
	if dsn == "" {
		dsn = "dayplan.db"
	}
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   dbLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := db.AutoMigrate(&taskRecord{}, &taskTagRecord{}, &instanceRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate db: %w", err)
	}
	return &database{db: db}, nil
}

// ensureDirForSQLite creates the parent directory of a file DSN.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create db dir %q: %w", dir, err)
	}
	return nil
}

type database struct {
	db *gorm.DB
}

func (d *database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *database) ListTasks(ctx context.Context, f Filter) ([]*task.Task, error) {
	q := d.db.WithContext(ctx).Preload("Tags")
	if f.FolderID != "" {
		q = q.Where("folder_id = ?", f.FolderID)
	}
	if len(f.TagIDs) > 0 {
		tagged := d.db.Model(&taskTagRecord{}).Select("task_id").Where("tag_id IN ?", f.TagIDs)
		q = q.Where("id IN (?)", tagged)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.HideCompleted {
		q = q.Where("is_completed = ?", false)
	}

	var records []taskRecord
	if err := q.Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	tasks := make([]*task.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, fromRecord(&records[i]))
	}
	return tasks, nil
}

func (d *database) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var r taskRecord
	err := d.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get task %s: %w", id, err)
	}
	return fromRecord(&r), nil
}

func (d *database) SaveTask(ctx context.Context, t *task.Task) error {
	if t == nil || t.ID == "" {
		return errors.New("store: task id required")
	}
	r, err := toRecord(t)
	if err != nil {
		return fmt.Errorf("store: save task %s: %w", t.ID, err)
	}
	tags := r.Tags
	r.Tags = nil

	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(r).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", t.ID).Delete(&taskTagRecord{}).Error; err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}
		return tx.Create(&tags).Error
	})
	if err != nil {
		return fmt.Errorf("store: save task %s: %w", t.ID, err)
	}
	return nil
}

func (d *database) DeleteTask(ctx context.Context, id string) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDependents(tx, []string{id}); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&taskRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("store: delete task %s: %w", id, err)
	}
	return err
}

func (d *database) DeleteCompleted(ctx context.Context) ([]string, error) {
	var ids []string
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&taskRecord{}).Where("is_completed = ?", true).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := deleteDependents(tx, ids); err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&taskRecord{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("store: delete completed: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func deleteDependents(tx *gorm.DB, ids []string) error {
	if err := tx.Where("task_id IN ?", ids).Delete(&taskTagRecord{}).Error; err != nil {
		return err
	}
	return tx.Where("parent_id IN ?", ids).Delete(&instanceRecord{}).Error
}

func (d *database) InstanceStates(ctx context.Context, parentIDs []string, from, to int64) (instance.Snapshot, error) {
	snap := make(instance.Snapshot)
	if len(parentIDs) == 0 {
		return snap, nil
	}
	var rows []instanceRecord
	err := d.db.WithContext(ctx).
		Where("parent_id IN ? AND date >= ? AND date <= ?", parentIDs, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: list instance states: %w", err)
	}
	for _, r := range rows {
		snap[r.key()] = r.state()
	}
	return snap, nil
}

func (d *database) InstanceState(ctx context.Context, key instance.Key) (instance.State, bool, error) {
	var r instanceRecord
	err := d.db.WithContext(ctx).Where("parent_id = ? AND date = ?", key.ParentID, key.Date).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return instance.State{}, false, nil
	}
	if err != nil {
		return instance.State{}, false, err
	}
	return r.state(), true, nil
}

// UpsertInstanceState writes the row in a single statement so concurrent
// writers of the same key converge on the last write.
func (d *database) UpsertInstanceState(ctx context.Context, key instance.Key, st instance.State) error {
	r := instanceRecord{
		ParentID:       key.ParentID,
		Date:           key.Date,
		Completed:      st.Completed,
		PinnedToday:    st.PinnedToday,
		PinnedTomorrow: st.PinnedTomorrow,
	}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "parent_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "pinned_today", "pinned_tomorrow"}),
	}).Create(&r).Error
}

func (d *database) DeleteInstanceStates(ctx context.Context, parentID string) error {
	return d.db.WithContext(ctx).Where("parent_id = ?", parentID).Delete(&instanceRecord{}).Error
}
