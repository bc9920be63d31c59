package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// taskQueueRepository implements adapter.TaskQueue and adapter.TaskRepository
// on the task_queue outbox table.
type taskQueueRepository struct {
	db *gorm.DB
}

// NewTaskQueue creates the producer side of the outbox. It writes through
// db, so enqueueing inside a unit of work commits with the rest of it.
func NewTaskQueue(db *gorm.DB) adapter.TaskQueue {
	return &taskQueueRepository{db: db}
}

// NewTaskRepository creates the consumer side of the outbox.
func NewTaskRepository(db *gorm.DB) adapter.TaskRepository {
	return &taskQueueRepository{db: db}
}

// Enqueue stores a new pending task.
func (r *taskQueueRepository) Enqueue(ctx context.Context, name string, payload map[string]interface{}, opts adapter.EnqueueOptions) (*entity.Task, error) {
	task := entity.NewTask(name, payload, opts.Delay, opts.MaxRetries, opts.RetryBackoff)

	m, err := model.TaskFromEntity(task)
	if err != nil {
		return nil, domainerror.NewNotificationError(
			domainerror.ErrCodeInvalidTaskPayload,
			fmt.Sprintf("task %s has an unencodable payload", name),
			fmt.Errorf("%w: %w", domainerror.ErrInvalidTaskPayload, err),
		)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, domainerror.NewNotificationError(
			domainerror.ErrCodeTaskEnqueueFailed,
			fmt.Sprintf("failed to enqueue task %s", name),
			fmt.Errorf("%w: %w", domainerror.ErrTaskEnqueueFailed, err),
		)
	}
	return task, nil
}

// ClaimPending moves up to limit due pending tasks to claimAs and returns
// them. Concurrent claimers on PostgreSQL skip each other's rows.
func (r *taskQueueRepository) ClaimPending(ctx context.Context, now time.Time, limit int, claimAs entity.TaskStatus) ([]*entity.Task, error) {
	var models []model.TaskModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(forUpdateSkipLocked).
			Where("status = ? AND scheduled_at <= ?", string(entity.TaskStatusPending), now.UTC()).
			Order("scheduled_at ASC").
			Limit(limit).
			Find(&models)
		if result.Error != nil {
			return result.Error
		}
		if len(models) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(models))
		for i := range models {
			ids[i] = models[i].ID
			models[i].Status = string(claimAs)
		}

		return tx.Model(&model.TaskModel{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     string(claimAs),
				"claimed_at": sql.NullTime{Time: now.UTC(), Valid: true},
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim tasks: %w", err)
	}

	tasks := make([]*entity.Task, len(models))
	for i := range models {
		tasks[i] = models[i].ToEntity()
	}
	return tasks, nil
}

// Update persists the mutable state of a task.
func (r *taskQueueRepository) Update(ctx context.Context, task *entity.Task) error {
	m, err := model.TaskFromEntity(task)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(m).
		Select("status", "attempts", "last_error", "scheduled_at", "processed_at").
		Updates(m).Error
}

// FindByID retrieves a task by its ID.
func (r *taskQueueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var m model.TaskModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTaskNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// RequeueStale returns tasks claimed before cutoff to pending. It recovers
// work from crashed workers and messages lost by the broker.
func (r *taskQueueRepository) RequeueStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("status IN ?", []string{string(entity.TaskStatusProcessing), string(entity.TaskStatusDispatched)}).
		Where("claimed_at < ?", cutoff.UTC()).
		Updates(map[string]interface{}{
			"status":     string(entity.TaskStatusPending),
			"claimed_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteOldDone deletes finished tasks processed more than olderThanDays ago.
func (r *taskQueueRepository) DeleteOldDone(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", string(entity.TaskStatusDone), cutoff).
		Delete(&model.TaskModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByStatus returns the number of tasks in each status.
func (r *taskQueueRepository) CountByStatus(ctx context.Context) (map[entity.TaskStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	result := r.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[entity.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[entity.TaskStatus(row.Status)] = row.Count
	}
	return counts, nil
}
