package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// EnqueueOptions controls when and how often a task is attempted.
// Zero values fall back to the entity defaults.
type EnqueueOptions struct {
	Delay        time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// TaskQueue accepts background work. Enqueued tasks commit or roll back with
// the surrounding unit of work.
type TaskQueue interface {
	Enqueue(ctx context.Context, name string, payload map[string]interface{}, opts EnqueueOptions) (*entity.Task, error)
}

// TaskRepository is the worker-side view of the task outbox.
type TaskRepository interface {
	// ClaimPending atomically moves up to limit due pending tasks to the
	// given status and returns them.
	ClaimPending(ctx context.Context, now time.Time, limit int, claimAs entity.TaskStatus) ([]*entity.Task, error)

	Update(ctx context.Context, task *entity.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)

	// RequeueStale returns tasks stuck in a claimed status since before cutoff
	// to pending.
	RequeueStale(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldDone removes finished tasks processed more than olderThanDays ago.
	DeleteOldDone(ctx context.Context, olderThanDays int) (int64, error)

	// CountByStatus reports queue depth per status.
	CountByStatus(ctx context.Context) (map[entity.TaskStatus]int64, error)
}

// TaskHandler executes one task. Returning an error schedules a retry unless
// the error is permanent.
type TaskHandler interface {
	Handle(ctx context.Context, task *entity.Task) error
}

// TaskHandlerFunc adapts a function to TaskHandler.
type TaskHandlerFunc func(ctx context.Context, task *entity.Task) error

// Handle calls f.
func (f TaskHandlerFunc) Handle(ctx context.Context, task *entity.Task) error {
	return f(ctx, task)
}
