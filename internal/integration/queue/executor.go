// Package queue executes outbox tasks, either by polling the task table or
// through an AMQP broker.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Executor runs tasks through the handler registered for their name and
// records the outcome on the task row.
type Executor struct {
	tasks    adapter.TaskRepository
	handlers map[string]adapter.TaskHandler
	logger   *slog.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(tasks adapter.TaskRepository, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		tasks:    tasks,
		handlers: make(map[string]adapter.TaskHandler),
		logger:   logger,
	}
}

// Register binds a handler to a task name.
func (e *Executor) Register(name string, handler adapter.TaskHandler) {
	e.handlers[name] = handler
}

// Execute runs a single task and persists its new state. The returned error
// is only non-nil when the state could not be saved.
func (e *Executor) Execute(ctx context.Context, task *entity.Task) error {
	logger := e.logger.With(
		"task_id", task.ID,
		"task", task.Name,
		"attempt", task.Attempts+1,
	)

	started := time.Now()
	err := e.run(ctx, task)
	if err == nil {
		task.MarkDone()
		if updateErr := e.tasks.Update(ctx, task); updateErr != nil {
			return fmt.Errorf("failed to mark task done: %w", updateErr)
		}
		logger.Info("Task completed", "duration", time.Since(started))
		return nil
	}

	permanent := domainerror.IsPermanentFailure(err)
	task.MarkFailed(err, permanent)
	if updateErr := e.tasks.Update(ctx, task); updateErr != nil {
		return fmt.Errorf("failed to record task failure: %w", updateErr)
	}

	if task.Status == entity.TaskStatusFailed {
		logger.Warn("Task permanently failed",
			"attempts", task.Attempts,
			"last_error", task.LastError,
			"permanent", permanent,
		)
	} else {
		logger.Info("Task scheduled for retry",
			"error", err,
			"attempts", task.Attempts,
			"scheduled_at", task.ScheduledAt,
		)
	}
	return nil
}

func (e *Executor) run(ctx context.Context, task *entity.Task) (err error) {
	handler, ok := e.handlers[task.Name]
	if !ok {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeUnknownTask,
			"no handler for task "+task.Name,
			domainerror.ErrUnknownTask,
		)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, task)
}
