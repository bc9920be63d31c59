package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// Worker polls the task table and executes due tasks in process.
type Worker struct {
	tasks        adapter.TaskRepository
	executor     *Executor
	pollInterval time.Duration
	batchSize    int
	logger       *slog.Logger
	now          func() time.Time
}

// WorkerConfig holds configuration for the task worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// NewWorker creates a new task worker.
func NewWorker(tasks adapter.TaskRepository, executor *Executor, config WorkerConfig, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &Worker{
		tasks:        tasks,
		executor:     executor,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to decide which tasks are due.
func (w *Worker) WithClock(now func() time.Time) *Worker {
	w.now = now
	return w
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Task worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start, then on ticker
	w.ProcessNow(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Task worker shutting down")
			return nil
		case <-ticker.C:
			w.ProcessNow(ctx)
		}
	}
}

// ProcessNow claims and executes one batch of due tasks. It returns the
// number of tasks executed.
func (w *Worker) ProcessNow(ctx context.Context) int {
	tasks, err := w.tasks.ClaimPending(ctx, w.now(), w.batchSize, entity.TaskStatusProcessing)
	if err != nil {
		w.logger.Error("Failed to claim pending tasks", "error", err)
		return 0
	}
	if len(tasks) == 0 {
		return 0
	}

	w.logger.Debug("Processing task batch", "count", len(tasks))

	processed := 0
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			return processed
		default:
		}
		if err := w.executor.Execute(ctx, task); err != nil {
			w.logger.Error("Failed to execute task", "task_id", task.ID, "error", err)
			continue
		}
		processed++
	}
	return processed
}

// Drain processes batches until no due task is left or ctx ends.
func (w *Worker) Drain(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		n := w.ProcessNow(ctx)
		if n == 0 {
			return total
		}
		total += n
	}
	return total
}
