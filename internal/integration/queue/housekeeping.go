package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// Housekeeper recovers abandoned tasks and purges old finished ones.
type Housekeeper struct {
	tasks      adapter.TaskRepository
	staleAfter time.Duration
	retainDays int
	logger     *slog.Logger
}

// NewHousekeeper creates a new Housekeeper. Tasks claimed longer than
// staleAfter ago go back to pending; done tasks older than retainDays are
// deleted.
func NewHousekeeper(tasks adapter.TaskRepository, staleAfter time.Duration, retainDays int, logger *slog.Logger) *Housekeeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Housekeeper{
		tasks:      tasks,
		staleAfter: staleAfter,
		retainDays: retainDays,
		logger:     logger,
	}
}

// Run performs one housekeeping pass.
func (h *Housekeeper) Run(ctx context.Context, now time.Time) error {
	requeued, err := h.tasks.RequeueStale(ctx, now.Add(-h.staleAfter))
	if err != nil {
		return fmt.Errorf("failed to requeue stale tasks: %w", err)
	}

	purged, err := h.tasks.DeleteOldDone(ctx, h.retainDays)
	if err != nil {
		return fmt.Errorf("failed to purge done tasks: %w", err)
	}

	counts, err := h.tasks.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}

	attrs := []any{"requeued", requeued, "purged", purged}
	for status, n := range counts {
		attrs = append(attrs, string(status), n)
	}
	h.logger.Info("Task queue housekeeping finished", attrs...)
	return nil
}
