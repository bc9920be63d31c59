// Package jobs runs the worker's periodic maintenance passes.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// Job is a named pass that runs every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, now time.Time) error
}

// Runner executes jobs under a cluster-wide lock. Each pass also claims its
// interval slot (the UTC window now.Truncate(Interval)), so a daily job runs
// once per UTC day however many workers tick or restart during it.
type Runner struct {
	locker  adapter.Locker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewRunner creates a new Runner.
func NewRunner(locker adapter.Locker, lockTTL time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		locker:  locker,
		lockTTL: lockTTL,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start runs job immediately and then on every tick until ctx is cancelled.
func (r *Runner) Start(ctx context.Context, job Job) error {
	r.logger.Info("Periodic job started", "job", job.Name, "interval", job.Interval)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	r.RunOnce(ctx, job)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Periodic job shutting down", "job", job.Name)
			return nil
		case <-ticker.C:
			r.RunOnce(ctx, job)
		}
	}
}

// RunOnce runs job unless another worker is running it or its current slot
// has already been done. It reports whether the job ran. Job errors are
// logged, never returned; a failed pass gives its slot back for a retry on
// the next tick.
func (r *Runner) RunOnce(ctx context.Context, job Job) bool {
	logger := r.logger.With("job", job.Name)

	release, acquired, err := r.locker.TryLock(ctx, "job:"+job.Name, r.lockTTL)
	if err != nil {
		logger.Error("Failed to acquire job lock", "error", err)
		return false
	}
	if !acquired {
		logger.Debug("Job is running elsewhere, skipping")
		return false
	}
	defer release()

	now := r.now()
	releaseSlot := func() {}
	if job.Interval > 0 {
		slot := now.Truncate(job.Interval)
		key := fmt.Sprintf("job:%s:%s", job.Name, slot.Format(time.RFC3339Nano))
		releaseSlot, acquired, err = r.locker.TryLock(ctx, key, slot.Add(job.Interval).Sub(now))
		if err != nil {
			logger.Error("Failed to claim job slot", "error", err)
			return false
		}
		if !acquired {
			logger.Debug("Job already ran in this interval, skipping", "slot", slot)
			return false
		}
	}

	started := time.Now()
	if err := job.Run(ctx, now); err != nil {
		releaseSlot()
		logger.Error("Job failed", "error", err, "duration", time.Since(started))
		return true
	}
	logger.Debug("Job finished", "duration", time.Since(started))
	return true
}
