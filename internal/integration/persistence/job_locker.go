package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// jobLocker implements adapter.Locker with rows of the job_locks table, so
// locks survive restarts and are shared by every worker on the database.
type jobLocker struct {
	db  *gorm.DB
	now func() time.Time
}

// NewJobLocker creates a database-backed locker.
func NewJobLocker(db *gorm.DB) adapter.Locker {
	return &jobLocker{
		db:  db,
		now: time.Now,
	}
}

// TryLock inserts the lock row for key. Expired rows, for any key, are
// removed first.
func (l *jobLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	now := l.now().UTC()
	token := uuid.NewString()

	var acquired bool
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expires_at <= ?", now).Delete(&model.JobLockModel{}).Error; err != nil {
			return err
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.JobLockModel{
			Name:      key,
			Token:     token,
			ExpiresAt: now.Add(ttl),
		})
		if result.Error != nil {
			return result.Error
		}
		acquired = result.RowsAffected == 1
		return nil
	})
	if err != nil {
		return func() {}, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !acquired {
		return func() {}, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := l.db.WithContext(releaseCtx).
			Where("name = ? AND token = ?", key, token).
			Delete(&model.JobLockModel{}).Error
		if err != nil {
			slog.Warn("Failed to release job lock", "lock", key, "error", err)
		}
	}
	return release, true, nil
}
