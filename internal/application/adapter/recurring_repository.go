package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// RecurringTransactionRepository defines the interface for recurring definition persistence.
type RecurringTransactionRepository interface {
	Create(ctx context.Context, def *entity.RecurringTransaction) error
	Update(ctx context.Context, def *entity.RecurringTransaction) error
	FindByID(ctx context.Context, id uuid.UUID, state StateFilter) (*entity.RecurringTransaction, error)

	// FindForUpdate reads an active definition holding a row lock until the
	// surrounding transaction ends.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error)

	// ListDue returns active definitions whose next occurrence is at or before now,
	// oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*entity.RecurringTransaction, error)

	ListByUser(ctx context.Context, userID uuid.UUID, state StateFilter) ([]*entity.RecurringTransaction, error)
}
