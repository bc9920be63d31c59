package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetFilter narrows a budget listing. A nil UserID lists every user's budgets.
type BudgetFilter struct {
	UserID     *uuid.UUID
	CategoryID *uuid.UUID
	Month      *int
	Year       *int
	State      StateFilter
}

// BudgetRepository defines the interface for budget persistence.
type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.Budget) error

	// Update saves the descriptive fields and the lifecycle state. The spent
	// amount is only changed through AdjustSpent and SetSpent.
	Update(ctx context.Context, budget *entity.Budget) error

	FindByID(ctx context.Context, id uuid.UUID, state StateFilter) (*entity.Budget, error)

	// FindForUpdate reads an active budget holding a row lock until the
	// surrounding transaction ends.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// FindByPeriod returns the active budget of a category and month, or nil.
	FindByPeriod(ctx context.Context, userID, categoryID uuid.UUID, month, year int) (*entity.Budget, error)

	List(ctx context.Context, filter BudgetFilter) ([]*entity.Budget, error)

	// AdjustSpent atomically adds delta to spent_amount.
	AdjustSpent(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// SetSpent overwrites spent_amount with a recomputed value.
	SetSpent(ctx context.Context, id uuid.UUID, spent decimal.Decimal) error

	// SaveThresholdFlags persists the notification flags only.
	SaveThresholdFlags(ctx context.Context, budget *entity.Budget) error
}
