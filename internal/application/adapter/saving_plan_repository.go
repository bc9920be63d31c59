package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// SavingPlanFilter narrows a saving plan listing.
type SavingPlanFilter struct {
	UserID            *uuid.UUID
	Status            *entity.SavingPlanStatus
	DeadlineBefore    *time.Time
	DeadlineOnOrAfter *time.Time
	State             StateFilter
}

// SavingPlanRepository defines the interface for saving plan persistence.
type SavingPlanRepository interface {
	Create(ctx context.Context, plan *entity.SavingPlan) error

	// Update saves every field except saved_amount, which only changes through
	// AdjustSaved and SetSaved.
	Update(ctx context.Context, plan *entity.SavingPlan) error

	FindByID(ctx context.Context, id uuid.UUID, state StateFilter) (*entity.SavingPlan, error)

	// FindForUpdate reads an active plan holding a row lock until the
	// surrounding transaction ends.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.SavingPlan, error)

	List(ctx context.Context, filter SavingPlanFilter) ([]*entity.SavingPlan, error)

	// AdjustSaved atomically adds delta to saved_amount.
	AdjustSaved(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// SetSaved overwrites saved_amount with a recomputed value.
	SetSaved(ctx context.Context, id uuid.UUID, saved decimal.Decimal) error
}
