// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	UserID       uuid.UUID
	CategoryID   *uuid.UUID
	SavingPlanID *uuid.UUID
	Type         *entity.TransactionType
	From         *time.Time // inclusive
	To           *time.Time // exclusive
	State        StateFilter
	Limit        int
	Offset       int
}

// TransactionRepository defines the interface for ledger persistence.
type TransactionRepository interface {
	// Create inserts a new transaction.
	Create(ctx context.Context, tx *entity.Transaction) error

	// Update saves all fields of an existing transaction, including its state.
	// It returns ErrTransactionNotFound when the stored row is no longer active.
	Update(ctx context.Context, tx *entity.Transaction) error

	// FindByID retrieves a transaction by ID.
	FindByID(ctx context.Context, id uuid.UUID, state StateFilter) (*entity.Transaction, error)

	// FindForUpdate retrieves an active transaction and holds a row lock on it
	// for the rest of the unit of work.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// List returns transactions matching the filter, newest first.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)

	// SumDebitsForCategory sums active DEBIT amounts of a user's category in [from, to).
	SumDebitsForCategory(ctx context.Context, userID, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// SumForSavingPlan sums active transaction amounts referencing the plan.
	// A nil bound leaves that side of the window open.
	SumForSavingPlan(ctx context.Context, savingPlanID uuid.UUID, from, to *time.Time) (decimal.Decimal, error)
}
