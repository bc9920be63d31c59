// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// Pagination limits for transaction listings.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID       uuid.UUID
	CategoryID   *uuid.UUID
	SavingPlanID *uuid.UUID
	Type         *entity.TransactionType
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
	Limit        int
	Offset       int
}

// ListTransactionsUseCase lists a user's active transactions.
type ListTransactionsUseCase struct {
	uow adapter.UnitOfWork
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(uow adapter.UnitOfWork) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{uow: uow}
}

// Execute lists the transactions.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	transactions, err := uc.uow.Repositories().Transactions.List(ctx, adapter.TransactionFilter{
		UserID:       input.UserID,
		CategoryID:   input.CategoryID,
		SavingPlanID: input.SavingPlanID,
		Type:         input.Type,
		From:         input.From,
		To:           input.To,
		State:        adapter.OnlyActive,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsOutput{
		Transactions: transactions,
		Limit:        limit,
		Offset:       offset,
	}, nil
}
