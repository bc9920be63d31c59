package recurring

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// GetRecurringTransactionInput represents the input for fetching a definition.
type GetRecurringTransactionInput struct {
	RecurringID uuid.UUID
	UserID      uuid.UUID
}

// GetRecurringTransactionOutput represents the output of fetching a definition.
type GetRecurringTransactionOutput struct {
	RecurringTransaction *entity.RecurringTransaction
}

// GetRecurringTransactionUseCase returns one active definition.
type GetRecurringTransactionUseCase struct {
	uow adapter.UnitOfWork
}

// NewGetRecurringTransactionUseCase creates a new GetRecurringTransactionUseCase instance.
func NewGetRecurringTransactionUseCase(uow adapter.UnitOfWork) *GetRecurringTransactionUseCase {
	return &GetRecurringTransactionUseCase{uow: uow}
}

// Execute fetches the definition.
func (uc *GetRecurringTransactionUseCase) Execute(ctx context.Context, input GetRecurringTransactionInput) (*GetRecurringTransactionOutput, error) {
	def, err := findOwned(ctx, uc.uow.Repositories(), input.RecurringID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetRecurringTransactionOutput{RecurringTransaction: def}, nil
}

// ListRecurringTransactionsInput represents the input for listing definitions.
type ListRecurringTransactionsInput struct {
	UserID uuid.UUID
}

// ListRecurringTransactionsOutput represents the output of listing definitions.
type ListRecurringTransactionsOutput struct {
	RecurringTransactions []*entity.RecurringTransaction
}

// ListRecurringTransactionsUseCase lists a user's active definitions.
type ListRecurringTransactionsUseCase struct {
	uow adapter.UnitOfWork
}

// NewListRecurringTransactionsUseCase creates a new ListRecurringTransactionsUseCase instance.
func NewListRecurringTransactionsUseCase(uow adapter.UnitOfWork) *ListRecurringTransactionsUseCase {
	return &ListRecurringTransactionsUseCase{uow: uow}
}

// Execute lists the definitions.
func (uc *ListRecurringTransactionsUseCase) Execute(ctx context.Context, input ListRecurringTransactionsInput) (*ListRecurringTransactionsOutput, error) {
	defs, err := uc.uow.Repositories().Recurring.ListByUser(ctx, input.UserID, adapter.OnlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
	}
	return &ListRecurringTransactionsOutput{RecurringTransactions: defs}, nil
}
