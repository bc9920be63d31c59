// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// GetTransactionInput represents the input for fetching one transaction.
type GetTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// GetTransactionOutput represents the output of fetching one transaction.
type GetTransactionOutput struct {
	Transaction *entity.Transaction
}

// GetTransactionUseCase returns a single active transaction owned by the user.
type GetTransactionUseCase struct {
	uow adapter.UnitOfWork
}

// NewGetTransactionUseCase creates a new GetTransactionUseCase instance.
func NewGetTransactionUseCase(uow adapter.UnitOfWork) *GetTransactionUseCase {
	return &GetTransactionUseCase{uow: uow}
}

// Execute fetches the transaction.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, input GetTransactionInput) (*GetTransactionOutput, error) {
	tx, err := findOwned(ctx, uc.uow.Repositories(), input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetTransactionOutput{Transaction: tx}, nil
}
