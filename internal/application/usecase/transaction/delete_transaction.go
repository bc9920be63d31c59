// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	Success bool
}

// DeleteTransactionUseCase handles transaction soft deletion.
type DeleteTransactionUseCase struct {
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(uow adapter.UnitOfWork, maintainer *ledger.Maintainer) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		uow:        uow,
		maintainer: maintainer,
	}
}

// Execute performs the transaction deletion.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		tx, err := lockOwned(ctx, repos, input.TransactionID, input.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		tx.MarkDeleted(now)
		tx.UpdatedAt = now
		if err := save(ctx, repos, tx); err != nil {
			return err
		}

		return uc.maintainer.OnTransactionDeleted(ctx, repos, tx)
	})
	if err != nil {
		return nil, err
	}

	return &DeleteTransactionOutput{
		Success: true,
	}, nil
}
