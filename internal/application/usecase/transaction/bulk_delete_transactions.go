// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// BulkDeleteTransactionsInput represents the input for bulk transaction deletion.
type BulkDeleteTransactionsInput struct {
	TransactionIDs []uuid.UUID
	UserID         uuid.UUID
}

// BulkDeleteTransactionsOutput represents the output of bulk transaction deletion.
type BulkDeleteTransactionsOutput struct {
	DeletedCount int64
}

// BulkDeleteTransactionsUseCase soft-deletes several transactions at once.
// Either every transaction is deleted or none is.
type BulkDeleteTransactionsUseCase struct {
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
}

// NewBulkDeleteTransactionsUseCase creates a new BulkDeleteTransactionsUseCase instance.
func NewBulkDeleteTransactionsUseCase(uow adapter.UnitOfWork, maintainer *ledger.Maintainer) *BulkDeleteTransactionsUseCase {
	return &BulkDeleteTransactionsUseCase{
		uow:        uow,
		maintainer: maintainer,
	}
}

// Execute performs the bulk transaction deletion.
func (uc *BulkDeleteTransactionsUseCase) Execute(ctx context.Context, input BulkDeleteTransactionsInput) (*BulkDeleteTransactionsOutput, error) {
	if len(input.TransactionIDs) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyTransactionIDs,
			"transaction IDs list cannot be empty",
			domainerror.ErrEmptyTransactionIDs,
		)
	}

	var deleted int64
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		seen := make(map[uuid.UUID]bool, len(input.TransactionIDs))
		now := time.Now().UTC()

		for _, id := range input.TransactionIDs {
			if seen[id] {
				continue
			}
			seen[id] = true

			tx, err := lockOwned(ctx, repos, id, input.UserID)
			if err != nil {
				return err
			}

			tx.MarkDeleted(now)
			tx.UpdatedAt = now
			if err := save(ctx, repos, tx); err != nil {
				return err
			}
			if err := uc.maintainer.OnTransactionDeleted(ctx, repos, tx); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BulkDeleteTransactionsOutput{
		DeletedCount: deleted,
	}, nil
}
