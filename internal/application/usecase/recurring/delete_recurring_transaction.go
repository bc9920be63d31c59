package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// DeleteRecurringTransactionInput represents the input for deleting a
// recurring definition.
type DeleteRecurringTransactionInput struct {
	RecurringID uuid.UUID
	UserID      uuid.UUID
}

// DeleteRecurringTransactionOutput represents the output of the deletion.
type DeleteRecurringTransactionOutput struct {
	Success bool
}

// DeleteRecurringTransactionUseCase soft-deletes a recurring definition.
// Transactions it already produced stay in the ledger.
type DeleteRecurringTransactionUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteRecurringTransactionUseCase creates a new DeleteRecurringTransactionUseCase instance.
func NewDeleteRecurringTransactionUseCase(uow adapter.UnitOfWork) *DeleteRecurringTransactionUseCase {
	return &DeleteRecurringTransactionUseCase{uow: uow}
}

// Execute performs the deletion.
func (uc *DeleteRecurringTransactionUseCase) Execute(ctx context.Context, input DeleteRecurringTransactionInput) (*DeleteRecurringTransactionOutput, error) {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		def, err := findOwned(ctx, repos, input.RecurringID, input.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		def.MarkDeleted(now)
		def.UpdatedAt = now
		if err := repos.Recurring.Update(ctx, def); err != nil {
			return fmt.Errorf("failed to delete recurring transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteRecurringTransactionOutput{
		Success: true,
	}, nil
}
