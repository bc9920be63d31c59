package recurring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// UpdateRecurringTransactionInput represents the input for updating a
// recurring definition. Already materialized transactions are not touched.
type UpdateRecurringTransactionInput struct {
	RecurringID uuid.UUID
	UserID      uuid.UUID
	Amount      *decimal.Decimal // Optional
	Description *string          // Optional
	EndsAt      *time.Time       // Optional
	ClearEndsAt bool
}

// UpdateRecurringTransactionOutput represents the output of the update.
type UpdateRecurringTransactionOutput struct {
	RecurringTransaction *entity.RecurringTransaction
}

// UpdateRecurringTransactionUseCase handles recurring definition updates.
type UpdateRecurringTransactionUseCase struct {
	uow adapter.UnitOfWork
}

// NewUpdateRecurringTransactionUseCase creates a new UpdateRecurringTransactionUseCase instance.
func NewUpdateRecurringTransactionUseCase(uow adapter.UnitOfWork) *UpdateRecurringTransactionUseCase {
	return &UpdateRecurringTransactionUseCase{uow: uow}
}

// Execute performs the update.
func (uc *UpdateRecurringTransactionUseCase) Execute(ctx context.Context, input UpdateRecurringTransactionInput) (*UpdateRecurringTransactionOutput, error) {
	var result *entity.RecurringTransaction

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		def, err := findOwned(ctx, repos, input.RecurringID, input.UserID)
		if err != nil {
			return err
		}

		if input.Amount != nil {
			def.Amount = valueobject.RoundMoney(*input.Amount)
		}
		if input.Description != nil {
			def.Description = strings.TrimSpace(*input.Description)
		}
		switch {
		case input.ClearEndsAt:
			def.EndsAt = nil
		case input.EndsAt != nil:
			endsAt := input.EndsAt.UTC()
			def.EndsAt = &endsAt
		}

		if err := validateDefinition(def); err != nil {
			return err
		}

		def.UpdatedAt = time.Now().UTC()
		if err := repos.Recurring.Update(ctx, def); err != nil {
			return fmt.Errorf("failed to update recurring transaction: %w", err)
		}

		result = def
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateRecurringTransactionOutput{
		RecurringTransaction: result,
	}, nil
}
