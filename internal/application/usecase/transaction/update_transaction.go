// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// UpdateTransactionInput represents the input for a partial transaction update.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Amount        *decimal.Decimal
	Type          *entity.TransactionType
	TransactionAt *time.Time
	CategoryID    *uuid.UUID
	SavingPlanID  *uuid.UUID
	Description   *string
}

// UpdateTransactionOutput represents the output of a transaction update.
type UpdateTransactionOutput struct {
	Transaction *entity.Transaction
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(uow adapter.UnitOfWork, maintainer *ledger.Maintainer) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		uow:        uow,
		maintainer: maintainer,
	}
}

// Execute performs the transaction update.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	var result *entity.Transaction

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		current, err := lockOwned(ctx, repos, input.TransactionID, input.UserID)
		if err != nil {
			return err
		}
		previous := current.Clone()

		if input.CategoryID != nil && previous.SavingPlanID != nil ||
			input.SavingPlanID != nil && previous.CategoryID != nil {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeTargetKindChanged,
				"a transaction cannot move between a category and a saving plan",
				domainerror.ErrTransactionTargetKindChanged,
			)
		}

		if input.Amount != nil {
			current.Amount = valueobject.RoundMoney(*input.Amount)
		}
		if input.Type != nil {
			current.Type = *input.Type
		}
		if input.TransactionAt != nil {
			current.TransactionAt = input.TransactionAt.UTC()
		}
		if input.CategoryID != nil {
			current.CategoryID = input.CategoryID
		}
		if input.SavingPlanID != nil {
			current.SavingPlanID = input.SavingPlanID
		}
		if input.Description != nil {
			current.Description = strings.TrimSpace(*input.Description)
		}

		if err := validateTransaction(current); err != nil {
			return err
		}

		var categoryChanged, planChanged *uuid.UUID
		if input.CategoryID != nil && (previous.CategoryID == nil || *input.CategoryID != *previous.CategoryID) {
			categoryChanged = input.CategoryID
		}
		if input.SavingPlanID != nil && (previous.SavingPlanID == nil || *input.SavingPlanID != *previous.SavingPlanID) {
			planChanged = input.SavingPlanID
		}
		if err := checkTargets(ctx, repos, input.UserID, categoryChanged, planChanged); err != nil {
			return err
		}

		current.UpdatedAt = time.Now().UTC()
		if err := save(ctx, repos, current); err != nil {
			return err
		}

		if err := uc.maintainer.OnTransactionUpdated(ctx, repos, current, previous); err != nil {
			return err
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateTransactionOutput{
		Transaction: result,
	}, nil
}
