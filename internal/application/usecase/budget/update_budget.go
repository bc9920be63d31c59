package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// UpdateBudgetInput represents the input for budget update.
type UpdateBudgetInput struct {
	BudgetID   uuid.UUID
	UserID     uuid.UUID
	Amount     *decimal.Decimal // Optional
	CategoryID *uuid.UUID       // Optional
}

// UpdateBudgetOutput represents the output of budget update.
type UpdateBudgetOutput struct {
	Budget *entity.Budget
}

// UpdateBudgetUseCase handles budget update logic.
type UpdateBudgetUseCase struct {
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
}

// NewUpdateBudgetUseCase creates a new UpdateBudgetUseCase instance.
func NewUpdateBudgetUseCase(uow adapter.UnitOfWork, maintainer *ledger.Maintainer) *UpdateBudgetUseCase {
	return &UpdateBudgetUseCase{
		uow:        uow,
		maintainer: maintainer,
	}
}

// Execute performs the budget update.
func (uc *UpdateBudgetUseCase) Execute(ctx context.Context, input UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}

	var result *entity.Budget
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		budget, err := findOwned(ctx, repos, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}

		// Update amount if provided
		if input.Amount != nil {
			budget.Amount = valueobject.RoundMoney(*input.Amount)
		}

		// Move to another category if provided
		categoryChanged := input.CategoryID != nil && *input.CategoryID != budget.CategoryID
		if categoryChanged {
			if _, err := checkCategory(ctx, repos, input.UserID, *input.CategoryID); err != nil {
				return err
			}
			if err := ensureUnique(ctx, repos, input.UserID, *input.CategoryID, budget.Month, budget.Year); err != nil {
				return err
			}
			budget.CategoryID = *input.CategoryID
		}

		budget.UpdatedAt = time.Now().UTC()
		if err := repos.Budgets.Update(ctx, budget); err != nil {
			if errors.Is(err, domainerror.ErrBudgetAlreadyExists) {
				return alreadyExists()
			}
			return fmt.Errorf("failed to update budget: %w", err)
		}

		if categoryChanged {
			spent, err := uc.maintainer.Reconcile(ctx, repos, budget.UserID, budget.CategoryID, budget.Month, budget.Year)
			if err != nil {
				return err
			}
			budget.SpentAmount = spent
		} else if err := uc.maintainer.EnqueueThresholdCheck(ctx, repos, budget.ID); err != nil {
			return err
		}

		result = budget
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateBudgetOutput{
		Budget: result,
	}, nil
}
