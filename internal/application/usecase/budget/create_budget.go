package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// CreateBudgetInput represents the input for budget creation.
type CreateBudgetInput struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Month      int
	Year       int
	Amount     decimal.Decimal
}

// CreateBudgetOutput represents the output of budget creation.
type CreateBudgetOutput struct {
	Budget *entity.Budget
}

// CreateBudgetUseCase handles budget creation logic.
type CreateBudgetUseCase struct {
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
}

// NewCreateBudgetUseCase creates a new CreateBudgetUseCase instance.
func NewCreateBudgetUseCase(uow adapter.UnitOfWork, maintainer *ledger.Maintainer) *CreateBudgetUseCase {
	return &CreateBudgetUseCase{
		uow:        uow,
		maintainer: maintainer,
	}
}

// Execute performs the budget creation. The initial spent amount is computed
// from the debits already recorded for the category and month.
func (uc *CreateBudgetUseCase) Execute(ctx context.Context, input CreateBudgetInput) (*CreateBudgetOutput, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validatePeriod(input.Month, input.Year); err != nil {
		return nil, err
	}

	budget := entity.NewBudget(input.UserID, input.CategoryID, input.Month, input.Year, input.Amount)

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if _, err := checkCategory(ctx, repos, input.UserID, input.CategoryID); err != nil {
			return err
		}

		if err := ensureUnique(ctx, repos, input.UserID, input.CategoryID, input.Month, input.Year); err != nil {
			return err
		}

		if err := repos.Budgets.Create(ctx, budget); err != nil {
			if errors.Is(err, domainerror.ErrBudgetAlreadyExists) {
				return alreadyExists()
			}
			return fmt.Errorf("failed to create budget: %w", err)
		}

		spent, err := uc.maintainer.Reconcile(ctx, repos, input.UserID, input.CategoryID, input.Month, input.Year)
		if err != nil {
			return err
		}
		budget.SpentAmount = spent
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateBudgetOutput{
		Budget: budget,
	}, nil
}
