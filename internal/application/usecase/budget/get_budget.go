package budget

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetView is a budget with its derived values.
type BudgetView struct {
	Budget         *entity.Budget
	Remaining      decimal.Decimal
	Overspent      decimal.Decimal
	PercentageUsed int
}

// NewBudgetView derives the presentation values of a budget.
func NewBudgetView(budget *entity.Budget) BudgetView {
	return BudgetView{
		Budget:         budget,
		Remaining:      budget.Remaining(),
		Overspent:      budget.Overspent(),
		PercentageUsed: budget.PercentageUsed(),
	}
}

// GetBudgetInput represents the input for fetching a budget.
type GetBudgetInput struct {
	BudgetID uuid.UUID
	UserID   uuid.UUID
}

// GetBudgetOutput represents the output of fetching a budget.
type GetBudgetOutput struct {
	View BudgetView
}

// GetBudgetUseCase returns one budget with derived values.
type GetBudgetUseCase struct {
	uow adapter.UnitOfWork
}

// NewGetBudgetUseCase creates a new GetBudgetUseCase instance.
func NewGetBudgetUseCase(uow adapter.UnitOfWork) *GetBudgetUseCase {
	return &GetBudgetUseCase{uow: uow}
}

// Execute fetches the budget.
func (uc *GetBudgetUseCase) Execute(ctx context.Context, input GetBudgetInput) (*GetBudgetOutput, error) {
	budget, err := findOwned(ctx, uc.uow.Repositories(), input.BudgetID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetBudgetOutput{View: NewBudgetView(budget)}, nil
}
