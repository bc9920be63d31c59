package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// DeleteBudgetInput represents the input for budget deletion.
type DeleteBudgetInput struct {
	BudgetID uuid.UUID
	UserID   uuid.UUID
}

// DeleteBudgetOutput represents the output of budget deletion.
type DeleteBudgetOutput struct {
	Success bool
}

// DeleteBudgetUseCase soft-deletes a budget, freeing its category and month.
type DeleteBudgetUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteBudgetUseCase creates a new DeleteBudgetUseCase instance.
func NewDeleteBudgetUseCase(uow adapter.UnitOfWork) *DeleteBudgetUseCase {
	return &DeleteBudgetUseCase{uow: uow}
}

// Execute performs the budget deletion.
func (uc *DeleteBudgetUseCase) Execute(ctx context.Context, input DeleteBudgetInput) (*DeleteBudgetOutput, error) {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		budget, err := findOwned(ctx, repos, input.BudgetID, input.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		budget.MarkDeleted(now)
		budget.UpdatedAt = now
		if err := repos.Budgets.Update(ctx, budget); err != nil {
			return fmt.Errorf("failed to delete budget: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteBudgetOutput{
		Success: true,
	}, nil
}
