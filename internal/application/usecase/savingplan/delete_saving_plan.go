package savingplan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// DeleteSavingPlanInput represents the input for saving plan deletion.
type DeleteSavingPlanInput struct {
	SavingPlanID uuid.UUID
	UserID       uuid.UUID
}

// DeleteSavingPlanOutput represents the output of saving plan deletion.
type DeleteSavingPlanOutput struct {
	Success bool
}

// DeleteSavingPlanUseCase soft-deletes a saving plan. Recurring definitions
// pointing at it are deactivated by the scheduler on their next run.
type DeleteSavingPlanUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteSavingPlanUseCase creates a new DeleteSavingPlanUseCase instance.
func NewDeleteSavingPlanUseCase(uow adapter.UnitOfWork) *DeleteSavingPlanUseCase {
	return &DeleteSavingPlanUseCase{uow: uow}
}

// Execute performs the deletion.
func (uc *DeleteSavingPlanUseCase) Execute(ctx context.Context, input DeleteSavingPlanInput) (*DeleteSavingPlanOutput, error) {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		plan, err := findOwned(ctx, repos, input.SavingPlanID, input.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		plan.MarkDeleted(now)
		plan.UpdatedAt = now
		if err := repos.SavingPlans.Update(ctx, plan); err != nil {
			return fmt.Errorf("failed to delete saving plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteSavingPlanOutput{
		Success: true,
	}, nil
}
