package savingplan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// GetSavingPlanInput represents the input for fetching a saving plan.
type GetSavingPlanInput struct {
	SavingPlanID uuid.UUID
	UserID       uuid.UUID
}

// GetSavingPlanOutput represents the output of fetching a saving plan.
type GetSavingPlanOutput struct {
	SavingPlan *entity.SavingPlan
	Progress   Progress
}

// GetSavingPlanUseCase returns one plan with its progress.
type GetSavingPlanUseCase struct {
	uow adapter.UnitOfWork
	now func() time.Time
}

// NewGetSavingPlanUseCase creates a new GetSavingPlanUseCase instance.
func NewGetSavingPlanUseCase(uow adapter.UnitOfWork) *GetSavingPlanUseCase {
	return &GetSavingPlanUseCase{
		uow: uow,
		now: time.Now,
	}
}

// Execute fetches the plan.
func (uc *GetSavingPlanUseCase) Execute(ctx context.Context, input GetSavingPlanInput) (*GetSavingPlanOutput, error) {
	plan, err := findOwned(ctx, uc.uow.Repositories(), input.SavingPlanID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetSavingPlanOutput{
		SavingPlan: plan,
		Progress:   ComputeProgress(plan, uc.now().UTC()),
	}, nil
}
