package savingplan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// SavingPlanItem is a listed plan with its progress.
type SavingPlanItem struct {
	SavingPlan *entity.SavingPlan
	Progress   Progress
}

// ListSavingPlansInput represents the input for listing saving plans.
type ListSavingPlansInput struct {
	UserID uuid.UUID
	Status *entity.SavingPlanStatus // Optional
}

// ListSavingPlansOutput represents the output of listing saving plans.
type ListSavingPlansOutput struct {
	SavingPlans []SavingPlanItem
}

// ListSavingPlansUseCase lists a user's active saving plans.
type ListSavingPlansUseCase struct {
	uow adapter.UnitOfWork
	now func() time.Time
}

// NewListSavingPlansUseCase creates a new ListSavingPlansUseCase instance.
func NewListSavingPlansUseCase(uow adapter.UnitOfWork) *ListSavingPlansUseCase {
	return &ListSavingPlansUseCase{
		uow: uow,
		now: time.Now,
	}
}

// Execute lists the plans.
func (uc *ListSavingPlansUseCase) Execute(ctx context.Context, input ListSavingPlansInput) (*ListSavingPlansOutput, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, domainerror.NewSavingPlanError(
			domainerror.ErrCodeInvalidSavingPlanStatus,
			"status must be 'ACTIVE', 'COMPLETED' or 'PAUSED'",
			domainerror.ErrInvalidSavingPlanStatus,
		)
	}

	userID := input.UserID
	plans, err := uc.uow.Repositories().SavingPlans.List(ctx, adapter.SavingPlanFilter{
		UserID: &userID,
		Status: input.Status,
		State:  adapter.OnlyActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saving plans: %w", err)
	}

	today := uc.now().UTC()
	items := make([]SavingPlanItem, 0, len(plans))
	for _, plan := range plans {
		items = append(items, SavingPlanItem{
			SavingPlan: plan,
			Progress:   ComputeProgress(plan, today),
		})
	}

	return &ListSavingPlansOutput{
		SavingPlans: items,
	}, nil
}
