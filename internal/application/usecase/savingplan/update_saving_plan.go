package savingplan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// UpdateSavingPlanInput represents the input for saving plan update.
type UpdateSavingPlanInput struct {
	SavingPlanID    uuid.UUID
	UserID          uuid.UUID
	Name            *string                  // Optional
	Amount          *decimal.Decimal         // Optional
	Frequency       *entity.Frequency        // Optional
	Status          *entity.SavingPlanStatus // Optional, ACTIVE or PAUSED
	CurrentDeadline *time.Time               // Optional
}

// UpdateSavingPlanOutput represents the output of saving plan update.
type UpdateSavingPlanOutput struct {
	SavingPlan *entity.SavingPlan
	Progress   Progress
}

// UpdateSavingPlanUseCase handles saving plan update logic.
type UpdateSavingPlanUseCase struct {
	uow       adapter.UnitOfWork
	lifecycle *LifecycleManager
	now       func() time.Time
}

// NewUpdateSavingPlanUseCase creates a new UpdateSavingPlanUseCase instance.
func NewUpdateSavingPlanUseCase(uow adapter.UnitOfWork, lifecycle *LifecycleManager) *UpdateSavingPlanUseCase {
	return &UpdateSavingPlanUseCase{
		uow:       uow,
		lifecycle: lifecycle,
		now:       time.Now,
	}
}

// Execute performs the saving plan update. A new target amount re-runs the
// completion check, which may complete or reopen the plan.
func (uc *UpdateSavingPlanUseCase) Execute(ctx context.Context, input UpdateSavingPlanInput) (*UpdateSavingPlanOutput, error) {
	today := uc.now().UTC()

	var result *entity.SavingPlan
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		plan, err := findOwned(ctx, repos, input.SavingPlanID, input.UserID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name, err := validateName(*input.Name)
			if err != nil {
				return err
			}
			plan.Name = name
		}

		amountChanged := false
		if input.Amount != nil {
			if err := validateAmount(*input.Amount); err != nil {
				return err
			}
			amount := valueobject.RoundMoney(*input.Amount)
			amountChanged = !amount.Equal(plan.Amount)
			plan.Amount = amount
		}

		if input.Frequency != nil {
			if err := validateFrequency(*input.Frequency); err != nil {
				return err
			}
			plan.Frequency = *input.Frequency
		}

		if input.Status != nil {
			if err := applyStatus(plan, *input.Status); err != nil {
				return err
			}
		}

		if input.CurrentDeadline != nil {
			if err := applyDeadline(plan, *input.CurrentDeadline, today); err != nil {
				return err
			}
		}

		plan.UpdatedAt = time.Now().UTC()
		if err := repos.SavingPlans.Update(ctx, plan); err != nil {
			return fmt.Errorf("failed to update saving plan: %w", err)
		}

		if amountChanged {
			checked, err := uc.lifecycle.CheckCompletion(ctx, repos, plan.ID)
			if err != nil {
				return err
			}
			if checked != nil {
				plan = checked
			}
		}

		result = plan
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateSavingPlanOutput{
		SavingPlan: result,
		Progress:   ComputeProgress(result, today),
	}, nil
}

// applyStatus allows pausing and resuming. COMPLETED is only ever set by
// the lifecycle.
func applyStatus(plan *entity.SavingPlan, status entity.SavingPlanStatus) error {
	if status == plan.Status {
		return nil
	}
	if status != entity.SavingPlanStatusActive && status != entity.SavingPlanStatusPaused {
		return domainerror.NewSavingPlanError(
			domainerror.ErrCodeInvalidSavingPlanStatus,
			"status can only be set to 'ACTIVE' or 'PAUSED'",
			domainerror.ErrInvalidSavingPlanStatus,
		)
	}
	if plan.Status == entity.SavingPlanStatusCompleted {
		return domainerror.NewSavingPlanError(
			domainerror.ErrCodeSavingPlanCompleted,
			"cannot change the status of a completed saving plan",
			domainerror.ErrSavingPlanCompleted,
		)
	}
	plan.Status = status
	return nil
}

func applyDeadline(plan *entity.SavingPlan, deadline, today time.Time) error {
	if plan.Status == entity.SavingPlanStatusCompleted {
		return domainerror.NewSavingPlanError(
			domainerror.ErrCodeSavingPlanCompleted,
			"cannot modify the deadline of a completed saving plan",
			domainerror.ErrSavingPlanCompleted,
		)
	}
	if err := validateFutureDeadline(deadline, today); err != nil {
		return err
	}

	deadline = valueobject.StartOfDay(deadline)
	if deadline.Before(plan.OriginalDeadline) {
		return domainerror.NewSavingPlanError(
			domainerror.ErrCodeInvalidSavingPlanDeadline,
			"new deadline cannot be earlier than the original deadline",
			domainerror.ErrInvalidSavingPlanDeadline,
		)
	}
	plan.CurrentDeadline = deadline
	return nil
}
