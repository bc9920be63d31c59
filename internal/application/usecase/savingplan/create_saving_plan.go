package savingplan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateSavingPlanInput represents the input for saving plan creation.
type CreateSavingPlanInput struct {
	UserID    uuid.UUID
	Name      string
	Amount    decimal.Decimal
	Deadline  time.Time
	Frequency entity.Frequency
}

// CreateSavingPlanOutput represents the output of saving plan creation.
type CreateSavingPlanOutput struct {
	SavingPlan *entity.SavingPlan
	Progress   Progress
}

// CreateSavingPlanUseCase handles saving plan creation logic.
type CreateSavingPlanUseCase struct {
	uow adapter.UnitOfWork
	now func() time.Time
}

// NewCreateSavingPlanUseCase creates a new CreateSavingPlanUseCase instance.
func NewCreateSavingPlanUseCase(uow adapter.UnitOfWork) *CreateSavingPlanUseCase {
	return &CreateSavingPlanUseCase{
		uow: uow,
		now: time.Now,
	}
}

// Execute performs the saving plan creation.
func (uc *CreateSavingPlanUseCase) Execute(ctx context.Context, input CreateSavingPlanInput) (*CreateSavingPlanOutput, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateFrequency(input.Frequency); err != nil {
		return nil, err
	}
	today := uc.now().UTC()
	if err := validateFutureDeadline(input.Deadline, today); err != nil {
		return nil, err
	}

	plan := entity.NewSavingPlan(input.UserID, name, input.Amount, input.Deadline, input.Frequency)

	if err := uc.uow.Repositories().SavingPlans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create saving plan: %w", err)
	}

	return &CreateSavingPlanOutput{
		SavingPlan: plan,
		Progress:   ComputeProgress(plan, today),
	}, nil
}
