package recurring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateRecurringTransactionInput represents the input for creating a
// recurring definition.
type CreateRecurringTransactionInput struct {
	UserID       uuid.UUID
	Amount       decimal.Decimal
	Type         entity.TransactionType
	Frequency    entity.Frequency
	StartsAt     time.Time
	EndsAt       *time.Time // Optional
	Description  string
	CategoryID   *uuid.UUID
	SavingPlanID *uuid.UUID
}

// CreateRecurringTransactionOutput represents the output of creating a
// recurring definition.
type CreateRecurringTransactionOutput struct {
	RecurringTransaction *entity.RecurringTransaction
}

// CreateRecurringTransactionUseCase handles recurring definition creation.
type CreateRecurringTransactionUseCase struct {
	uow adapter.UnitOfWork
}

// NewCreateRecurringTransactionUseCase creates a new CreateRecurringTransactionUseCase instance.
func NewCreateRecurringTransactionUseCase(uow adapter.UnitOfWork) *CreateRecurringTransactionUseCase {
	return &CreateRecurringTransactionUseCase{uow: uow}
}

// Execute performs the creation. The first occurrence is StartsAt.
func (uc *CreateRecurringTransactionUseCase) Execute(ctx context.Context, input CreateRecurringTransactionInput) (*CreateRecurringTransactionOutput, error) {
	def := entity.NewRecurringTransaction(
		input.UserID,
		input.Amount,
		input.Type,
		input.Frequency,
		input.StartsAt,
		strings.TrimSpace(input.Description),
	)
	def.CategoryID = input.CategoryID
	def.SavingPlanID = input.SavingPlanID
	if input.EndsAt != nil {
		endsAt := input.EndsAt.UTC()
		def.EndsAt = &endsAt
	}

	if err := validateDefinition(def); err != nil {
		return nil, err
	}

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if err := checkTargets(ctx, repos, input.UserID, def); err != nil {
			return err
		}
		if err := repos.Recurring.Create(ctx, def); err != nil {
			return fmt.Errorf("failed to create recurring transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateRecurringTransactionOutput{
		RecurringTransaction: def,
	}, nil
}
