package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// ListBudgetsInput represents the input for listing budgets.
type ListBudgetsInput struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Month      *int
	Year       *int
}

// ListBudgetsOutput represents the output of listing budgets.
type ListBudgetsOutput struct {
	Budgets []BudgetView
}

// ListBudgetsUseCase lists a user's active budgets.
type ListBudgetsUseCase struct {
	uow adapter.UnitOfWork
}

// NewListBudgetsUseCase creates a new ListBudgetsUseCase instance.
func NewListBudgetsUseCase(uow adapter.UnitOfWork) *ListBudgetsUseCase {
	return &ListBudgetsUseCase{uow: uow}
}

// Execute lists the budgets matching the filters.
func (uc *ListBudgetsUseCase) Execute(ctx context.Context, input ListBudgetsInput) (*ListBudgetsOutput, error) {
	if input.Month != nil && input.Year == nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetMonthRequiresYear,
			"month filter requires year",
			domainerror.ErrInvalidBudgetPeriod,
		)
	}
	if input.Month != nil {
		if err := validatePeriod(*input.Month, *input.Year); err != nil {
			return nil, err
		}
	} else if input.Year != nil {
		if err := validateYear(*input.Year); err != nil {
			return nil, err
		}
	}

	userID := input.UserID
	budgets, err := uc.uow.Repositories().Budgets.List(ctx, adapter.BudgetFilter{
		UserID:     &userID,
		CategoryID: input.CategoryID,
		Month:      input.Month,
		Year:       input.Year,
		State:      adapter.OnlyActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	views := make([]BudgetView, 0, len(budgets))
	for _, budget := range budgets {
		views = append(views, NewBudgetView(budget))
	}

	return &ListBudgetsOutput{
		Budgets: views,
	}, nil
}
