// Package budget contains budget-related use cases.
package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Valid range for budget years.
const (
	MinBudgetYear = 2000
	MaxBudgetYear = 2100
)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidBudgetAmount,
		)
	}
	return nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetPeriod,
			"month must be between 1 and 12",
			domainerror.ErrInvalidBudgetPeriod,
		)
	}
	return validateYear(year)
}

func validateYear(year int) error {
	if year < MinBudgetYear || year > MaxBudgetYear {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetPeriod,
			fmt.Sprintf("year must be between %d and %d", MinBudgetYear, MaxBudgetYear),
			domainerror.ErrInvalidBudgetPeriod,
		)
	}
	return nil
}

// checkCategory verifies the category is active and usable by the user.
func checkCategory(ctx context.Context, repos adapter.Repositories, userID, categoryID uuid.UUID) (*entity.Category, error) {
	category, err := repos.Categories.FindByID(ctx, categoryID, adapter.OnlyActive)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if !category.IsUsableBy(userID) {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetCategoryNotOwned,
			"category does not belong to user",
			domainerror.ErrNotAuthorizedToModifyCategory,
		)
	}

	return category, nil
}

// ensureUnique rejects a second active budget for the same scope.
func ensureUnique(ctx context.Context, repos adapter.Repositories, userID, categoryID uuid.UUID, month, year int) error {
	existing, err := repos.Budgets.FindByPeriod(ctx, userID, categoryID, month, year)
	if err != nil {
		return fmt.Errorf("failed to check budget existence: %w", err)
	}
	if existing != nil {
		return alreadyExists()
	}
	return nil
}

func alreadyExists() error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeBudgetAlreadyExists,
		"a budget already exists for this category and month",
		domainerror.ErrBudgetAlreadyExists,
	)
}

// findOwned loads an active budget and checks that the user owns it.
func findOwned(ctx context.Context, repos adapter.Repositories, id, userID uuid.UUID) (*entity.Budget, error) {
	budget, err := repos.Budgets.FindByID(ctx, id, adapter.OnlyActive)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetNotFound,
				"budget not found",
				domainerror.ErrBudgetNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}

	if budget.UserID != userID {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeUnauthorizedBudgetAccess,
			"not authorized to access this budget",
			domainerror.ErrUnauthorizedBudgetAccess,
		)
	}

	return budget, nil
}
