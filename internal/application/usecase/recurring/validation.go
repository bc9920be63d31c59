package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed description length.
const MaxDescriptionLength = 255

func validateDefinition(def *entity.RecurringTransaction) error {
	if !def.Amount.IsPositive() {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if !def.Type.IsValid() {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringType,
			"type must be 'CREDIT' or 'DEBIT'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if !def.Frequency.IsValid() {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringFrequency,
			"frequency must be 'DAILY', 'WEEKLY', 'MONTHLY' or 'YEARLY'",
			domainerror.ErrInvalidRecurringFrequency,
		)
	}

	if (def.CategoryID == nil) == (def.SavingPlanID == nil) {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeRecurringTargetRequired,
			"exactly one of category_id or saving_plan_id is required",
			domainerror.ErrTransactionTargetRequired,
		)
	}

	if def.SavingPlanID != nil && def.Type == entity.TransactionTypeDebit {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeRecurringDebitToPlan,
			"saving plan transactions must be CREDIT",
			domainerror.ErrDebitToSavingPlan,
		)
	}

	if len(def.Description) > MaxDescriptionLength {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeMissingRecurringFields,
			fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	return validateWindow(def.StartsAt, def.EndsAt)
}

func validateWindow(startsAt time.Time, endsAt *time.Time) error {
	if endsAt != nil && endsAt.Before(startsAt) {
		return domainerror.NewRecurringError(
			domainerror.ErrCodeInvalidRecurringWindow,
			"ends_at cannot be before starts_at",
			domainerror.ErrInvalidRecurringWindow,
		)
	}
	return nil
}

// checkTargets verifies that the referenced category is active and usable by
// the user, or that the referenced plan is active and belongs to the user.
func checkTargets(ctx context.Context, repos adapter.Repositories, userID uuid.UUID, def *entity.RecurringTransaction) error {
	if def.CategoryID != nil {
		category, err := repos.Categories.FindByID(ctx, *def.CategoryID, adapter.OnlyActive)
		if err != nil {
			if errors.Is(err, domainerror.ErrCategoryNotFound) {
				return domainerror.NewRecurringError(
					domainerror.ErrCodeRecurringTargetNotFound,
					"category not found",
					domainerror.ErrCategoryNotFound,
				)
			}
			return fmt.Errorf("failed to find category: %w", err)
		}
		if !category.IsUsableBy(userID) {
			return domainerror.NewRecurringError(
				domainerror.ErrCodeRecurringTargetNotOwned,
				"category does not belong to user",
				domainerror.ErrNotAuthorizedToModifyCategory,
			)
		}
	}

	if def.SavingPlanID != nil {
		plan, err := repos.SavingPlans.FindByID(ctx, *def.SavingPlanID, adapter.OnlyActive)
		if err != nil {
			if errors.Is(err, domainerror.ErrSavingPlanNotFound) {
				return domainerror.NewRecurringError(
					domainerror.ErrCodeRecurringTargetNotFound,
					"saving plan not found",
					domainerror.ErrSavingPlanNotFound,
				)
			}
			return fmt.Errorf("failed to find saving plan: %w", err)
		}
		if plan.UserID != userID {
			return domainerror.NewRecurringError(
				domainerror.ErrCodeRecurringTargetNotOwned,
				"saving plan does not belong to user",
				domainerror.ErrUnauthorizedSavingPlanAccess,
			)
		}
	}

	return nil
}

// findOwned loads an active definition and checks that the user owns it.
func findOwned(ctx context.Context, repos adapter.Repositories, id, userID uuid.UUID) (*entity.RecurringTransaction, error) {
	def, err := repos.Recurring.FindByID(ctx, id, adapter.OnlyActive)
	if err != nil {
		if errors.Is(err, domainerror.ErrRecurringNotFound) {
			return nil, domainerror.NewRecurringError(
				domainerror.ErrCodeRecurringNotFound,
				"recurring transaction not found",
				domainerror.ErrRecurringNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find recurring transaction: %w", err)
	}

	if def.UserID != userID {
		return nil, domainerror.NewRecurringError(
			domainerror.ErrCodeUnauthorizedRecurringAccess,
			"not authorized to access this recurring transaction",
			domainerror.ErrUnauthorizedRecurringAccess,
		)
	}

	return def, nil
}
