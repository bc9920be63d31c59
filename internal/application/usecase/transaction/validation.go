// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed description length.
const MaxDescriptionLength = 255

// validateTransaction checks the business rules that do not need storage.
func validateTransaction(tx *entity.Transaction) error {
	if !tx.Amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if !tx.Type.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"type must be 'CREDIT' or 'DEBIT'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if (tx.CategoryID == nil) == (tx.SavingPlanID == nil) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionTargetRequired,
			"exactly one of category_id or saving_plan_id is required",
			domainerror.ErrTransactionTargetRequired,
		)
	}

	if tx.SavingPlanID != nil && tx.Type == entity.TransactionTypeDebit {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDebitToSavingPlan,
			"saving plan transactions must be CREDIT",
			domainerror.ErrDebitToSavingPlan,
		)
	}

	if len(tx.Description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	return nil
}

// checkTargets verifies that the referenced category is active and usable by
// the user, or that the referenced plan is active and belongs to the user.
func checkTargets(ctx context.Context, repos adapter.Repositories, userID uuid.UUID, categoryID, planID *uuid.UUID) error {
	if categoryID != nil {
		category, err := repos.Categories.FindByID(ctx, *categoryID, adapter.OnlyActive)
		if err != nil {
			if errors.Is(err, domainerror.ErrCategoryNotFound) {
				return domainerror.NewTransactionError(
					domainerror.ErrCodeTxnCategoryNotFound,
					"category not found",
					domainerror.ErrCategoryNotFound,
				)
			}
			return fmt.Errorf("failed to find category: %w", err)
		}
		if !category.IsUsableBy(userID) {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeTxnCategoryNotOwned,
				"category does not belong to user",
				domainerror.ErrNotAuthorizedToModifyCategory,
			)
		}
	}

	if planID != nil {
		plan, err := repos.SavingPlans.FindByID(ctx, *planID, adapter.OnlyActive)
		if err != nil {
			if errors.Is(err, domainerror.ErrSavingPlanNotFound) {
				return domainerror.NewTransactionError(
					domainerror.ErrCodeTxnSavingPlanNotFound,
					"saving plan not found",
					domainerror.ErrSavingPlanNotFound,
				)
			}
			return fmt.Errorf("failed to find saving plan: %w", err)
		}
		if plan.UserID != userID {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeTxnSavingPlanNotOwned,
				"saving plan does not belong to user",
				domainerror.ErrUnauthorizedSavingPlanAccess,
			)
		}
	}

	return nil
}

// findOwned loads an active transaction and checks that the user owns it.
func findOwned(ctx context.Context, repos adapter.Repositories, id, userID uuid.UUID) (*entity.Transaction, error) {
	tx, err := repos.Transactions.FindByID(ctx, id, adapter.OnlyActive)
	return checkOwner(tx, err, userID)
}

// lockOwned is findOwned for writers. The row stays locked until the unit of
// work ends, so concurrent edits of one transaction apply in turn.
func lockOwned(ctx context.Context, repos adapter.Repositories, id, userID uuid.UUID) (*entity.Transaction, error) {
	tx, err := repos.Transactions.FindForUpdate(ctx, id)
	return checkOwner(tx, err, userID)
}

func checkOwner(tx *entity.Transaction, err error, userID uuid.UUID) (*entity.Transaction, error) {
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, transactionNotFound()
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if tx.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	return tx, nil
}

// save writes tx back. A row deleted since it was read reports not found.
func save(ctx context.Context, repos adapter.Repositories, tx *entity.Transaction) error {
	if err := repos.Transactions.Update(ctx, tx); err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return transactionNotFound()
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func transactionNotFound() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTransactionNotFound,
		"transaction not found",
		domainerror.ErrTransactionNotFound,
	)
}
