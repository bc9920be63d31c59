// Package category contains category-related use cases.
package category

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

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
	UserID     uuid.UUID
}

// DeleteCategoryOutput represents the output of category deletion.
type DeleteCategoryOutput struct {
	Success bool
}

// DeleteCategoryUseCase soft-deletes a category. Its transactions and budgets
// are kept; recurring definitions using it are deactivated on their next run.
type DeleteCategoryUseCase struct {
	uow adapter.UnitOfWork
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(uow adapter.UnitOfWork) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{uow: uow}
}

// Execute performs the category deletion.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		category, err := findOwned(ctx, repos, input.CategoryID, input.UserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		category.MarkDeleted(now)
		category.UpdatedAt = now
		if err := repos.Categories.Update(ctx, category); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DeleteCategoryOutput{
		Success: true,
	}, nil
}

// findOwned loads an active category and checks that the user owns it.
func findOwned(ctx context.Context, repos adapter.Repositories, id, userID uuid.UUID) (*entity.Category, error) {
	category, err := repos.Categories.FindByID(ctx, id, adapter.OnlyActive)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if !category.IsOwnedBy(userID) {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeNotAuthorizedCategory,
			"not authorized to modify this category",
			domainerror.ErrNotAuthorizedToModifyCategory,
		)
	}

	return category, nil
}
