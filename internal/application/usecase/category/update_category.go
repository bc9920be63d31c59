// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// UpdateCategoryInput represents the input for category update.
type UpdateCategoryInput struct {
	CategoryID uuid.UUID
	UserID     uuid.UUID
	Name       *string // Optional
	Color      *string // Optional
}

// UpdateCategoryOutput represents the output of category update.
type UpdateCategoryOutput struct {
	Category *entity.Category
}

// UpdateCategoryUseCase handles category update logic.
type UpdateCategoryUseCase struct {
	uow adapter.UnitOfWork
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(uow adapter.UnitOfWork) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{uow: uow}
}

// Execute performs the category update.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	var result *entity.Category

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		category, err := findOwned(ctx, repos, input.CategoryID, input.UserID)
		if err != nil {
			return err
		}

		// Update name if provided
		if input.Name != nil {
			name, err := validateName(*input.Name)
			if err != nil {
				return err
			}
			category.Name = name
		}

		// Update color if provided
		if input.Color != nil {
			if err := validateColor(*input.Color); err != nil {
				return err
			}
			if *input.Color != "" {
				category.Color = *input.Color
			}
		}

		category.UpdatedAt = time.Now().UTC()
		if err := repos.Categories.Update(ctx, category); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}

		result = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateCategoryOutput{
		Category: result,
	}, nil
}
