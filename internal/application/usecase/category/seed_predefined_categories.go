package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DefaultPredefinedCategories are the shared categories offered to every user.
var DefaultPredefinedCategories = []string{
	"Food & Dining",
	"Shopping",
	"Transportation",
	"Bills & Utilities",
	"Entertainment",
	"Health & Medical",
	"Salary",
	"Investments",
	"Gifts",
	"Other Income",
}

// SeedPredefinedCategoriesInput represents the input for seeding shared categories.
type SeedPredefinedCategoriesInput struct {
	OwnerID uuid.UUID
	Names   []string
}

// SeedPredefinedCategoriesOutput reports which names were created and which
// already existed.
type SeedPredefinedCategoriesOutput struct {
	Created []*entity.Category
	Skipped []string
}

// SeedPredefinedCategoriesUseCase creates the shared categories that are
// still missing. Running it twice creates nothing the second time.
type SeedPredefinedCategoriesUseCase struct {
	uow adapter.UnitOfWork
}

// NewSeedPredefinedCategoriesUseCase creates a new SeedPredefinedCategoriesUseCase instance.
func NewSeedPredefinedCategoriesUseCase(uow adapter.UnitOfWork) *SeedPredefinedCategoriesUseCase {
	return &SeedPredefinedCategoriesUseCase{uow: uow}
}

// Execute seeds the categories in one unit of work.
func (uc *SeedPredefinedCategoriesUseCase) Execute(ctx context.Context, input SeedPredefinedCategoriesInput) (*SeedPredefinedCategoriesOutput, error) {
	names := input.Names
	if len(names) == 0 {
		names = DefaultPredefinedCategories
	}

	out := &SeedPredefinedCategoriesOutput{}
	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if _, err := repos.Users.FindByID(ctx, input.OwnerID, adapter.OnlyActive); err != nil {
			return fmt.Errorf("failed to find category owner: %w", err)
		}

		for _, raw := range names {
			name, err := validateName(raw)
			if err != nil {
				return err
			}

			_, err = repos.Categories.FindPredefinedByName(ctx, name)
			if err == nil {
				out.Skipped = append(out.Skipped, name)
				continue
			}
			if !errors.Is(err, domainerror.ErrCategoryNotFound) {
				return fmt.Errorf("failed to look up category %q: %w", name, err)
			}

			category := entity.NewPredefinedCategory(input.OwnerID, name)
			if err := repos.Categories.Create(ctx, category); err != nil {
				return fmt.Errorf("failed to create category %q: %w", name, err)
			}
			out.Created = append(out.Created, category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
