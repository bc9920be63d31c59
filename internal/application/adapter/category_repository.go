// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID, state StateFilter) (*entity.Category, error)

	// ListAvailable returns the user's own categories plus the predefined ones.
	ListAvailable(ctx context.Context, userID uuid.UUID, state StateFilter) ([]*entity.Category, error)

	FindPredefinedByName(ctx context.Context, name string) (*entity.Category, error)
}
