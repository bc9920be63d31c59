// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// UserRepository reads users provisioned by the identity service.
type UserRepository interface {
	// FindByID retrieves a user by ID. It returns ErrUserNotFound when no row
	// matches the filter.
	FindByID(ctx context.Context, id uuid.UUID, state StateFilter) (*entity.User, error)
}
