// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// Category groups transactions and scopes budgets. A predefined category is
// shared: every user may book against it, only its owner may change it.
type Category struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	Color        string
	IsPredefined bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Record
}

// NewCategory creates a new active Category.
func NewCategory(userID uuid.UUID, name, color string) *Category {
	now := time.Now().UTC()
	if color == "" {
		color = DefaultCategoryColor
	}

	return &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
		Record:    ActiveRecord(),
	}
}

// NewPredefinedCategory creates a shared category owned by ownerID.
func NewPredefinedCategory(ownerID uuid.UUID, name string) *Category {
	c := NewCategory(ownerID, name, "")
	c.IsPredefined = true
	return c
}

// IsOwnedBy reports whether the category belongs to the user.
func (c *Category) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

// IsUsableBy reports whether the user may book transactions, budgets and
// recurring definitions against the category.
func (c *Category) IsUsableBy(userID uuid.UUID) bool {
	return c.IsPredefined || c.IsOwnedBy(userID)
}
