package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CategoryModel represents the categories table in the database.
type CategoryModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(50);not null"`
	Color        string    `gorm:"type:varchar(7);not null"`
	IsPredefined bool      `gorm:"not null;default:false;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	RecordColumns `gorm:"embedded"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:           m.ID,
		UserID:       m.UserID,
		Name:         m.Name,
		Color:        m.Color,
		IsPredefined: m.IsPredefined,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Record:       m.RecordColumns.toEntity(),
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(c *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:            c.ID,
		UserID:        c.UserID,
		Name:          c.Name,
		Color:         c.Color,
		IsPredefined:  c.IsPredefined,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		RecordColumns: recordFromEntity(c.Record),
	}
}
