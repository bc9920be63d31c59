package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// BudgetModel represents the budgets table in the database.
// At most one active budget exists per user, category and month.
type BudgetModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_period,where:state = 'active'"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_period,where:state = 'active'"`
	Month        int             `gorm:"not null;uniqueIndex:idx_budget_period,where:state = 'active'"`
	Year         int             `gorm:"not null;uniqueIndex:idx_budget_period,where:state = 'active'"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SpentAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	WarningSent  bool            `gorm:"not null"`
	ExceededSent bool            `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`

	RecordColumns `gorm:"embedded"`
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	return &entity.Budget{
		ID:           m.ID,
		UserID:       m.UserID,
		CategoryID:   m.CategoryID,
		Month:        m.Month,
		Year:         m.Year,
		Amount:       valueobject.RoundMoney(m.Amount),
		SpentAmount:  valueobject.RoundMoney(m.SpentAmount),
		WarningSent:  m.WarningSent,
		ExceededSent: m.ExceededSent,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Record:       m.RecordColumns.toEntity(),
	}
}

// BudgetFromEntity creates a BudgetModel from a domain Budget entity.
func BudgetFromEntity(b *entity.Budget) *BudgetModel {
	return &BudgetModel{
		ID:            b.ID,
		UserID:        b.UserID,
		CategoryID:    b.CategoryID,
		Month:         b.Month,
		Year:          b.Year,
		Amount:        b.Amount,
		SpentAmount:   b.SpentAmount,
		WarningSent:   b.WarningSent,
		ExceededSent:  b.ExceededSent,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		RecordColumns: recordFromEntity(b.Record),
	}
}
