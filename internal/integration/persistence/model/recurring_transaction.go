package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// RecurringTransactionModel represents the recurring_transactions table in the database.
type RecurringTransactionModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type              string          `gorm:"type:varchar(10);not null"`
	Frequency         string          `gorm:"type:varchar(10);not null"`
	StartsAt          time.Time       `gorm:"not null"`
	EndsAt            *time.Time      `gorm:"type:timestamp"`
	NextTransactionAt time.Time       `gorm:"not null;index"`
	Description       string          `gorm:"type:varchar(255)"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid"`
	SavingPlanID      *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`

	RecordColumns `gorm:"embedded"`
}

// TableName returns the table name for the RecurringTransactionModel.
func (RecurringTransactionModel) TableName() string {
	return "recurring_transactions"
}

// ToEntity converts a RecurringTransactionModel to a domain entity.
func (m *RecurringTransactionModel) ToEntity() *entity.RecurringTransaction {
	var endsAt *time.Time
	if m.EndsAt != nil {
		t := m.EndsAt.UTC()
		endsAt = &t
	}

	return &entity.RecurringTransaction{
		ID:                m.ID,
		UserID:            m.UserID,
		Amount:            valueobject.RoundMoney(m.Amount),
		Type:              entity.TransactionType(m.Type),
		Frequency:         entity.Frequency(m.Frequency),
		StartsAt:          m.StartsAt.UTC(),
		EndsAt:            endsAt,
		NextTransactionAt: m.NextTransactionAt.UTC(),
		Description:       m.Description,
		CategoryID:        m.CategoryID,
		SavingPlanID:      m.SavingPlanID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		Record:            m.RecordColumns.toEntity(),
	}
}

// RecurringTransactionFromEntity creates a RecurringTransactionModel from a domain entity.
func RecurringTransactionFromEntity(r *entity.RecurringTransaction) *RecurringTransactionModel {
	return &RecurringTransactionModel{
		ID:                r.ID,
		UserID:            r.UserID,
		Amount:            r.Amount,
		Type:              string(r.Type),
		Frequency:         string(r.Frequency),
		StartsAt:          r.StartsAt.UTC(),
		EndsAt:            r.EndsAt,
		NextTransactionAt: r.NextTransactionAt.UTC(),
		Description:       r.Description,
		CategoryID:        r.CategoryID,
		SavingPlanID:      r.SavingPlanID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		RecordColumns:     recordFromEntity(r.Record),
	}
}
