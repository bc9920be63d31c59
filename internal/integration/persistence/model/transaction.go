package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type          string          `gorm:"type:varchar(10);not null"`
	TransactionAt time.Time       `gorm:"not null;index"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	SavingPlanID  *uuid.UUID      `gorm:"type:uuid;index"`
	RecurringID   *uuid.UUID      `gorm:"type:uuid;index"`
	Description   string          `gorm:"type:varchar(255)"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`

	RecordColumns `gorm:"embedded"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		Amount:        valueobject.RoundMoney(m.Amount),
		Type:          entity.TransactionType(m.Type),
		TransactionAt: m.TransactionAt.UTC(),
		CategoryID:    m.CategoryID,
		SavingPlanID:  m.SavingPlanID,
		RecurringID:   m.RecurringID,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Record:        m.RecordColumns.toEntity(),
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(tx *entity.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:            tx.ID,
		UserID:        tx.UserID,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		TransactionAt: tx.TransactionAt.UTC(),
		CategoryID:    tx.CategoryID,
		SavingPlanID:  tx.SavingPlanID,
		RecurringID:   tx.RecurringID,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
		RecordColumns: recordFromEntity(tx.Record),
	}
}
