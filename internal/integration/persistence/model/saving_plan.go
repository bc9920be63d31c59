package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// SavingPlanModel represents the saving_plans table in the database.
type SavingPlanModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name             string          `gorm:"type:varchar(100);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	OriginalDeadline time.Time       `gorm:"not null"`
	CurrentDeadline  time.Time       `gorm:"not null;index"`
	SavedAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status           string          `gorm:"type:varchar(10);not null;index"`
	Frequency        string          `gorm:"type:varchar(10);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`

	RecordColumns `gorm:"embedded"`
}

// TableName returns the table name for the SavingPlanModel.
func (SavingPlanModel) TableName() string {
	return "saving_plans"
}

// ToEntity converts a SavingPlanModel to a domain SavingPlan entity.
func (m *SavingPlanModel) ToEntity() *entity.SavingPlan {
	return &entity.SavingPlan{
		ID:               m.ID,
		UserID:           m.UserID,
		Name:             m.Name,
		Amount:           valueobject.RoundMoney(m.Amount),
		OriginalDeadline: m.OriginalDeadline.UTC(),
		CurrentDeadline:  m.CurrentDeadline.UTC(),
		SavedAmount:      valueobject.RoundMoney(m.SavedAmount),
		Status:           entity.SavingPlanStatus(m.Status),
		Frequency:        entity.Frequency(m.Frequency),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Record:           m.RecordColumns.toEntity(),
	}
}

// SavingPlanFromEntity creates a SavingPlanModel from a domain SavingPlan entity.
func SavingPlanFromEntity(p *entity.SavingPlan) *SavingPlanModel {
	return &SavingPlanModel{
		ID:               p.ID,
		UserID:           p.UserID,
		Name:             p.Name,
		Amount:           p.Amount,
		OriginalDeadline: p.OriginalDeadline.UTC(),
		CurrentDeadline:  p.CurrentDeadline.UTC(),
		SavedAmount:      p.SavedAmount,
		Status:           string(p.Status),
		Frequency:        string(p.Frequency),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		RecordColumns:    recordFromEntity(p.Record),
	}
}
