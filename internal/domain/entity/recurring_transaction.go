package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// RecurringTransaction is a template that materializes into transactions on a schedule.
type RecurringTransaction struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Amount            decimal.Decimal
	Type              TransactionType
	Frequency         Frequency
	StartsAt          time.Time
	EndsAt            *time.Time
	NextTransactionAt time.Time
	Description       string
	CategoryID        *uuid.UUID
	SavingPlanID      *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Record
}

// NewRecurringTransaction creates a new definition whose first occurrence is startsAt.
func NewRecurringTransaction(userID uuid.UUID, amount decimal.Decimal, txType TransactionType, frequency Frequency, startsAt time.Time, description string) *RecurringTransaction {
	now := time.Now().UTC()
	startsAt = startsAt.UTC()

	return &RecurringTransaction{
		ID:                uuid.New(),
		UserID:            userID,
		Amount:            valueobject.RoundMoney(amount),
		Type:              txType,
		Frequency:         frequency,
		StartsAt:          startsAt,
		NextTransactionAt: startsAt,
		Description:       description,
		CreatedAt:         now,
		UpdatedAt:         now,
		Record:            ActiveRecord(),
	}
}

// IsDue reports whether the next occurrence is at or before now.
func (r *RecurringTransaction) IsDue(now time.Time) bool {
	return !r.NextTransactionAt.After(now)
}

// IsPastEnd reports whether the schedule has ended before the next occurrence.
func (r *RecurringTransaction) IsPastEnd() bool {
	return r.EndsAt != nil && r.EndsAt.Before(r.NextTransactionAt)
}

// Materialize builds the transaction for the current occurrence.
func (r *RecurringTransaction) Materialize() *Transaction {
	tx := NewTransaction(r.UserID, r.Amount, r.Type, r.NextTransactionAt, r.Description)
	if r.CategoryID != nil {
		id := *r.CategoryID
		tx.CategoryID = &id
	}
	if r.SavingPlanID != nil {
		id := *r.SavingPlanID
		tx.SavingPlanID = &id
	}
	defID := r.ID
	tx.RecurringID = &defID
	return tx
}
