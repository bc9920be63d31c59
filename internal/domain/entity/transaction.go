// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

// IsValid reports whether the type is one of the known values.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// Transaction is a single ledger entry. It references either a category or a
// saving plan, never both.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Amount        decimal.Decimal
	Type          TransactionType
	TransactionAt time.Time
	CategoryID    *uuid.UUID
	SavingPlanID  *uuid.UUID
	Description   string
	RecurringID   *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Record
}

// NewTransaction creates a new active Transaction.
func NewTransaction(userID uuid.UUID, amount decimal.Decimal, txType TransactionType, transactionAt time.Time, description string) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Amount:        valueobject.RoundMoney(amount),
		Type:          txType,
		TransactionAt: transactionAt.UTC(),
		Description:   description,
		CreatedAt:     now,
		UpdatedAt:     now,
		Record:        ActiveRecord(),
	}
}

// Month returns the calendar month (1-12) of the transaction date.
func (t *Transaction) Month() int {
	return int(t.TransactionAt.UTC().Month())
}

// Year returns the calendar year of the transaction date.
func (t *Transaction) Year() int {
	return t.TransactionAt.UTC().Year()
}

// CountsTowardBudget reports whether the transaction contributes to a budget's spent amount.
func (t *Transaction) CountsTowardBudget() bool {
	return t.Type == TransactionTypeDebit && t.CategoryID != nil
}

// Clone returns a copy that can be mutated without affecting t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.CategoryID != nil {
		id := *t.CategoryID
		c.CategoryID = &id
	}
	if t.SavingPlanID != nil {
		id := *t.SavingPlanID
		c.SavingPlanID = &id
	}
	if t.RecurringID != nil {
		id := *t.RecurringID
		c.RecurringID = &id
	}
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		c.DeletedAt = &at
	}
	return &c
}

// AggregateFieldsChanged reports whether any field feeding a derived
// aggregate differs between t and other.
func (t *Transaction) AggregateFieldsChanged(other *Transaction) bool {
	if !t.Amount.Equal(other.Amount) || t.Type != other.Type {
		return true
	}
	if !sameID(t.CategoryID, other.CategoryID) || !sameID(t.SavingPlanID, other.SavingPlanID) {
		return true
	}
	return t.Month() != other.Month() || t.Year() != other.Year()
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
