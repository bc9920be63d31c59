package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionAggregateFieldsChanged(t *testing.T) {
	categoryID := uuid.New()
	base := NewTransaction(uuid.New(), decimal.NewFromInt(50), TransactionTypeDebit, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "groceries")
	base.CategoryID = &categoryID

	tests := []struct {
		name   string
		mutate func(tx *Transaction)
		want   bool
	}{
		{"description only", func(tx *Transaction) { tx.Description = "food" }, false},
		{"same month different day", func(tx *Transaction) { tx.TransactionAt = tx.TransactionAt.AddDate(0, 0, 5) }, false},
		{"amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(60) }, true},
		{"type", func(tx *Transaction) { tx.Type = TransactionTypeCredit }, true},
		{"month", func(tx *Transaction) { tx.TransactionAt = tx.TransactionAt.AddDate(0, 1, 0) }, true},
		{"year", func(tx *Transaction) { tx.TransactionAt = tx.TransactionAt.AddDate(1, 0, 0) }, true},
		{"category", func(tx *Transaction) {
			other := uuid.New()
			tx.CategoryID = &other
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := base.Clone()
			tt.mutate(updated)
			assert.Equal(t, tt.want, updated.AggregateFieldsChanged(base))
		})
	}
}

func TestTransactionCloneIsIndependent(t *testing.T) {
	categoryID := uuid.New()
	tx := NewTransaction(uuid.New(), decimal.NewFromInt(10), TransactionTypeDebit, time.Now(), "")
	tx.CategoryID = &categoryID

	clone := tx.Clone()
	*clone.CategoryID = uuid.New()

	assert.Equal(t, categoryID, *tx.CategoryID)
}

func TestTransactionCountsTowardBudget(t *testing.T) {
	categoryID := uuid.New()
	debit := NewTransaction(uuid.New(), decimal.NewFromInt(10), TransactionTypeDebit, time.Now(), "")
	debit.CategoryID = &categoryID
	credit := debit.Clone()
	credit.Type = TransactionTypeCredit

	assert.True(t, debit.CountsTowardBudget())
	assert.False(t, credit.CountsTowardBudget())
}
