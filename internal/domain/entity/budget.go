// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// Threshold levels that trigger budget notifications.
const (
	BudgetWarningPercentage  = 80
	BudgetWarningResetBelow  = 90
	BudgetExceededPercentage = 100
)

// ThresholdType identifies which budget notification is due.
type ThresholdType string

const (
	ThresholdNone     ThresholdType = ""
	ThresholdWarning  ThresholdType = "warning"
	ThresholdExceeded ThresholdType = "exceeded"
)

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CategoryID   uuid.UUID
	Month        int
	Year         int
	Amount       decimal.Decimal
	SpentAmount  decimal.Decimal
	WarningSent  bool
	ExceededSent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Record
}

// NewBudget creates a new active Budget with nothing spent.
func NewBudget(userID, categoryID uuid.UUID, month, year int, amount decimal.Decimal) *Budget {
	now := time.Now().UTC()

	return &Budget{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  categoryID,
		Month:       month,
		Year:        year,
		Amount:      valueobject.RoundMoney(amount),
		SpentAmount: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
		Record:      ActiveRecord(),
	}
}

// Remaining returns max(0, amount - spent).
func (b *Budget) Remaining() decimal.Decimal {
	return valueobject.NonNegative(b.Amount.Sub(b.SpentAmount))
}

// Overspent returns max(0, spent - amount).
func (b *Budget) Overspent() decimal.Decimal {
	return valueobject.NonNegative(b.SpentAmount.Sub(b.Amount))
}

// PercentageUsed returns the share of the budget spent, rounded and capped at 100.
func (b *Budget) PercentageUsed() int {
	return valueobject.PercentageOf(b.SpentAmount, b.Amount)
}

// ResetThresholdFlags clears the notification flags once spending drops back
// below the reset points. It reports whether any flag changed.
func (b *Budget) ResetThresholdFlags() bool {
	pct := b.PercentageUsed()
	changed := false

	if pct < BudgetWarningResetBelow && b.WarningSent {
		b.WarningSent = false
		changed = true
	}
	if pct < BudgetExceededPercentage && b.ExceededSent {
		b.ExceededSent = false
		changed = true
	}

	return changed
}

// PendingThreshold returns the notification that should be sent now.
// Exceeded takes priority over warning.
func (b *Budget) PendingThreshold() ThresholdType {
	pct := b.PercentageUsed()

	if pct >= BudgetExceededPercentage && !b.ExceededSent {
		return ThresholdExceeded
	}
	if pct >= BudgetWarningPercentage && pct < BudgetExceededPercentage && !b.WarningSent {
		return ThresholdWarning
	}
	return ThresholdNone
}

// MarkThresholdSent records that a notification of the given type was queued.
func (b *Budget) MarkThresholdSent(threshold ThresholdType) {
	switch threshold {
	case ThresholdWarning:
		b.WarningSent = true
	case ThresholdExceeded:
		b.ExceededSent = true
	}
}
