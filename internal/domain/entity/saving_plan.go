package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// SavingPlanStatus represents the lifecycle status of a saving plan.
type SavingPlanStatus string

const (
	SavingPlanStatusActive    SavingPlanStatus = "ACTIVE"
	SavingPlanStatusCompleted SavingPlanStatus = "COMPLETED"
	SavingPlanStatusPaused    SavingPlanStatus = "PAUSED"
)

// IsValid reports whether the status is one of the known values.
func (s SavingPlanStatus) IsValid() bool {
	return s == SavingPlanStatusActive || s == SavingPlanStatusCompleted || s == SavingPlanStatusPaused
}

// SavingPlan is a savings goal with a target amount and a deadline.
type SavingPlan struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Name             string
	Amount           decimal.Decimal
	OriginalDeadline time.Time
	CurrentDeadline  time.Time
	SavedAmount      decimal.Decimal
	Status           SavingPlanStatus
	Frequency        Frequency
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Record
}

// NewSavingPlan creates a new active plan. Both deadlines start equal.
func NewSavingPlan(userID uuid.UUID, name string, amount decimal.Decimal, deadline time.Time, frequency Frequency) *SavingPlan {
	now := time.Now().UTC()
	deadline = valueobject.StartOfDay(deadline)

	return &SavingPlan{
		ID:               uuid.New(),
		UserID:           userID,
		Name:             name,
		Amount:           valueobject.RoundMoney(amount),
		OriginalDeadline: deadline,
		CurrentDeadline:  deadline,
		SavedAmount:      decimal.Zero,
		Status:           SavingPlanStatusActive,
		Frequency:        frequency,
		CreatedAt:        now,
		UpdatedAt:        now,
		Record:           ActiveRecord(),
	}
}

// Remaining returns max(0, amount - saved).
func (p *SavingPlan) Remaining() decimal.Decimal {
	return valueobject.NonNegative(p.Amount.Sub(p.SavedAmount))
}

// IsReached reports whether the saved amount covers the target.
func (p *SavingPlan) IsReached() bool {
	return p.SavedAmount.GreaterThanOrEqual(p.Amount)
}

// PercentageSaved returns the share of the target already saved, capped at 100.
func (p *SavingPlan) PercentageSaved() int {
	return valueobject.PercentageOf(p.SavedAmount, p.Amount)
}

// IsOverdue reports whether the current deadline lies before today.
func (p *SavingPlan) IsOverdue(today time.Time) bool {
	return p.CurrentDeadline.Before(valueobject.StartOfDay(today))
}

// ExtensionDays is how far an overdue plan's deadline is pushed out.
func (p *SavingPlan) ExtensionDays() int {
	switch p.Frequency {
	case FrequencyMonthly:
		return 30
	case FrequencyWeekly:
		return 7
	default:
		return 365
	}
}

// ExtendDeadline pushes the current deadline out by one extension step.
func (p *SavingPlan) ExtendDeadline() time.Time {
	p.CurrentDeadline = p.CurrentDeadline.AddDate(0, 0, p.ExtensionDays())
	return p.CurrentDeadline
}

// SyncCompletion moves the plan between ACTIVE and COMPLETED to match the
// saved amount. It returns the new status and whether it changed.
func (p *SavingPlan) SyncCompletion() (SavingPlanStatus, bool) {
	if p.IsReached() && p.Status != SavingPlanStatusCompleted {
		p.Status = SavingPlanStatusCompleted
		return p.Status, true
	}
	if !p.IsReached() && p.Status == SavingPlanStatusCompleted {
		p.Status = SavingPlanStatusActive
		return p.Status, true
	}
	return p.Status, false
}
