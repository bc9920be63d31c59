package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/savingplan"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateSavingPlanRequest represents the request body for saving plan creation.
type CreateSavingPlanRequest struct {
	Name      string           `json:"name" binding:"required,max=100"`
	Amount    *decimal.Decimal `json:"amount"`
	Deadline  string           `json:"deadline" binding:"required"`
	Frequency string           `json:"frequency" binding:"required"`
}

// UpdateSavingPlanRequest represents the request body for saving plan update.
type UpdateSavingPlanRequest struct {
	Name            *string          `json:"name,omitempty" binding:"omitempty,max=100"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Frequency       *string          `json:"frequency,omitempty"`
	Status          *string          `json:"status,omitempty"`
	CurrentDeadline *string          `json:"current_deadline,omitempty"`
}

// ProgressResponse holds the derived progress values of a saving plan.
type ProgressResponse struct {
	PercentageSaved   int    `json:"percentage_saved"`
	Remaining         string `json:"remaining"`
	DaysRemaining     int    `json:"days_remaining"`
	RemainingPeriods  int    `json:"remaining_periods"`
	RequiredPerPeriod string `json:"required_per_period"`
	TimeRemaining     string `json:"time_remaining"`
}

// SavingPlanResponse represents a single saving plan in API responses.
type SavingPlanResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Amount           string           `json:"amount"`
	SavedAmount      string           `json:"saved_amount"`
	OriginalDeadline string           `json:"original_deadline"`
	CurrentDeadline  string           `json:"current_deadline"`
	Status           string           `json:"status"`
	Frequency        string           `json:"frequency"`
	Progress         ProgressResponse `json:"progress"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SavingPlanListResponse represents the response for listing saving plans.
type SavingPlanListResponse struct {
	SavingPlans []SavingPlanResponse `json:"saving_plans"`
}

// ToSavingPlanResponse converts a plan and its progress to a SavingPlanResponse DTO.
func ToSavingPlanResponse(plan *entity.SavingPlan, progress savingplan.Progress) SavingPlanResponse {
	return SavingPlanResponse{
		ID:               plan.ID.String(),
		Name:             plan.Name,
		Amount:           plan.Amount.StringFixed(2),
		SavedAmount:      plan.SavedAmount.StringFixed(2),
		OriginalDeadline: plan.OriginalDeadline.Format(DateLayout),
		CurrentDeadline:  plan.CurrentDeadline.Format(DateLayout),
		Status:           string(plan.Status),
		Frequency:        string(plan.Frequency),
		Progress: ProgressResponse{
			PercentageSaved:   progress.PercentageSaved,
			Remaining:         progress.Remaining.StringFixed(2),
			DaysRemaining:     progress.DaysRemaining,
			RemainingPeriods:  progress.RemainingPeriods,
			RequiredPerPeriod: progress.RequiredPerPeriod.StringFixed(2),
			TimeRemaining:     progress.TimeRemaining,
		},
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

// ToSavingPlanListResponse converts plan items to a SavingPlanListResponse DTO.
func ToSavingPlanListResponse(items []savingplan.SavingPlanItem) SavingPlanListResponse {
	plans := make([]SavingPlanResponse, len(items))
	for i, item := range items {
		plans[i] = ToSavingPlanResponse(item.SavingPlan, item.Progress)
	}
	return SavingPlanListResponse{SavingPlans: plans}
}
