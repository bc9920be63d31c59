package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
)

// CreateBudgetRequest represents the request body for budget creation.
type CreateBudgetRequest struct {
	CategoryID string           `json:"category_id" binding:"required"`
	Month      int              `json:"month" binding:"required"`
	Year       int              `json:"year" binding:"required"`
	Amount     *decimal.Decimal `json:"amount"`
}

// UpdateBudgetRequest represents the request body for budget update.
type UpdateBudgetRequest struct {
	CategoryID *string          `json:"category_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

// BudgetResponse represents a single budget in API responses.
type BudgetResponse struct {
	ID             string    `json:"id"`
	CategoryID     string    `json:"category_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	Amount         string    `json:"amount"`
	SpentAmount    string    `json:"spent_amount"`
	Remaining      string    `json:"remaining"`
	Overspent      string    `json:"overspent"`
	PercentageUsed int       `json:"percentage_used"`
	WarningSent    bool      `json:"warning_sent"`
	ExceededSent   bool      `json:"exceeded_sent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BudgetListResponse represents the response for listing budgets.
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// ToBudgetResponse converts a budget view to a BudgetResponse DTO.
func ToBudgetResponse(view budget.BudgetView) BudgetResponse {
	b := view.Budget
	return BudgetResponse{
		ID:             b.ID.String(),
		CategoryID:     b.CategoryID.String(),
		Month:          b.Month,
		Year:           b.Year,
		Amount:         b.Amount.StringFixed(2),
		SpentAmount:    b.SpentAmount.StringFixed(2),
		Remaining:      view.Remaining.StringFixed(2),
		Overspent:      view.Overspent.StringFixed(2),
		PercentageUsed: view.PercentageUsed,
		WarningSent:    b.WarningSent,
		ExceededSent:   b.ExceededSent,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// ToBudgetListResponse converts budget views to a BudgetListResponse DTO.
func ToBudgetListResponse(views []budget.BudgetView) BudgetListResponse {
	items := make([]BudgetResponse, len(views))
	for i, view := range views {
		items[i] = ToBudgetResponse(view)
	}
	return BudgetListResponse{Budgets: items}
}
