package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateRecurringTransactionRequest represents the request body for recurring transaction creation.
type CreateRecurringTransactionRequest struct {
	Amount       *decimal.Decimal `json:"amount"`
	Type         string           `json:"type" binding:"required,oneof=CREDIT DEBIT"`
	Frequency    string           `json:"frequency" binding:"required"`
	StartsAt     string           `json:"starts_at" binding:"required"`
	EndsAt       *string          `json:"ends_at,omitempty"`
	Description  string           `json:"description,omitempty" binding:"omitempty,max=255"`
	CategoryID   *string          `json:"category_id,omitempty"`
	SavingPlanID *string          `json:"saving_plan_id,omitempty"`
}

// UpdateRecurringTransactionRequest represents the request body for recurring transaction update.
// An empty ends_at string removes the end date.
type UpdateRecurringTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty" binding:"omitempty,max=255"`
	EndsAt      *string          `json:"ends_at,omitempty"`
}

// RecurringTransactionResponse represents a single recurring transaction in API responses.
type RecurringTransactionResponse struct {
	ID                string    `json:"id"`
	Amount            string    `json:"amount"`
	Type              string    `json:"type"`
	Frequency         string    `json:"frequency"`
	StartsAt          string    `json:"starts_at"`
	EndsAt            *string   `json:"ends_at,omitempty"`
	NextTransactionAt string    `json:"next_transaction_at"`
	Description       string    `json:"description"`
	CategoryID        *string   `json:"category_id,omitempty"`
	SavingPlanID      *string   `json:"saving_plan_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RecurringTransactionListResponse represents the response for listing recurring transactions.
type RecurringTransactionListResponse struct {
	RecurringTransactions []RecurringTransactionResponse `json:"recurring_transactions"`
}

// ToRecurringTransactionResponse converts a domain RecurringTransaction to its response DTO.
func ToRecurringTransactionResponse(rt *entity.RecurringTransaction) RecurringTransactionResponse {
	response := RecurringTransactionResponse{
		ID:                rt.ID.String(),
		Amount:            rt.Amount.StringFixed(2),
		Type:              string(rt.Type),
		Frequency:         string(rt.Frequency),
		StartsAt:          rt.StartsAt.Format(DateLayout),
		NextTransactionAt: rt.NextTransactionAt.Format(DateLayout),
		Description:       rt.Description,
		CategoryID:        uuidString(rt.CategoryID),
		SavingPlanID:      uuidString(rt.SavingPlanID),
		CreatedAt:         rt.CreatedAt,
		UpdatedAt:         rt.UpdatedAt,
	}
	if rt.EndsAt != nil {
		endsAt := rt.EndsAt.Format(DateLayout)
		response.EndsAt = &endsAt
	}
	return response
}

// ToRecurringTransactionListResponse converts recurring transactions to a list response DTO.
func ToRecurringTransactionListResponse(items []*entity.RecurringTransaction) RecurringTransactionListResponse {
	out := make([]RecurringTransactionResponse, len(items))
	for i, rt := range items {
		out[i] = ToRecurringTransactionResponse(rt)
	}
	return RecurringTransactionListResponse{RecurringTransactions: out}
}
