package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Type          string           `json:"type" binding:"required,oneof=CREDIT DEBIT"`
	TransactionAt *string          `json:"transaction_at,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	SavingPlanID  *string          `json:"saving_plan_id,omitempty"`
	Description   string           `json:"description,omitempty" binding:"omitempty,max=255"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Type          *string          `json:"type,omitempty" binding:"omitempty,oneof=CREDIT DEBIT"`
	TransactionAt *string          `json:"transaction_at,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	SavingPlanID  *string          `json:"saving_plan_id,omitempty"`
	Description   *string          `json:"description,omitempty" binding:"omitempty,max=255"`
}

// BulkDeleteTransactionsRequest represents the request body for bulk transaction deletion.
type BulkDeleteTransactionsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Amount        string    `json:"amount"`
	Type          string    `json:"type"`
	TransactionAt time.Time `json:"transaction_at"`
	CategoryID    *string   `json:"category_id,omitempty"`
	SavingPlanID  *string   `json:"saving_plan_id,omitempty"`
	RecurringID   *string   `json:"recurring_id,omitempty"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// BulkDeleteTransactionsResponse represents the response for bulk transaction deletion.
type BulkDeleteTransactionsResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ToTransactionResponse converts a domain Transaction to a TransactionResponse DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID.String(),
		UserID:        tx.UserID.String(),
		Amount:        tx.Amount.StringFixed(2),
		Type:          string(tx.Type),
		TransactionAt: tx.TransactionAt,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
		CategoryID:    uuidString(tx.CategoryID),
		SavingPlanID:  uuidString(tx.SavingPlanID),
		RecurringID:   uuidString(tx.RecurringID),
	}
}

// ToTransactionListResponse converts a ListTransactionsOutput to a TransactionListResponse DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	items := make([]TransactionResponse, len(output.Transactions))
	for i, tx := range output.Transactions {
		items[i] = ToTransactionResponse(tx)
	}
	return TransactionListResponse{
		Transactions: items,
		Limit:        output.Limit,
		Offset:       output.Offset,
	}
}
