package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	listUseCase       *transaction.ListTransactionsUseCase
	getUseCase        *transaction.GetTransactionUseCase
	createUseCase     *transaction.CreateTransactionUseCase
	updateUseCase     *transaction.UpdateTransactionUseCase
	deleteUseCase     *transaction.DeleteTransactionUseCase
	bulkDeleteUseCase *transaction.BulkDeleteTransactionsUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	getUseCase *transaction.GetTransactionUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	bulkDeleteUseCase *transaction.BulkDeleteTransactionsUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:       listUseCase,
		getUseCase:        getUseCase,
		createUseCase:     createUseCase,
		updateUseCase:     updateUseCase,
		deleteUseCase:     deleteUseCase,
		bulkDeleteUseCase: bulkDeleteUseCase,
	}
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{UserID: userID}

	if raw := ctx.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(ctx, "Invalid categoryId", "")
			return
		}
		input.CategoryID = &id
	}
	if raw := ctx.Query("savingPlanId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(ctx, "Invalid savingPlanId", "")
			return
		}
		input.SavingPlanID = &id
	}
	if raw := ctx.Query("type"); raw != "" {
		txType := entity.TransactionType(raw)
		if !txType.IsValid() {
			badRequest(ctx, "Invalid type", string(domainerror.ErrCodeInvalidTransactionType))
			return
		}
		input.Type = &txType
	}
	if raw := ctx.Query("startDate"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid startDate", "")
			return
		}
		input.From = &from
	}
	if raw := ctx.Query("endDate"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			badRequest(ctx, "Invalid endDate", "")
			return
		}
		input.To = &to
	}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(ctx, "Invalid limit", "")
			return
		}
		input.Limit = limit
	}
	if raw := ctx.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(ctx, "Invalid offset", "")
			return
		}
		input.Offset = offset
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Get handles GET /transactions/:id requests.
func (c *TransactionController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := pathID(ctx, "transaction")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), transaction.GetTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingTransactionFields))
		return
	}
	if req.Amount == nil {
		badRequest(ctx, "amount is required", string(domainerror.ErrCodeMissingTransactionFields))
		return
	}

	input := transaction.CreateTransactionInput{
		UserID:      userID,
		Amount:      *req.Amount,
		Type:        entity.TransactionType(req.Type),
		Description: req.Description,
	}
	if req.TransactionAt != nil {
		at, err := parseDate(*req.TransactionAt)
		if err != nil {
			badRequest(ctx, "Invalid transaction_at", "")
			return
		}
		input.TransactionAt = at
	}

	var err error
	if input.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
		badRequest(ctx, "Invalid category_id", "")
		return
	}
	if input.SavingPlanID, err = parseOptionalID(req.SavingPlanID); err != nil {
		badRequest(ctx, "Invalid saving_plan_id", "")
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := pathID(ctx, "transaction")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", "")
		return
	}

	input := transaction.UpdateTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
		Amount:        req.Amount,
		Description:   req.Description,
	}
	if req.Type != nil {
		txType := entity.TransactionType(*req.Type)
		input.Type = &txType
	}
	if req.TransactionAt != nil {
		at, err := parseDate(*req.TransactionAt)
		if err != nil {
			badRequest(ctx, "Invalid transaction_at", "")
			return
		}
		input.TransactionAt = &at
	}

	var err error
	if input.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
		badRequest(ctx, "Invalid category_id", "")
		return
	}
	if input.SavingPlanID, err = parseOptionalID(req.SavingPlanID); err != nil {
		badRequest(ctx, "Invalid saving_plan_id", "")
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := pathID(ctx, "transaction")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// BulkDelete handles POST /transactions/bulk-delete requests.
func (c *TransactionController) BulkDelete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.BulkDeleteTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeEmptyTransactionIDs))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(ctx, "Invalid transaction ID format: "+raw, "")
			return
		}
		ids = append(ids, id)
	}

	output, err := c.bulkDeleteUseCase.Execute(ctx.Request.Context(), transaction.BulkDeleteTransactionsInput{
		TransactionIDs: ids,
		UserID:         userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BulkDeleteTransactionsResponse{
		DeletedCount: output.DeletedCount,
	})
}
