package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/recurring"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// RecurringTransactionController handles recurring transaction endpoints.
type RecurringTransactionController struct {
	listUseCase   *recurring.ListRecurringTransactionsUseCase
	getUseCase    *recurring.GetRecurringTransactionUseCase
	createUseCase *recurring.CreateRecurringTransactionUseCase
	updateUseCase *recurring.UpdateRecurringTransactionUseCase
	deleteUseCase *recurring.DeleteRecurringTransactionUseCase
}

// NewRecurringTransactionController creates a new recurring transaction controller instance.
func NewRecurringTransactionController(
	listUseCase *recurring.ListRecurringTransactionsUseCase,
	getUseCase *recurring.GetRecurringTransactionUseCase,
	createUseCase *recurring.CreateRecurringTransactionUseCase,
	updateUseCase *recurring.UpdateRecurringTransactionUseCase,
	deleteUseCase *recurring.DeleteRecurringTransactionUseCase,
) *RecurringTransactionController {
	return &RecurringTransactionController{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /recurring-transactions requests.
func (c *RecurringTransactionController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), recurring.ListRecurringTransactionsInput{
		UserID: userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionListResponse(output.RecurringTransactions))
}

// Get handles GET /recurring-transactions/:id requests.
func (c *RecurringTransactionController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	recurringID, ok := pathID(ctx, "recurring transaction")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), recurring.GetRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(output.RecurringTransaction))
}

// Create handles POST /recurring-transactions requests.
func (c *RecurringTransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateRecurringTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingRecurringFields))
		return
	}

	startsAt, err := parseDate(req.StartsAt)
	if err != nil {
		badRequest(ctx, "Invalid starts_at", string(domainerror.ErrCodeInvalidRecurringWindow))
		return
	}

	input := recurring.CreateRecurringTransactionInput{
		UserID:      userID,
		Amount:      *req.Amount,
		Type:        entity.TransactionType(req.Type),
		Frequency:   entity.Frequency(req.Frequency),
		StartsAt:    startsAt,
		Description: req.Description,
	}
	if req.EndsAt != nil && *req.EndsAt != "" {
		endsAt, err := parseDate(*req.EndsAt)
		if err != nil {
			badRequest(ctx, "Invalid ends_at", string(domainerror.ErrCodeInvalidRecurringWindow))
			return
		}
		input.EndsAt = &endsAt
	}
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

	ctx.JSON(http.StatusCreated, dto.ToRecurringTransactionResponse(output.RecurringTransaction))
}

// Update handles PATCH /recurring-transactions/:id requests.
func (c *RecurringTransactionController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	recurringID, ok := pathID(ctx, "recurring transaction")
	if !ok {
		return
	}

	var req dto.UpdateRecurringTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", "")
		return
	}

	input := recurring.UpdateRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.EndsAt != nil {
		if *req.EndsAt == "" {
			input.ClearEndsAt = true
		} else {
			endsAt, err := parseDate(*req.EndsAt)
			if err != nil {
				badRequest(ctx, "Invalid ends_at", string(domainerror.ErrCodeInvalidRecurringWindow))
				return
			}
			input.EndsAt = &endsAt
		}
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecurringTransactionResponse(output.RecurringTransaction))
}

// Delete handles DELETE /recurring-transactions/:id requests.
func (c *RecurringTransactionController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	recurringID, ok := pathID(ctx, "recurring transaction")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), recurring.DeleteRecurringTransactionInput{
		RecurringID: recurringID,
		UserID:      userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
