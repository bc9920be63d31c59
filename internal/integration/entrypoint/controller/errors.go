// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// statusByCode maps domain error codes to HTTP status codes. Codes that are
// not listed are validation failures and map to 400.
var statusByCode = map[string]int{
	string(domainerror.ErrCodeUserNotFound): http.StatusNotFound,

	string(domainerror.ErrCodeTransactionNotFound):       http.StatusNotFound,
	string(domainerror.ErrCodeTxnCategoryNotFound):       http.StatusNotFound,
	string(domainerror.ErrCodeTxnSavingPlanNotFound):     http.StatusNotFound,
	string(domainerror.ErrCodeNotAuthorizedTransaction):  http.StatusForbidden,
	string(domainerror.ErrCodeTxnCategoryNotOwned):       http.StatusForbidden,
	string(domainerror.ErrCodeTxnSavingPlanNotOwned):     http.StatusForbidden,
	string(domainerror.ErrCodeTransactionTargetRequired): http.StatusUnprocessableEntity,
	string(domainerror.ErrCodeDebitToSavingPlan):         http.StatusUnprocessableEntity,
	string(domainerror.ErrCodeTargetKindChanged):         http.StatusUnprocessableEntity,

	string(domainerror.ErrCodeBudgetNotFound):           http.StatusNotFound,
	string(domainerror.ErrCodeBudgetCategoryNotFound):   http.StatusNotFound,
	string(domainerror.ErrCodeBudgetAlreadyExists):      http.StatusConflict,
	string(domainerror.ErrCodeBudgetCategoryNotOwned):   http.StatusForbidden,
	string(domainerror.ErrCodeUnauthorizedBudgetAccess): http.StatusForbidden,

	string(domainerror.ErrCodeSavingPlanNotFound):           http.StatusNotFound,
	string(domainerror.ErrCodeUnauthorizedSavingPlanAccess): http.StatusForbidden,
	string(domainerror.ErrCodeSavingPlanCompleted):          http.StatusUnprocessableEntity,

	string(domainerror.ErrCodeRecurringNotFound):           http.StatusNotFound,
	string(domainerror.ErrCodeRecurringTargetNotFound):     http.StatusNotFound,
	string(domainerror.ErrCodeUnauthorizedRecurringAccess): http.StatusForbidden,
	string(domainerror.ErrCodeRecurringTargetNotOwned):     http.StatusForbidden,
	string(domainerror.ErrCodeRecurringTargetRequired):     http.StatusUnprocessableEntity,
	string(domainerror.ErrCodeRecurringDebitToPlan):        http.StatusUnprocessableEntity,

	string(domainerror.ErrCodeCategoryNotFound):      http.StatusNotFound,
	string(domainerror.ErrCodeNotAuthorizedCategory): http.StatusForbidden,
}

// statusForCode returns the HTTP status for a domain error code.
func statusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// handleError writes the response for a use case error.
func handleError(ctx *gin.Context, err error) {
	if code, ok := domainerror.CodeOf(err); ok {
		ctx.JSON(statusForCode(code), dto.ErrorResponse{
			Error: err.Error(),
			Code:  code,
		})
		return
	}

	_ = ctx.Error(err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// requireUser returns the authenticated user ID or writes a 401 response.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id path parameter or writes a 400 response.
func pathID(ctx *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + what + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDate accepts a calendar date or an RFC3339 timestamp and returns the UTC instant.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dto.DateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func badRequest(ctx *gin.Context, message, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
