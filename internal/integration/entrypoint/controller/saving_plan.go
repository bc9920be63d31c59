package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/savingplan"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// SavingPlanController handles saving plan endpoints.
type SavingPlanController struct {
	listUseCase   *savingplan.ListSavingPlansUseCase
	getUseCase    *savingplan.GetSavingPlanUseCase
	createUseCase *savingplan.CreateSavingPlanUseCase
	updateUseCase *savingplan.UpdateSavingPlanUseCase
	deleteUseCase *savingplan.DeleteSavingPlanUseCase
}

// NewSavingPlanController creates a new saving plan controller instance.
func NewSavingPlanController(
	listUseCase *savingplan.ListSavingPlansUseCase,
	getUseCase *savingplan.GetSavingPlanUseCase,
	createUseCase *savingplan.CreateSavingPlanUseCase,
	updateUseCase *savingplan.UpdateSavingPlanUseCase,
	deleteUseCase *savingplan.DeleteSavingPlanUseCase,
) *SavingPlanController {
	return &SavingPlanController{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /saving-plans requests.
func (c *SavingPlanController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := savingplan.ListSavingPlansInput{UserID: userID}
	if raw := ctx.Query("status"); raw != "" {
		status := entity.SavingPlanStatus(raw)
		if !status.IsValid() {
			badRequest(ctx, "Invalid status", string(domainerror.ErrCodeInvalidSavingPlanStatus))
			return
		}
		input.Status = &status
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSavingPlanListResponse(output.SavingPlans))
}

// Get handles GET /saving-plans/:id requests.
func (c *SavingPlanController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	planID, ok := pathID(ctx, "saving plan")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), savingplan.GetSavingPlanInput{
		SavingPlanID: planID,
		UserID:       userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSavingPlanResponse(output.SavingPlan, output.Progress))
}

// Create handles POST /saving-plans requests.
func (c *SavingPlanController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateSavingPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingSavingPlanFields))
		return
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		badRequest(ctx, "Invalid deadline", string(domainerror.ErrCodeInvalidSavingPlanDeadline))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), savingplan.CreateSavingPlanInput{
		UserID:    userID,
		Name:      req.Name,
		Amount:    *req.Amount,
		Deadline:  deadline,
		Frequency: entity.Frequency(req.Frequency),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSavingPlanResponse(output.SavingPlan, output.Progress))
}

// Update handles PATCH /saving-plans/:id requests.
func (c *SavingPlanController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	planID, ok := pathID(ctx, "saving plan")
	if !ok {
		return
	}

	var req dto.UpdateSavingPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", "")
		return
	}

	input := savingplan.UpdateSavingPlanInput{
		SavingPlanID: planID,
		UserID:       userID,
		Name:         req.Name,
		Amount:       req.Amount,
	}
	if req.Frequency != nil {
		frequency := entity.Frequency(*req.Frequency)
		input.Frequency = &frequency
	}
	if req.Status != nil {
		status := entity.SavingPlanStatus(*req.Status)
		input.Status = &status
	}
	if req.CurrentDeadline != nil {
		deadline, err := parseDate(*req.CurrentDeadline)
		if err != nil {
			badRequest(ctx, "Invalid current_deadline", string(domainerror.ErrCodeInvalidSavingPlanDeadline))
			return
		}
		input.CurrentDeadline = &deadline
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSavingPlanResponse(output.SavingPlan, output.Progress))
}

// Delete handles DELETE /saving-plans/:id requests.
func (c *SavingPlanController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	planID, ok := pathID(ctx, "saving plan")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), savingplan.DeleteSavingPlanInput{
		SavingPlanID: planID,
		UserID:       userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
