// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	budgetController      *controller.BudgetController
	savingPlanController  *controller.SavingPlanController
	recurringController   *controller.RecurringTransactionController
	rateLimiter           *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	budgetController *controller.BudgetController,
	savingPlanController *controller.SavingPlanController,
	recurringController *controller.RecurringTransactionController,
	rateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		categoryController:    categoryController,
		transactionController: transactionController,
		budgetController:      budgetController,
		savingPlanController:  savingPlanController,
		recurringController:   recurringController,
		rateLimiter:           rateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every API route requires
// authentication; write routes are rate limited per user.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	if r.rateLimiter != nil {
		v1.Use(r.rateLimiter.Middleware())
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", r.categoryController.List)
		categories.POST("", r.categoryController.Create)
		categories.PATCH("/:id", r.categoryController.Update)
		categories.DELETE("/:id", r.categoryController.Delete)
	}

	transactions := v1.Group("/transactions")
	{
		transactions.GET("", r.transactionController.List)
		transactions.POST("", r.transactionController.Create)
		transactions.POST("/bulk-delete", r.transactionController.BulkDelete)
		transactions.GET("/:id", r.transactionController.Get)
		transactions.PATCH("/:id", r.transactionController.Update)
		transactions.DELETE("/:id", r.transactionController.Delete)
	}

	budgets := v1.Group("/budgets")
	{
		budgets.GET("", r.budgetController.List)
		budgets.POST("", r.budgetController.Create)
		budgets.GET("/:id", r.budgetController.Get)
		budgets.PATCH("/:id", r.budgetController.Update)
		budgets.DELETE("/:id", r.budgetController.Delete)
	}

	plans := v1.Group("/saving-plans")
	{
		plans.GET("", r.savingPlanController.List)
		plans.POST("", r.savingPlanController.Create)
		plans.GET("/:id", r.savingPlanController.Get)
		plans.PATCH("/:id", r.savingPlanController.Update)
		plans.DELETE("/:id", r.savingPlanController.Delete)
	}

	recurring := v1.Group("/recurring-transactions")
	{
		recurring.GET("", r.recurringController.List)
		recurring.POST("", r.recurringController.Create)
		recurring.GET("/:id", r.recurringController.Get)
		recurring.PATCH("/:id", r.recurringController.Update)
		recurring.DELETE("/:id", r.recurringController.Delete)
	}
}
