// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/application/usecase/recurring"
	"github.com/finance-tracker/ledger/internal/application/usecase/savingplan"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/infra/server/router"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/cache"
	"github.com/finance-tracker/ledger/internal/integration/email"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/queue"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *slog.Logger

	UnitOfWork adapter.UnitOfWork
	Tasks      adapter.TaskRepository
	Locker     adapter.Locker

	Maintainer *ledger.Maintainer
	Reconciler *ledger.ReconcileAllUseCase
	Scheduler  *recurring.Scheduler
	Lifecycle  *savingplan.LifecycleManager
	Notifier   *budget.ThresholdNotifier

	Executor    *queue.Executor
	Housekeeper *queue.Housekeeper

	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case locks are process-local and
// notification delivery is not deduplicated across retries.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *slog.Logger) (*Injector, error) {
	if logger == nil {
		logger = slog.Default()
	}

	uow := persistence.NewUnitOfWork(db)
	tasks := persistence.NewTaskRepository(db)

	// Core engine
	taskOptions := adapter.EnqueueOptions{
		MaxRetries:   cfg.Queue.MaxRetries,
		RetryBackoff: cfg.Queue.RetryBackoff,
	}
	publisher := notification.NewPublisher(taskOptions, logger)
	lifecycle := savingplan.NewLifecycleManager(uow, publisher, logger)
	maintainer := ledger.NewMaintainer(lifecycle, logger).WithTaskOptions(taskOptions)
	scheduler := recurring.NewScheduler(uow, maintainer, publisher, logger).WithBatchSize(cfg.Scheduler.RecurringBatch)
	notifier := budget.NewThresholdNotifier(uow, publisher, logger)
	reconciler := ledger.NewReconcileAllUseCase(uow, maintainer, logger)

	// Notification delivery
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	var emailSender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		resendClient := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
		if cfg.Email.BaseURL != "" {
			if resendClient, err = resendClient.WithBaseURL(cfg.Email.BaseURL); err != nil {
				return nil, err
			}
		}
		emailSender = resendClient
	} else {
		logger.Warn("RESEND_API_KEY not set, notifications are logged instead of sent")
		emailSender = email.NewLogSender(logger)
	}
	dispatcher := email.NewDispatcher(emailSender, renderer, logger)

	locker := persistence.NewJobLocker(db)
	var guard adapter.DeliveryGuard
	if redisClient != nil {
		locker = cache.NewRedisLocker(redisClient, cfg.Redis.KeyPrefix)
		guard = cache.NewRedisDeliveryGuard(redisClient)
	}

	executor := queue.NewExecutor(tasks, logger)
	executor.Register(entity.TaskCheckBudgetThresholds, notifier)
	executor.Register(entity.TaskSendNotification, notification.NewSendHandler(dispatcher, guard, logger))

	housekeeper := queue.NewHousekeeper(tasks, cfg.Queue.StaleAfter, cfg.Queue.RetainDays, logger)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(uow)
	createCategoryUseCase := category.NewCreateCategoryUseCase(uow)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(uow)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(uow)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(uow)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(uow)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(uow, maintainer)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(uow, maintainer)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(uow, maintainer)
	bulkDeleteTransactionsUseCase := transaction.NewBulkDeleteTransactionsUseCase(uow, maintainer)

	// Create budget use cases
	listBudgetsUseCase := budget.NewListBudgetsUseCase(uow)
	getBudgetUseCase := budget.NewGetBudgetUseCase(uow)
	createBudgetUseCase := budget.NewCreateBudgetUseCase(uow, maintainer)
	updateBudgetUseCase := budget.NewUpdateBudgetUseCase(uow, maintainer)
	deleteBudgetUseCase := budget.NewDeleteBudgetUseCase(uow)

	// Create saving plan use cases
	listSavingPlansUseCase := savingplan.NewListSavingPlansUseCase(uow)
	getSavingPlanUseCase := savingplan.NewGetSavingPlanUseCase(uow)
	createSavingPlanUseCase := savingplan.NewCreateSavingPlanUseCase(uow)
	updateSavingPlanUseCase := savingplan.NewUpdateSavingPlanUseCase(uow, lifecycle)
	deleteSavingPlanUseCase := savingplan.NewDeleteSavingPlanUseCase(uow)

	// Create recurring transaction use cases
	listRecurringUseCase := recurring.NewListRecurringTransactionsUseCase(uow)
	getRecurringUseCase := recurring.NewGetRecurringTransactionUseCase(uow)
	createRecurringUseCase := recurring.NewCreateRecurringTransactionUseCase(uow)
	updateRecurringUseCase := recurring.NewUpdateRecurringTransactionUseCase(uow)
	deleteRecurringUseCase := recurring.NewDeleteRecurringTransactionUseCase(uow)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, redisHealthChecker(redisClient))

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		getTransactionUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		bulkDeleteTransactionsUseCase,
	)

	budgetController := controller.NewBudgetController(
		listBudgetsUseCase,
		getBudgetUseCase,
		createBudgetUseCase,
		updateBudgetUseCase,
		deleteBudgetUseCase,
	)

	savingPlanController := controller.NewSavingPlanController(
		listSavingPlansUseCase,
		getSavingPlanUseCase,
		createSavingPlanUseCase,
		updateSavingPlanUseCase,
		deleteSavingPlanUseCase,
	)

	recurringController := controller.NewRecurringTransactionController(
		listRecurringUseCase,
		getRecurringUseCase,
		createRecurringUseCase,
		updateRecurringUseCase,
		deleteRecurringUseCase,
	)

	// Create middleware
	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitWindow)
	if redisClient != nil {
		rateLimiter, err = middleware.NewRedisRateLimiter(redisClient, cfg.Redis.KeyPrefix, cfg.Server.RateLimit, cfg.Server.RateLimitWindow)
		if err != nil {
			return nil, err
		}
	}
	authMiddleware := middleware.NewAuthMiddleware(adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer))

	r := router.NewRouter(
		healthController,
		categoryController,
		transactionController,
		budgetController,
		savingPlanController,
		recurringController,
		rateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Logger:      logger,
		UnitOfWork:  uow,
		Tasks:       tasks,
		Locker:      locker,
		Maintainer:  maintainer,
		Reconciler:  reconciler,
		Scheduler:   scheduler,
		Lifecycle:   lifecycle,
		Notifier:    notifier,
		Executor:    executor,
		Housekeeper: housekeeper,
		Router:      r,
	}, nil
}

// WorkerConfig returns the task worker settings from the queue configuration.
func (i *Injector) WorkerConfig() queue.WorkerConfig {
	return queue.WorkerConfig{
		PollInterval: i.Config.Queue.PollInterval,
		BatchSize:    i.Config.Queue.BatchSize,
	}
}

func redisHealthChecker(client *redis.Client) func() bool {
	if client == nil {
		return nil
	}
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	}
}
