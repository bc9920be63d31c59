package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// ThresholdNotifier decides when a budget crosses its warning or exceeded
// threshold and queues the matching notification at most once per crossing.
type ThresholdNotifier struct {
	uow       adapter.UnitOfWork
	publisher *notification.Publisher
	logger    *slog.Logger
}

// NewThresholdNotifier creates a new ThresholdNotifier.
func NewThresholdNotifier(uow adapter.UnitOfWork, publisher *notification.Publisher, logger *slog.Logger) *ThresholdNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThresholdNotifier{
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes a budget.check_thresholds task in its own unit of work.
func (n *ThresholdNotifier) Handle(ctx context.Context, task *entity.Task) error {
	raw, _ := task.Payload["budget_id"].(string)
	budgetID, err := uuid.Parse(raw)
	if err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeInvalidTaskPayload,
			"budget threshold payload requires a valid budget_id",
			domainerror.ErrInvalidTaskPayload,
		)
	}

	return n.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		_, err := n.Evaluate(ctx, repos, budgetID)
		return err
	})
}

// Evaluate locks the budget, clears flags that no longer apply and queues the
// pending notification, if any. It returns the threshold that was notified.
// A budget deleted since the check was queued yields ThresholdNone.
func (n *ThresholdNotifier) Evaluate(ctx context.Context, repos adapter.Repositories, budgetID uuid.UUID) (entity.ThresholdType, error) {
	budget, err := repos.Budgets.FindForUpdate(ctx, budgetID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			n.logger.Debug("Budget gone before threshold check", "budget_id", budgetID)
			return entity.ThresholdNone, nil
		}
		return entity.ThresholdNone, fmt.Errorf("failed to lock budget: %w", err)
	}

	changed := budget.ResetThresholdFlags()
	threshold := budget.PendingThreshold()

	if threshold != entity.ThresholdNone {
		data, err := n.templateData(ctx, repos, budget, threshold)
		if err != nil {
			return entity.ThresholdNone, err
		}

		if _, err := n.publisher.Publish(ctx, repos, budget.UserID, entity.ThresholdTemplate(threshold), data); err != nil {
			return entity.ThresholdNone, err
		}

		budget.MarkThresholdSent(threshold)
		changed = true

		n.logger.Info("Budget threshold crossed",
			"budget_id", budget.ID,
			"threshold", threshold,
			"percentage", budget.PercentageUsed(),
		)
	}

	if changed {
		if err := repos.Budgets.SaveThresholdFlags(ctx, budget); err != nil {
			return entity.ThresholdNone, fmt.Errorf("failed to save threshold flags: %w", err)
		}
	}

	return threshold, nil
}

func (n *ThresholdNotifier) templateData(ctx context.Context, repos adapter.Repositories, budget *entity.Budget, threshold entity.ThresholdType) (map[string]interface{}, error) {
	categoryName := ""
	category, err := repos.Categories.FindByID(ctx, budget.CategoryID, adapter.AnyState)
	switch {
	case err == nil:
		categoryName = category.Name
	case !errors.Is(err, domainerror.ErrCategoryNotFound):
		return nil, fmt.Errorf("failed to load budget category: %w", err)
	}

	data := map[string]interface{}{
		"category_name": categoryName,
		"month_name":    valueobject.MonthName(budget.Month),
		"year":          budget.Year,
		"budget_amount": valueobject.FormatMoney(budget.Amount),
		"spent_amount":  valueobject.FormatMoney(budget.SpentAmount),
		"percentage":    budget.PercentageUsed(),
	}
	if threshold == entity.ThresholdExceeded {
		data["overspent"] = valueobject.FormatMoney(budget.Overspent())
	} else {
		data["remaining"] = valueobject.FormatMoney(budget.Remaining())
	}
	return data, nil
}
