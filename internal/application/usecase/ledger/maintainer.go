// Package ledger keeps budget and saving plan aggregates consistent with the
// transaction ledger.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// CompletionChecker re-evaluates a saving plan after its saved amount moved.
type CompletionChecker interface {
	CheckCompletion(ctx context.Context, repos adapter.Repositories, planID uuid.UUID) (*entity.SavingPlan, error)
}

// Maintainer applies ledger writes to the derived aggregates. Every method
// runs against the repositories of the caller's unit of work, so the
// transaction write and the aggregate change commit together.
type Maintainer struct {
	completion  CompletionChecker
	taskOptions adapter.EnqueueOptions
	logger      *slog.Logger
}

// NewMaintainer creates a new Maintainer.
func NewMaintainer(completion CompletionChecker, logger *slog.Logger) *Maintainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Maintainer{
		completion: completion,
		logger:     logger,
	}
}

// WithTaskOptions sets the retry policy of the threshold checks it queues.
func (m *Maintainer) WithTaskOptions(opts adapter.EnqueueOptions) *Maintainer {
	m.taskOptions = opts
	return m
}

// touched collects the aggregates changed by one ledger write.
type touched struct {
	budgets []uuid.UUID
	plans   []uuid.UUID
}

func (t *touched) addBudget(id uuid.UUID) {
	for _, existing := range t.budgets {
		if existing == id {
			return
		}
	}
	t.budgets = append(t.budgets, id)
}

func (t *touched) addPlan(id uuid.UUID) {
	for _, existing := range t.plans {
		if existing == id {
			return
		}
	}
	t.plans = append(t.plans, id)
}

// OnTransactionCreated adds a new transaction to its budget and saving plan.
func (m *Maintainer) OnTransactionCreated(ctx context.Context, repos adapter.Repositories, tx *entity.Transaction) error {
	var t touched
	if err := m.apply(ctx, repos, tx, false, &t); err != nil {
		return err
	}
	return m.settle(ctx, repos, &t)
}

// OnTransactionUpdated moves a transaction's contribution from its previous
// targets to its current ones. Edits that do not affect any aggregate are ignored.
func (m *Maintainer) OnTransactionUpdated(ctx context.Context, repos adapter.Repositories, updated, previous *entity.Transaction) error {
	if !updated.AggregateFieldsChanged(previous) {
		return nil
	}

	var t touched
	if err := m.apply(ctx, repos, previous, true, &t); err != nil {
		return err
	}
	if err := m.apply(ctx, repos, updated, false, &t); err != nil {
		return err
	}
	return m.settle(ctx, repos, &t)
}

// OnTransactionDeleted removes a soft-deleted transaction from its aggregates.
func (m *Maintainer) OnTransactionDeleted(ctx context.Context, repos adapter.Repositories, tx *entity.Transaction) error {
	var t touched
	if err := m.apply(ctx, repos, tx, true, &t); err != nil {
		return err
	}
	return m.settle(ctx, repos, &t)
}

func (m *Maintainer) apply(ctx context.Context, repos adapter.Repositories, tx *entity.Transaction, subtract bool, t *touched) error {
	delta := tx.Amount
	if subtract {
		delta = delta.Neg()
	}

	if tx.CountsTowardBudget() {
		budget, err := repos.Budgets.FindByPeriod(ctx, tx.UserID, *tx.CategoryID, tx.Month(), tx.Year())
		if err != nil {
			return fmt.Errorf("failed to find budget: %w", err)
		}
		if budget != nil {
			if err := repos.Budgets.AdjustSpent(ctx, budget.ID, delta); err != nil {
				return fmt.Errorf("failed to adjust budget spent amount: %w", err)
			}
			t.addBudget(budget.ID)
		}
	}

	if tx.SavingPlanID != nil {
		if err := repos.SavingPlans.AdjustSaved(ctx, *tx.SavingPlanID, delta); err != nil {
			return fmt.Errorf("failed to adjust saving plan saved amount: %w", err)
		}
		t.addPlan(*tx.SavingPlanID)
	}

	return nil
}

// settle runs the follow-up hooks once per touched aggregate.
func (m *Maintainer) settle(ctx context.Context, repos adapter.Repositories, t *touched) error {
	for _, budgetID := range t.budgets {
		if err := m.EnqueueThresholdCheck(ctx, repos, budgetID); err != nil {
			return err
		}
	}

	if m.completion == nil {
		return nil
	}
	for _, planID := range t.plans {
		if _, err := m.completion.CheckCompletion(ctx, repos, planID); err != nil {
			return fmt.Errorf("failed to check saving plan completion: %w", err)
		}
	}
	return nil
}

// Reconcile recomputes a budget scope from the ledger and stores the result
// on the active budget, if one exists. It returns the recomputed spent amount.
func (m *Maintainer) Reconcile(ctx context.Context, repos adapter.Repositories, userID, categoryID uuid.UUID, month, year int) (decimal.Decimal, error) {
	from, to := valueobject.MonthBounds(year, time.Month(month))

	spent, err := repos.Transactions.SumDebitsForCategory(ctx, userID, categoryID, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum category debits: %w", err)
	}
	spent = valueobject.RoundMoney(spent)

	budget, err := repos.Budgets.FindByPeriod(ctx, userID, categoryID, month, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find budget: %w", err)
	}
	if budget == nil {
		return spent, nil
	}

	if !budget.SpentAmount.Equal(spent) {
		m.logger.Info("Budget spent amount reconciled",
			"budget_id", budget.ID,
			"previous", budget.SpentAmount.StringFixed(2),
			"recomputed", spent.StringFixed(2),
		)
	}

	if err := repos.Budgets.SetSpent(ctx, budget.ID, spent); err != nil {
		return decimal.Zero, fmt.Errorf("failed to store reconciled spent amount: %w", err)
	}
	if err := m.EnqueueThresholdCheck(ctx, repos, budget.ID); err != nil {
		return decimal.Zero, err
	}

	return spent, nil
}

// ReconcileSavingPlan recomputes a plan's saved amount from the ledger.
func (m *Maintainer) ReconcileSavingPlan(ctx context.Context, repos adapter.Repositories, planID uuid.UUID) (decimal.Decimal, error) {
	saved, err := repos.Transactions.SumForSavingPlan(ctx, planID, nil, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum saving plan transactions: %w", err)
	}
	saved = valueobject.RoundMoney(saved)

	if err := repos.SavingPlans.SetSaved(ctx, planID, saved); err != nil {
		return decimal.Zero, fmt.Errorf("failed to store reconciled saved amount: %w", err)
	}

	if m.completion != nil {
		if _, err := m.completion.CheckCompletion(ctx, repos, planID); err != nil {
			return decimal.Zero, fmt.Errorf("failed to check saving plan completion: %w", err)
		}
	}

	return saved, nil
}

// EnqueueThresholdCheck queues a budget threshold evaluation.
func (m *Maintainer) EnqueueThresholdCheck(ctx context.Context, repos adapter.Repositories, budgetID uuid.UUID) error {
	payload := map[string]interface{}{"budget_id": budgetID.String()}
	if _, err := repos.Tasks.Enqueue(ctx, entity.TaskCheckBudgetThresholds, payload, m.taskOptions); err != nil {
		return fmt.Errorf("failed to enqueue budget threshold check: %w", err)
	}
	return nil
}
