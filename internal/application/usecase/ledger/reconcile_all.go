package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// ReconcileAllOutput summarizes a full reconciliation pass.
type ReconcileAllOutput struct {
	BudgetsChecked  int
	BudgetsRepaired int
	PlansChecked    int
	PlansRepaired   int
	Failures        int
}

// ReconcileAllUseCase recomputes every active budget and saving plan from the
// ledger. Each aggregate is repaired in its own unit of work.
type ReconcileAllUseCase struct {
	uow        adapter.UnitOfWork
	maintainer *Maintainer
	logger     *slog.Logger
}

// NewReconcileAllUseCase creates a new ReconcileAllUseCase instance.
func NewReconcileAllUseCase(uow adapter.UnitOfWork, maintainer *Maintainer, logger *slog.Logger) *ReconcileAllUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileAllUseCase{
		uow:        uow,
		maintainer: maintainer,
		logger:     logger,
	}
}

// Execute performs the reconciliation.
func (uc *ReconcileAllUseCase) Execute(ctx context.Context) (*ReconcileAllOutput, error) {
	reads := uc.uow.Repositories()
	out := &ReconcileAllOutput{}

	budgets, err := reads.Budgets.List(ctx, adapter.BudgetFilter{State: adapter.OnlyActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	for _, budget := range budgets {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		out.BudgetsChecked++

		err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			spent, err := uc.maintainer.Reconcile(ctx, repos, budget.UserID, budget.CategoryID, budget.Month, budget.Year)
			if err != nil {
				return err
			}
			if !spent.Equal(budget.SpentAmount) {
				out.BudgetsRepaired++
			}
			return nil
		})
		if err != nil {
			out.Failures++
			uc.logger.Error("Failed to reconcile budget", "budget_id", budget.ID, "error", err)
		}
	}

	plans, err := reads.SavingPlans.List(ctx, adapter.SavingPlanFilter{State: adapter.OnlyActive})
	if err != nil {
		return out, fmt.Errorf("failed to list saving plans: %w", err)
	}

	for _, plan := range plans {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		out.PlansChecked++

		err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			saved, err := uc.maintainer.ReconcileSavingPlan(ctx, repos, plan.ID)
			if err != nil {
				return err
			}
			if !saved.Equal(plan.SavedAmount) {
				out.PlansRepaired++
			}
			return nil
		})
		if err != nil {
			out.Failures++
			uc.logger.Error("Failed to reconcile saving plan", "saving_plan_id", plan.ID, "error", err)
		}
	}

	uc.logger.Info("Reconciliation finished",
		"budgets_checked", out.BudgetsChecked,
		"budgets_repaired", out.BudgetsRepaired,
		"plans_checked", out.PlansChecked,
		"plans_repaired", out.PlansRepaired,
		"failures", out.Failures,
	)

	return out, nil
}
