// Package savingplan contains saving plan use cases and the plan lifecycle.
package savingplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

const dateLayout = "2006-01-02"

// SweepResult summarizes one overdue sweep.
type SweepResult struct {
	Checked   int
	Completed int
	Extended  int
	Failed    int
}

// ProgressReport is the outcome of checking one plan against its schedule.
type ProgressReport struct {
	PlanID            uuid.UUID
	UserID            uuid.UUID
	RequiredPerPeriod decimal.Decimal
	SavedThisPeriod   decimal.Decimal
	DaysRemaining     int
	RemainingPeriods  int
	Behind            bool
	Notified          bool
}

// LifecycleManager moves saving plans through their statuses and reminds
// users about deadlines and progress.
type LifecycleManager struct {
	uow       adapter.UnitOfWork
	publisher *notification.Publisher
	logger    *slog.Logger
}

// NewLifecycleManager creates a new LifecycleManager.
func NewLifecycleManager(uow adapter.UnitOfWork, publisher *notification.Publisher, logger *slog.Logger) *LifecycleManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleManager{
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// CheckCompletion completes a plan whose saved amount reached the target and
// reopens a completed plan that fell below it. Deleted plans are left alone
// and yield nil.
func (m *LifecycleManager) CheckCompletion(ctx context.Context, repos adapter.Repositories, planID uuid.UUID) (*entity.SavingPlan, error) {
	plan, err := repos.SavingPlans.FindForUpdate(ctx, planID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSavingPlanNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock saving plan: %w", err)
	}

	status, changed := plan.SyncCompletion()
	if !changed {
		return plan, nil
	}

	plan.UpdatedAt = time.Now().UTC()
	if err := repos.SavingPlans.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update saving plan status: %w", err)
	}

	m.logger.Info("Saving plan status changed",
		"saving_plan_id", plan.ID,
		"status", status,
	)

	if status == entity.SavingPlanStatusCompleted {
		if err := m.notifyCompleted(ctx, repos, plan); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// SweepOverdue handles every active plan whose deadline has passed: reached
// plans are completed, the rest get their deadline extended by one step.
// Each plan is handled in its own unit of work.
func (m *LifecycleManager) SweepOverdue(ctx context.Context, today time.Time) (*SweepResult, error) {
	today = valueobject.StartOfDay(today)
	status := entity.SavingPlanStatusActive

	plans, err := m.uow.Repositories().SavingPlans.List(ctx, adapter.SavingPlanFilter{
		Status:         &status,
		DeadlineBefore: &today,
		State:          adapter.OnlyActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue saving plans: %w", err)
	}

	result := &SweepResult{}
	for _, candidate := range plans {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Checked++

		err := m.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			return m.sweepOne(ctx, repos, candidate.ID, today, result)
		})
		if err != nil {
			result.Failed++
			m.logger.Error("Failed to sweep overdue saving plan",
				"saving_plan_id", candidate.ID,
				"error", err,
			)
		}
	}

	m.logger.Info("Overdue saving plan sweep finished",
		"checked", result.Checked,
		"completed", result.Completed,
		"extended", result.Extended,
		"failed", result.Failed,
	)
	return result, nil
}

func (m *LifecycleManager) sweepOne(ctx context.Context, repos adapter.Repositories, planID uuid.UUID, today time.Time, result *SweepResult) error {
	plan, err := repos.SavingPlans.FindForUpdate(ctx, planID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSavingPlanNotFound) {
			return nil
		}
		return fmt.Errorf("failed to lock saving plan: %w", err)
	}

	// Another worker may have handled it since the list was read.
	if plan.Status != entity.SavingPlanStatusActive || !plan.IsOverdue(today) {
		return nil
	}

	if plan.IsReached() {
		plan.Status = entity.SavingPlanStatusCompleted
		plan.UpdatedAt = time.Now().UTC()
		if err := repos.SavingPlans.Update(ctx, plan); err != nil {
			return fmt.Errorf("failed to complete saving plan: %w", err)
		}
		if err := m.notifyCompleted(ctx, repos, plan); err != nil {
			return err
		}
		result.Completed++
		return nil
	}

	previousDeadline := plan.CurrentDeadline
	newDeadline := plan.ExtendDeadline()
	plan.UpdatedAt = time.Now().UTC()
	if err := repos.SavingPlans.Update(ctx, plan); err != nil {
		return fmt.Errorf("failed to extend saving plan deadline: %w", err)
	}

	data := map[string]interface{}{
		"plan_name":        plan.Name,
		"deadline":         previousDeadline.Format(dateLayout),
		"new_deadline":     newDeadline.Format(dateLayout),
		"target_amount":    valueobject.FormatMoney(plan.Amount),
		"total_saved":      valueobject.FormatMoney(plan.SavedAmount),
		"remaining_amount": valueobject.FormatMoney(plan.Remaining()),
		"extension_days":   plan.ExtensionDays(),
	}
	if _, err := m.publisher.Publish(ctx, repos, plan.UserID, entity.TemplateSavingsOverdueExtended, data); err != nil {
		return err
	}

	m.logger.Info("Saving plan deadline extended",
		"saving_plan_id", plan.ID,
		"new_deadline", newDeadline.Format(dateLayout),
	)
	result.Extended++
	return nil
}

// CheckProgress compares each running plan's savings in the current period
// with what is needed to meet the deadline, and reminds users who are behind.
// Plan state is never modified.
func (m *LifecycleManager) CheckProgress(ctx context.Context, today time.Time) ([]ProgressReport, error) {
	today = valueobject.StartOfDay(today)
	status := entity.SavingPlanStatusActive

	plans, err := m.uow.Repositories().SavingPlans.List(ctx, adapter.SavingPlanFilter{
		Status:            &status,
		DeadlineOnOrAfter: &today,
		State:             adapter.OnlyActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active saving plans: %w", err)
	}

	reports := make([]ProgressReport, 0, len(plans))
	for _, plan := range plans {
		if ctx.Err() != nil {
			return reports, ctx.Err()
		}
		if !plan.Remaining().IsPositive() {
			continue
		}

		var report ProgressReport
		err := m.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			r, err := m.checkOne(ctx, repos, plan, today)
			if err != nil {
				return err
			}
			report = r
			return nil
		})
		if err != nil {
			m.logger.Error("Failed to check saving plan progress",
				"saving_plan_id", plan.ID,
				"error", err,
			)
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (m *LifecycleManager) checkOne(ctx context.Context, repos adapter.Repositories, plan *entity.SavingPlan, today time.Time) (ProgressReport, error) {
	progress := ComputeProgress(plan, today)
	start, end := periodWindow(today, plan.Frequency)

	saved, err := repos.Transactions.SumForSavingPlan(ctx, plan.ID, &start, &end)
	if err != nil {
		return ProgressReport{}, fmt.Errorf("failed to sum period savings: %w", err)
	}
	saved = valueobject.RoundMoney(saved)

	report := ProgressReport{
		PlanID:            plan.ID,
		UserID:            plan.UserID,
		RequiredPerPeriod: progress.RequiredPerPeriod,
		SavedThisPeriod:   saved,
		DaysRemaining:     progress.DaysRemaining,
		RemainingPeriods:  progress.RemainingPeriods,
		Behind:            saved.LessThan(progress.RequiredPerPeriod),
	}
	if !report.Behind {
		return report, nil
	}

	data := map[string]interface{}{
		"plan_name":           plan.Name,
		"target_amount":       valueobject.FormatMoney(plan.Amount),
		"total_saved":         valueobject.FormatMoney(plan.SavedAmount),
		"remaining_amount":    valueobject.FormatMoney(progress.Remaining),
		"required_per_period": valueobject.FormatMoney(progress.RequiredPerPeriod),
		"saved_this_period":   valueobject.FormatMoney(saved),
		"frequency":           periodLabel(plan.Frequency),
		"days_remaining":      progress.DaysRemaining,
		"deadline":            plan.CurrentDeadline.Format(dateLayout),
	}
	notified, err := m.publisher.Publish(ctx, repos, plan.UserID, entity.TemplateSavingsBehindSchedule, data)
	if err != nil {
		return ProgressReport{}, err
	}
	report.Notified = notified
	return report, nil
}

func (m *LifecycleManager) notifyCompleted(ctx context.Context, repos adapter.Repositories, plan *entity.SavingPlan) error {
	data := map[string]interface{}{
		"plan_name":     plan.Name,
		"target_amount": valueobject.FormatMoney(plan.Amount),
		"total_saved":   valueobject.FormatMoney(plan.SavedAmount),
	}
	_, err := m.publisher.Publish(ctx, repos, plan.UserID, entity.TemplateSavingsCompleted, data)
	return err
}

func periodLabel(frequency entity.Frequency) string {
	switch frequency {
	case entity.FrequencyDaily:
		return "day"
	case entity.FrequencyWeekly:
		return "week"
	case entity.FrequencyYearly:
		return "year"
	default:
		return "month"
	}
}
