package savingplan_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/application/usecase/savingplan"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

type lifecycleFixture struct {
	db      *gorm.DB
	uow     adapter.UnitOfWork
	manager *savingplan.LifecycleManager
	user    *entity.User
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)

	return &lifecycleFixture{
		db:      gdb,
		uow:     uow,
		manager: savingplan.NewLifecycleManager(uow, notification.NewPublisher(adapter.EnqueueOptions{}, nil), nil),
		user:    dbtest.SeedUser(t, gdb, "cleo@example.com", "Cleo"),
	}
}

func (f *lifecycleFixture) plan(t *testing.T, id uuid.UUID) *entity.SavingPlan {
	t.Helper()

	plan, err := f.uow.Repositories().SavingPlans.FindByID(context.Background(), id, adapter.AnyState)
	require.NoError(t, err)
	return plan
}

// deposit records a credit to the plan and keeps saved_amount in step.
func (f *lifecycleFixture) deposit(t *testing.T, plan *entity.SavingPlan, amount string, at time.Time) {
	t.Helper()

	ctx := context.Background()
	repos := f.uow.Repositories()

	tx := entity.NewTransaction(plan.UserID, decimal.RequireFromString(amount), entity.TransactionTypeCredit, at, "deposit")
	planID := plan.ID
	tx.SavingPlanID = &planID
	require.NoError(t, repos.Transactions.Create(ctx, tx))
	require.NoError(t, repos.SavingPlans.AdjustSaved(ctx, plan.ID, tx.Amount))
}

func date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestSweepOverdue_ExtendsOneStepPerRun(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	today := date(2024, time.May, 10)
	plan := dbtest.SeedSavingPlan(t, f.db, f.user.ID, "1000.00", date(2024, time.March, 31), entity.FrequencyMonthly)

	result, err := f.manager.SweepOverdue(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Extended)
	assert.Equal(t, date(2024, time.April, 30), f.plan(t, plan.ID).CurrentDeadline)

	// Still overdue after one step, so the next run extends again.
	result, err = f.manager.SweepOverdue(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Extended)
	assert.Equal(t, date(2024, time.May, 30), f.plan(t, plan.ID).CurrentDeadline)

	result, err = f.manager.SweepOverdue(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, result.Checked)
	assert.Zero(t, result.Extended)

	got := f.plan(t, plan.ID)
	assert.Equal(t, date(2024, time.May, 30), got.CurrentDeadline)
	assert.Equal(t, date(2024, time.March, 31), got.OriginalDeadline)
	assert.Equal(t, entity.SavingPlanStatusActive, got.Status)

	assert.Equal(t, []string{"savings_overdue_extended", "savings_overdue_extended"}, dbtest.Templates(t, f.db))
}

func TestSweepOverdue_ExtensionByFrequency(t *testing.T) {
	tests := []struct {
		name      string
		frequency entity.Frequency
		deadline  time.Time
		want      time.Time
	}{
		{"monthly", entity.FrequencyMonthly, date(2024, time.May, 9), date(2024, time.June, 8)},
		{"weekly", entity.FrequencyWeekly, date(2024, time.May, 9), date(2024, time.May, 16)},
		{"yearly", entity.FrequencyYearly, date(2024, time.May, 1), date(2025, time.May, 1)},
		{"daily", entity.FrequencyDaily, date(2024, time.May, 1), date(2025, time.May, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture(t)
			plan := dbtest.SeedSavingPlan(t, f.db, f.user.ID, "500.00", tt.deadline, tt.frequency)

			_, err := f.manager.SweepOverdue(context.Background(), date(2024, time.May, 10))
			require.NoError(t, err)

			assert.Equal(t, tt.want, f.plan(t, plan.ID).CurrentDeadline)
		})
	}
}

func TestSweepOverdue_ReachedPlanIsCompleted(t *testing.T) {
	f := newLifecycleFixture(t)
	plan := dbtest.SeedSavingPlan(t, f.db, f.user.ID, "200.00", date(2024, time.April, 1), entity.FrequencyMonthly)
	require.NoError(t, f.uow.Repositories().SavingPlans.SetSaved(context.Background(), plan.ID, decimal.RequireFromString("200.00")))

	result, err := f.manager.SweepOverdue(context.Background(), date(2024, time.May, 10))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Completed)
	assert.Zero(t, result.Extended)

	got := f.plan(t, plan.ID)
	assert.Equal(t, entity.SavingPlanStatusCompleted, got.Status)
	assert.Equal(t, date(2024, time.April, 1), got.CurrentDeadline)
	assert.Equal(t, []string{"savings_completed"}, dbtest.Templates(t, f.db))
}

func TestSweepOverdue_SkipsPausedAndFuturePlans(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	paused := dbtest.SeedSavingPlan(t, f.db, f.user.ID, "200.00", date(2024, time.April, 1), entity.FrequencyMonthly)
	p := f.plan(t, paused.ID)
	p.Status = entity.SavingPlanStatusPaused
	require.NoError(t, f.uow.Repositories().SavingPlans.Update(ctx, p))

	dbtest.SeedSavingPlan(t, f.db, f.user.ID, "200.00", date(2024, time.May, 10), entity.FrequencyMonthly)

	result, err := f.manager.SweepOverdue(ctx, date(2024, time.May, 10))
	require.NoError(t, err)

	assert.Zero(t, result.Checked)
	assert.Empty(t, dbtest.Templates(t, f.db))
}

func TestCheckCompletion_RoundTrip(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	plan := dbtest.SeedSavingPlan(t, f.db, f.user.ID, "100.00", date(2030, time.January, 1), entity.FrequencyMonthly)

	check := func() *entity.SavingPlan {
		var got *entity.SavingPlan
		err := f.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			var err error
			got, err = f.manager.CheckCompletion(ctx, repos, plan.ID)
			return err
		})
		require.NoError(t, err)
		return got
	}

	f.deposit(t, plan, "90.00", date(2024, time.May, 1))
	assert.Equal(t, entity.SavingPlanStatusActive, check().Status)

	f.deposit(t, plan, "15.00", date(2024, time.May, 2))
	assert.Equal(t, entity.SavingPlanStatusCompleted, check().Status)
	assert.Equal(t, entity.SavingPlanStatusCompleted, check().Status)

	require.NoError(t, f.uow.Repositories().SavingPlans.AdjustSaved(ctx, plan.ID, decimal.RequireFromString("-10.00")))
	assert.Equal(t, entity.SavingPlanStatusActive, check().Status)

	assert.Equal(t, []string{"savings_completed"}, dbtest.Templates(t, f.db))
}

func TestCheckProgress_FlagsPlansBehindSchedule(t *testing.T) {
	f := newLifecycleFixture(t)
	today := date(2024, time.May, 10)

	// 90 days left on a monthly plan: three periods of 300.00.
	behind := dbtest.SeedSavingPlan(t, f.db, f.user.ID, "900.00", date(2024, time.August, 8), entity.FrequencyMonthly)
	f.deposit(t, behind, "100.00", date(2024, time.May, 3))
	f.deposit(t, behind, "50.00", date(2024, time.April, 20))

	// 30 days left: one period covering the remaining 300.00.
	onTrack := dbtest.SeedSavingPlan(t, f.db, f.user.ID, "600.00", date(2024, time.June, 9), entity.FrequencyMonthly)
	f.deposit(t, onTrack, "300.00", date(2024, time.May, 2))

	dbtest.SeedSavingPlan(t, f.db, f.user.ID, "600.00", date(2024, time.May, 1), entity.FrequencyMonthly)

	reports, err := f.manager.CheckProgress(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	byPlan := make(map[uuid.UUID]savingplan.ProgressReport)
	for _, r := range reports {
		byPlan[r.PlanID] = r
	}

	r := byPlan[behind.ID]
	assert.True(t, r.Behind)
	assert.True(t, r.Notified)
	assert.Equal(t, 90, r.DaysRemaining)
	assert.Equal(t, 3, r.RemainingPeriods)
	assert.Equal(t, "250.00", r.RequiredPerPeriod.StringFixed(2))
	assert.Equal(t, "100.00", r.SavedThisPeriod.StringFixed(2))

	r = byPlan[onTrack.ID]
	assert.False(t, r.Behind)
	assert.False(t, r.Notified)
	assert.Equal(t, "300.00", r.RequiredPerPeriod.StringFixed(2))

	assert.Equal(t, []string{"savings_behind_schedule"}, dbtest.Templates(t, f.db))

	// Advisory only.
	got := f.plan(t, behind.ID)
	assert.Equal(t, entity.SavingPlanStatusActive, got.Status)
	assert.Equal(t, date(2024, time.August, 8), got.CurrentDeadline)
}

func TestCheckProgress_RespectsGoalAlertPreference(t *testing.T) {
	f := newLifecycleFixture(t)
	f.user.GoalAlerts = false
	dbtest.SaveUser(t, f.db, f.user)

	dbtest.SeedSavingPlan(t, f.db, f.user.ID, "900.00", date(2024, time.August, 8), entity.FrequencyMonthly)

	reports, err := f.manager.CheckProgress(context.Background(), date(2024, time.May, 10))
	require.NoError(t, err)
	require.Len(t, reports, 1)

	assert.True(t, reports[0].Behind)
	assert.False(t, reports[0].Notified)
	assert.Empty(t, dbtest.Templates(t, f.db))
}
