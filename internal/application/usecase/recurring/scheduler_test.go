package recurring_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/application/usecase/recurring"
	"github.com/finance-tracker/ledger/internal/application/usecase/savingplan"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

type schedulerFixture struct {
	db        *gorm.DB
	uow       adapter.UnitOfWork
	scheduler *recurring.Scheduler
	user      *entity.User
	category  *entity.Category
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()

	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	publisher := notification.NewPublisher(adapter.EnqueueOptions{}, nil)
	maintainer := ledger.NewMaintainer(savingplan.NewLifecycleManager(uow, publisher, nil), nil)
	user := dbtest.SeedUser(t, gdb, "dan@example.com", "Dan")

	return &schedulerFixture{
		db:        gdb,
		uow:       uow,
		scheduler: recurring.NewScheduler(uow, maintainer, publisher, nil),
		user:      user,
		category:  dbtest.SeedCategory(t, gdb, user.ID, "Rent"),
	}
}

func (f *schedulerFixture) define(t *testing.T, frequency entity.Frequency, startsAt time.Time) *entity.RecurringTransaction {
	t.Helper()

	def := entity.NewRecurringTransaction(f.user.ID, decimal.RequireFromString("950.00"), entity.TransactionTypeDebit, frequency, startsAt, "Rent")
	categoryID := f.category.ID
	def.CategoryID = &categoryID
	require.NoError(t, f.uow.Repositories().Recurring.Create(context.Background(), def))
	return def
}

func (f *schedulerFixture) reload(t *testing.T, def *entity.RecurringTransaction) *entity.RecurringTransaction {
	t.Helper()

	got, err := f.uow.Repositories().Recurring.FindByID(context.Background(), def.ID, adapter.AnyState)
	require.NoError(t, err)
	return got
}

func (f *schedulerFixture) process(t *testing.T, now time.Time) []recurring.Outcome {
	t.Helper()

	outcomes, err := f.scheduler.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	return outcomes
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
}

func TestScheduler_MonthEndAnchorSurvivesShortMonths(t *testing.T) {
	f := newSchedulerFixture(t)
	def := f.define(t, entity.FrequencyMonthly, at(2024, time.January, 31))

	want := []time.Time{
		at(2024, time.February, 29),
		at(2024, time.March, 31),
		at(2024, time.April, 30),
	}

	now := at(2024, time.January, 31)
	for _, next := range want {
		outcomes := f.process(t, now)
		require.Len(t, outcomes, 1)
		require.Equal(t, recurring.OutcomeGenerated, outcomes[0].Status)

		tx, err := f.uow.Repositories().Transactions.FindByID(context.Background(), *outcomes[0].TransactionID, adapter.OnlyActive)
		require.NoError(t, err)
		assert.Equal(t, now, tx.TransactionAt)
		require.NotNil(t, tx.RecurringID)
		assert.Equal(t, def.ID, *tx.RecurringID)

		assert.Equal(t, next, f.reload(t, def).NextTransactionAt)
		now = next
	}
}

func TestScheduler_CatchesUpOneOccurrencePerCall(t *testing.T) {
	f := newSchedulerFixture(t)
	def := f.define(t, entity.FrequencyDaily, at(2024, time.January, 1))
	now := at(2024, time.January, 4)

	for i := 0; i < 4; i++ {
		outcomes := f.process(t, now)
		require.Len(t, outcomes, 1, "call %d", i)
		assert.Equal(t, recurring.OutcomeGenerated, outcomes[0].Status)
	}

	assert.Empty(t, f.process(t, now))
	assert.Equal(t, at(2024, time.January, 5), f.reload(t, def).NextTransactionAt)

	txs, err := f.uow.Repositories().Transactions.List(context.Background(), adapter.TransactionFilter{
		UserID: f.user.ID,
		State:  adapter.OnlyActive,
	})
	require.NoError(t, err)
	assert.Len(t, txs, 4)
}

func TestScheduler_GeneratedTransactionFeedsBudget(t *testing.T) {
	f := newSchedulerFixture(t)
	budget := dbtest.SeedBudget(t, f.db, f.user.ID, f.category.ID, 2, 2024, "1000.00")
	f.define(t, entity.FrequencyMonthly, at(2024, time.February, 1))

	f.process(t, at(2024, time.February, 1))

	got, err := f.uow.Repositories().Budgets.FindByID(context.Background(), budget.ID, adapter.AnyState)
	require.NoError(t, err)
	assert.Equal(t, "950.00", got.SpentAmount.StringFixed(2))

	assert.Len(t, dbtest.Tasks(t, f.db, entity.TaskCheckBudgetThresholds), 1)
	assert.Equal(t, []string{"recurring_transaction_created"}, dbtest.Templates(t, f.db))

	data, ok := dbtest.Tasks(t, f.db, entity.TaskSendNotification)[0].Payload["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-02-01", data["transaction_date"])
	assert.Equal(t, "2024-03-01", data["next_date"])
}

func TestScheduler_DeactivatesWhenScheduleEnded(t *testing.T) {
	f := newSchedulerFixture(t)
	def := entity.NewRecurringTransaction(f.user.ID, decimal.RequireFromString("10.00"), entity.TransactionTypeDebit, entity.FrequencyMonthly, at(2024, time.January, 31), "Gym")
	categoryID := f.category.ID
	def.CategoryID = &categoryID
	endsAt := at(2024, time.January, 15)
	def.EndsAt = &endsAt
	require.NoError(t, f.uow.Repositories().Recurring.Create(context.Background(), def))

	outcomes := f.process(t, at(2024, time.February, 1))
	require.Len(t, outcomes, 1)
	assert.Equal(t, recurring.OutcomeDeactivated, outcomes[0].Status)
	assert.Equal(t, "schedule ended", outcomes[0].Reason)
	assert.Nil(t, outcomes[0].TransactionID)

	assert.False(t, f.reload(t, def).IsActive())
	assert.Empty(t, f.process(t, at(2024, time.March, 1)))
}

func TestScheduler_DeactivatesWhenCategoryDeleted(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()
	def := f.define(t, entity.FrequencyWeekly, at(2024, time.January, 1))

	category, err := f.uow.Repositories().Categories.FindByID(ctx, f.category.ID, adapter.OnlyActive)
	require.NoError(t, err)
	category.MarkDeleted(time.Now().UTC())
	require.NoError(t, f.uow.Repositories().Categories.Update(ctx, category))

	outcomes := f.process(t, at(2024, time.January, 1))
	require.Len(t, outcomes, 1)
	assert.Equal(t, recurring.OutcomeDeactivated, outcomes[0].Status)
	assert.Equal(t, "category deleted", outcomes[0].Reason)

	txs, err := f.uow.Repositories().Transactions.List(ctx, adapter.TransactionFilter{UserID: f.user.ID, State: adapter.AnyState})
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.False(t, f.reload(t, def).IsActive())
}

func TestScheduler_RespectsRecurringReminderPreference(t *testing.T) {
	f := newSchedulerFixture(t)
	f.user.RecurringReminders = false
	dbtest.SaveUser(t, f.db, f.user)
	f.define(t, entity.FrequencyMonthly, at(2024, time.January, 1))

	outcomes := f.process(t, at(2024, time.January, 1))
	require.Len(t, outcomes, 1)
	assert.Equal(t, recurring.OutcomeGenerated, outcomes[0].Status)
	assert.Empty(t, dbtest.Templates(t, f.db))
}

func TestScheduler_BatchSizeLimitsOneCall(t *testing.T) {
	f := newSchedulerFixture(t)
	f.scheduler.WithBatchSize(1)
	f.define(t, entity.FrequencyMonthly, at(2024, time.January, 1))
	f.define(t, entity.FrequencyMonthly, at(2024, time.January, 2))

	now := at(2024, time.January, 3)
	assert.Len(t, f.process(t, now), 1)
	assert.Len(t, f.process(t, now), 1)
	assert.Empty(t, f.process(t, now))
}

func TestCreateRecurring_SharedCategory(t *testing.T) {
	f := newSchedulerFixture(t)
	ctx := context.Background()
	admin := dbtest.SeedUser(t, f.db, "admin@example.com", "Admin")
	shared := dbtest.SeedPredefinedCategory(t, f.db, admin.ID, "Bills & Utilities")
	private := dbtest.SeedCategory(t, f.db, admin.ID, "Admin only")
	create := recurring.NewCreateRecurringTransactionUseCase(f.uow)

	input := recurring.CreateRecurringTransactionInput{
		UserID:     f.user.ID,
		Amount:     decimal.RequireFromString("60.00"),
		Type:       entity.TransactionTypeDebit,
		Frequency:  entity.FrequencyMonthly,
		StartsAt:   at(2024, time.February, 1),
		CategoryID: &shared.ID,
	}
	out, err := create.Execute(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, shared.ID, *out.RecurringTransaction.CategoryID)

	input.CategoryID = &private.ID
	_, err = create.Execute(ctx, input)
	require.Error(t, err)
	code, _ := domainerror.CodeOf(err)
	assert.Equal(t, string(domainerror.ErrCodeRecurringTargetNotOwned), code)
}

func TestScheduler_NotYetDue(t *testing.T) {
	f := newSchedulerFixture(t)
	f.define(t, entity.FrequencyMonthly, at(2024, time.June, 1))

	assert.Empty(t, f.process(t, at(2024, time.May, 31)))
}
