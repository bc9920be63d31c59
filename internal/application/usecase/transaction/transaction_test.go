package transaction_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/application/usecase/savingplan"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

type env struct {
	db         *gorm.DB
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
	create     *transaction.CreateTransactionUseCase
	update     *transaction.UpdateTransactionUseCase
	remove     *transaction.DeleteTransactionUseCase
	bulk       *transaction.BulkDeleteTransactionsUseCase
	get        *transaction.GetTransactionUseCase
	list       *transaction.ListTransactionsUseCase
	user       *entity.User
	category   *entity.Category
	plan       *entity.SavingPlan
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	publisher := notification.NewPublisher(adapter.EnqueueOptions{}, nil)
	maintainer := ledger.NewMaintainer(savingplan.NewLifecycleManager(uow, publisher, nil), nil)
	user := dbtest.SeedUser(t, gdb, "eve@example.com", "Eve")

	return &env{
		db:         gdb,
		uow:        uow,
		maintainer: maintainer,
		create:     transaction.NewCreateTransactionUseCase(uow, maintainer),
		update:     transaction.NewUpdateTransactionUseCase(uow, maintainer),
		remove:     transaction.NewDeleteTransactionUseCase(uow, maintainer),
		bulk:       transaction.NewBulkDeleteTransactionsUseCase(uow, maintainer),
		get:        transaction.NewGetTransactionUseCase(uow),
		list:       transaction.NewListTransactionsUseCase(uow),
		user:       user,
		category:   dbtest.SeedCategory(t, gdb, user.ID, "Transport"),
		plan:       dbtest.SeedSavingPlan(t, gdb, user.ID, "1000.00", time.Now().AddDate(1, 0, 0), entity.FrequencyMonthly),
	}
}

func (e *env) debit(t *testing.T, amount string) *entity.Transaction {
	t.Helper()

	categoryID := e.category.ID
	out, err := e.create.Execute(context.Background(), transaction.CreateTransactionInput{
		UserID:        e.user.ID,
		Amount:        decimal.RequireFromString(amount),
		Type:          entity.TransactionTypeDebit,
		TransactionAt: time.Date(2024, time.July, 4, 10, 0, 0, 0, time.UTC),
		CategoryID:    &categoryID,
	})
	require.NoError(t, err)
	return out.Transaction
}

func assertCode(t *testing.T, err error, want domainerror.TransactionErrorCode) {
	t.Helper()

	require.Error(t, err)
	code, ok := domainerror.CodeOf(err)
	require.True(t, ok, "expected a coded error, got %v", err)
	assert.Equal(t, string(want), code)
}

func TestCreateTransaction_Validation(t *testing.T) {
	e := newEnv(t)
	categoryID := e.category.ID
	planID := e.plan.ID

	tests := []struct {
		name  string
		input transaction.CreateTransactionInput
		want  domainerror.TransactionErrorCode
	}{
		{
			name:  "zero amount",
			input: transaction.CreateTransactionInput{Amount: decimal.Zero, Type: entity.TransactionTypeDebit, CategoryID: &categoryID},
			want:  domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name:  "negative amount",
			input: transaction.CreateTransactionInput{Amount: decimal.RequireFromString("-1"), Type: entity.TransactionTypeDebit, CategoryID: &categoryID},
			want:  domainerror.ErrCodeInvalidTransactionAmount,
		},
		{
			name:  "unknown type",
			input: transaction.CreateTransactionInput{Amount: decimal.NewFromInt(5), Type: "REFUND", CategoryID: &categoryID},
			want:  domainerror.ErrCodeInvalidTransactionType,
		},
		{
			name:  "no target",
			input: transaction.CreateTransactionInput{Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeDebit},
			want:  domainerror.ErrCodeTransactionTargetRequired,
		},
		{
			name:  "both targets",
			input: transaction.CreateTransactionInput{Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeCredit, CategoryID: &categoryID, SavingPlanID: &planID},
			want:  domainerror.ErrCodeTransactionTargetRequired,
		},
		{
			name:  "debit to saving plan",
			input: transaction.CreateTransactionInput{Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeDebit, SavingPlanID: &planID},
			want:  domainerror.ErrCodeDebitToSavingPlan,
		},
		{
			name:  "description too long",
			input: transaction.CreateTransactionInput{Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeDebit, CategoryID: &categoryID, Description: strings.Repeat("x", 256)},
			want:  domainerror.ErrCodeDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = e.user.ID
			_, err := e.create.Execute(context.Background(), tt.input)
			assertCode(t, err, tt.want)
		})
	}
}

func TestCreateTransaction_TargetOwnership(t *testing.T) {
	e := newEnv(t)
	other := dbtest.SeedUser(t, e.db, "mallory@example.com", "Mallory")
	foreignCategory := dbtest.SeedCategory(t, e.db, other.ID, "Theirs")
	foreignPlan := dbtest.SeedSavingPlan(t, e.db, other.ID, "10.00", time.Now().AddDate(0, 6, 0), entity.FrequencyWeekly)
	missing := uuid.New()

	_, err := e.create.Execute(context.Background(), transaction.CreateTransactionInput{
		UserID: e.user.ID, Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeDebit, CategoryID: &foreignCategory.ID,
	})
	assertCode(t, err, domainerror.ErrCodeTxnCategoryNotOwned)

	_, err = e.create.Execute(context.Background(), transaction.CreateTransactionInput{
		UserID: e.user.ID, Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeDebit, CategoryID: &missing,
	})
	assertCode(t, err, domainerror.ErrCodeTxnCategoryNotFound)

	_, err = e.create.Execute(context.Background(), transaction.CreateTransactionInput{
		UserID: e.user.ID, Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeCredit, SavingPlanID: &foreignPlan.ID,
	})
	assertCode(t, err, domainerror.ErrCodeTxnSavingPlanNotOwned)

	_, err = e.create.Execute(context.Background(), transaction.CreateTransactionInput{
		UserID: e.user.ID, Amount: decimal.NewFromInt(5), Type: entity.TransactionTypeCredit, SavingPlanID: &missing,
	})
	assertCode(t, err, domainerror.ErrCodeTxnSavingPlanNotFound)
}

func TestCreateTransaction_PredefinedCategoryBudgetsStayPerUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := dbtest.SeedUser(t, e.db, "admin@example.com", "Admin")
	other := dbtest.SeedUser(t, e.db, "olga@example.com", "Olga")
	shared := dbtest.SeedPredefinedCategory(t, e.db, admin.ID, "Food & Dining")
	mine := dbtest.SeedBudget(t, e.db, e.user.ID, shared.ID, 7, 2024, "200.00")
	theirs := dbtest.SeedBudget(t, e.db, other.ID, shared.ID, 7, 2024, "200.00")
	day := time.Date(2024, time.July, 9, 12, 0, 0, 0, time.UTC)

	book := func(userID uuid.UUID, amount string) {
		t.Helper()
		_, err := e.create.Execute(ctx, transaction.CreateTransactionInput{
			UserID:        userID,
			Amount:        decimal.RequireFromString(amount),
			Type:          entity.TransactionTypeDebit,
			TransactionAt: day,
			CategoryID:    &shared.ID,
		})
		require.NoError(t, err)
	}
	book(e.user.ID, "12.50")
	book(other.ID, "40.00")
	book(e.user.ID, "7.50")

	got, err := e.uow.Repositories().Budgets.FindByID(ctx, mine.ID, adapter.OnlyActive)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.SpentAmount.StringFixed(2))

	got, err = e.uow.Repositories().Budgets.FindByID(ctx, theirs.ID, adapter.OnlyActive)
	require.NoError(t, err)
	assert.Equal(t, "40.00", got.SpentAmount.StringFixed(2))

	spent, err := e.maintainer.Reconcile(ctx, e.uow.Repositories(), e.user.ID, shared.ID, 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, "20.00", spent.StringFixed(2))
}

func TestCreateTransaction_RoundsToCents(t *testing.T) {
	e := newEnv(t)

	tx := e.debit(t, "10.005")

	got, err := e.get.Execute(context.Background(), transaction.GetTransactionInput{TransactionID: tx.ID, UserID: e.user.ID})
	require.NoError(t, err)
	assert.Equal(t, "10.01", got.Transaction.Amount.StringFixed(2))
}

func TestUpdateTransaction_CannotSwitchTargetKind(t *testing.T) {
	e := newEnv(t)
	tx := e.debit(t, "20.00")
	planID := e.plan.ID

	_, err := e.update.Execute(context.Background(), transaction.UpdateTransactionInput{
		TransactionID: tx.ID,
		UserID:        e.user.ID,
		SavingPlanID:  &planID,
	})
	assertCode(t, err, domainerror.ErrCodeTargetKindChanged)
}

func TestUpdateTransaction_OnlyOwnerMayEdit(t *testing.T) {
	e := newEnv(t)
	tx := e.debit(t, "20.00")
	amount := decimal.NewFromInt(1)

	_, err := e.update.Execute(context.Background(), transaction.UpdateTransactionInput{
		TransactionID: tx.ID,
		UserID:        uuid.New(),
		Amount:        &amount,
	})
	assertCode(t, err, domainerror.ErrCodeNotAuthorizedTransaction)
}

func TestUpdateTransaction_MovesBetweenCategories(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	food := dbtest.SeedCategory(t, e.db, e.user.ID, "Food")
	transportBudget := dbtest.SeedBudget(t, e.db, e.user.ID, e.category.ID, 7, 2024, "100.00")
	foodBudget := dbtest.SeedBudget(t, e.db, e.user.ID, food.ID, 7, 2024, "100.00")

	tx := e.debit(t, "30.00")
	_, err := e.update.Execute(ctx, transaction.UpdateTransactionInput{
		TransactionID: tx.ID,
		UserID:        e.user.ID,
		CategoryID:    &food.ID,
	})
	require.NoError(t, err)

	repos := e.uow.Repositories()
	got, err := repos.Budgets.FindByID(ctx, transportBudget.ID, adapter.AnyState)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.SpentAmount.StringFixed(2))

	got, err = repos.Budgets.FindByID(ctx, foodBudget.ID, adapter.AnyState)
	require.NoError(t, err)
	assert.Equal(t, "30.00", got.SpentAmount.StringFixed(2))
}

func TestBulkDelete_AllOrNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	budget := dbtest.SeedBudget(t, e.db, e.user.ID, e.category.ID, 7, 2024, "100.00")

	first := e.debit(t, "10.00")
	second := e.debit(t, "20.00")

	_, err := e.bulk.Execute(ctx, transaction.BulkDeleteTransactionsInput{
		UserID:         e.user.ID,
		TransactionIDs: []uuid.UUID{first.ID, uuid.New()},
	})
	assertCode(t, err, domainerror.ErrCodeTransactionNotFound)

	_, err = e.get.Execute(ctx, transaction.GetTransactionInput{TransactionID: first.ID, UserID: e.user.ID})
	require.NoError(t, err, "rolled back delete must leave the transaction active")

	out, err := e.bulk.Execute(ctx, transaction.BulkDeleteTransactionsInput{
		UserID:         e.user.ID,
		TransactionIDs: []uuid.UUID{first.ID, second.ID, first.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.DeletedCount)

	got, err := e.uow.Repositories().Budgets.FindByID(ctx, budget.ID, adapter.AnyState)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.SpentAmount.StringFixed(2))

	deleted, err := e.uow.Repositories().Transactions.FindByID(ctx, first.ID, adapter.OnlyDeleted)
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)
}

// assertSpentMatchesLedger checks the July 2024 budget against a fresh sum
// of the ledger.
func (e *env) assertSpentMatchesLedger(t *testing.T, budgetID uuid.UUID, want string) {
	t.Helper()

	ctx := context.Background()
	repos := e.uow.Repositories()
	sum, err := repos.Transactions.SumDebitsForCategory(ctx, e.user.ID, e.category.ID,
		time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, err := repos.Budgets.FindByID(ctx, budgetID, adapter.AnyState)
	require.NoError(t, err)
	assert.Equal(t, want, sum.StringFixed(2))
	assert.Equal(t, sum.StringFixed(2), got.SpentAmount.StringFixed(2))
}

func TestDeleteTransaction_StaleCopiesApplyOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	budget := dbtest.SeedBudget(t, e.db, e.user.ID, e.category.ID, 7, 2024, "100.00")

	e.debit(t, "30.00")
	tx := e.debit(t, "20.00")

	first, err := e.uow.Repositories().Transactions.FindByID(ctx, tx.ID, adapter.OnlyActive)
	require.NoError(t, err)
	second, err := e.uow.Repositories().Transactions.FindByID(ctx, tx.ID, adapter.OnlyActive)
	require.NoError(t, err)

	deleteCopy := func(snapshot *entity.Transaction) error {
		return e.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			snapshot.MarkDeleted(time.Now().UTC())
			if err := repos.Transactions.Update(ctx, snapshot); err != nil {
				return err
			}
			return e.maintainer.OnTransactionDeleted(ctx, repos, snapshot)
		})
	}

	require.NoError(t, deleteCopy(first))
	err = deleteCopy(second)
	require.ErrorIs(t, err, domainerror.ErrTransactionNotFound)

	e.assertSpentMatchesLedger(t, budget.ID, "30.00")
}

func TestDeleteTransaction_SecondDeleteIsNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	budget := dbtest.SeedBudget(t, e.db, e.user.ID, e.category.ID, 7, 2024, "100.00")

	e.debit(t, "30.00")
	tx := e.debit(t, "20.00")

	_, err := e.remove.Execute(ctx, transaction.DeleteTransactionInput{TransactionID: tx.ID, UserID: e.user.ID})
	require.NoError(t, err)

	_, err = e.remove.Execute(ctx, transaction.DeleteTransactionInput{TransactionID: tx.ID, UserID: e.user.ID})
	assertCode(t, err, domainerror.ErrCodeTransactionNotFound)

	e.assertSpentMatchesLedger(t, budget.ID, "30.00")
}

func TestUpdateTransaction_StaleCopyAfterDeleteIsRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	budget := dbtest.SeedBudget(t, e.db, e.user.ID, e.category.ID, 7, 2024, "100.00")

	tx := e.debit(t, "20.00")
	stale, err := e.uow.Repositories().Transactions.FindByID(ctx, tx.ID, adapter.OnlyActive)
	require.NoError(t, err)

	_, err = e.remove.Execute(ctx, transaction.DeleteTransactionInput{TransactionID: tx.ID, UserID: e.user.ID})
	require.NoError(t, err)

	err = e.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		previous := stale.Clone()
		stale.Amount = decimal.RequireFromString("45.00")
		if err := repos.Transactions.Update(ctx, stale); err != nil {
			return err
		}
		return e.maintainer.OnTransactionUpdated(ctx, repos, stale, previous)
	})
	require.ErrorIs(t, err, domainerror.ErrTransactionNotFound)

	e.assertSpentMatchesLedger(t, budget.ID, "0.00")

	amount := decimal.RequireFromString("45.00")
	_, err = e.update.Execute(ctx, transaction.UpdateTransactionInput{TransactionID: tx.ID, UserID: e.user.ID, Amount: &amount})
	assertCode(t, err, domainerror.ErrCodeTransactionNotFound)
}

func TestBulkDelete_RejectsEmptyList(t *testing.T) {
	e := newEnv(t)

	_, err := e.bulk.Execute(context.Background(), transaction.BulkDeleteTransactionsInput{UserID: e.user.ID})
	assertCode(t, err, domainerror.ErrCodeEmptyTransactionIDs)
}

func TestListTransactions_FiltersAndClampsLimit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	planID := e.plan.ID

	e.debit(t, "1.00")
	e.debit(t, "2.00")
	_, err := e.create.Execute(ctx, transaction.CreateTransactionInput{
		UserID: e.user.ID, Amount: decimal.NewFromInt(50), Type: entity.TransactionTypeCredit, SavingPlanID: &planID,
	})
	require.NoError(t, err)

	out, err := e.list.Execute(ctx, transaction.ListTransactionsInput{UserID: e.user.ID, Limit: 10_000, Offset: -3})
	require.NoError(t, err)
	assert.Len(t, out.Transactions, 3)
	assert.Equal(t, transaction.MaxListLimit, out.Limit)
	assert.Zero(t, out.Offset)

	out, err = e.list.Execute(ctx, transaction.ListTransactionsInput{UserID: e.user.ID, SavingPlanID: &planID})
	require.NoError(t, err)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, transaction.DefaultListLimit, out.Limit)

	out, err = e.list.Execute(ctx, transaction.ListTransactionsInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, out.Transactions)
}
