package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

func TestCreateBudget_StartsFromExistingLedger(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	maintainer := ledger.NewMaintainer(nil, nil)
	user := dbtest.SeedUser(t, gdb, "fay@example.com", "Fay")
	category := dbtest.SeedCategory(t, gdb, user.ID, "Utilities")
	ctx := context.Background()

	for _, amount := range []string{"30.00", "45.50"} {
		tx := entity.NewTransaction(user.ID, decimal.RequireFromString(amount), entity.TransactionTypeDebit, time.Date(2024, time.March, 3, 8, 0, 0, 0, time.UTC), "")
		tx.CategoryID = &category.ID
		require.NoError(t, uow.Repositories().Transactions.Create(ctx, tx))
	}

	create := budget.NewCreateBudgetUseCase(uow, maintainer)
	out, err := create.Execute(ctx, budget.CreateBudgetInput{
		UserID:     user.ID,
		CategoryID: category.ID,
		Month:      3,
		Year:       2024,
		Amount:     decimal.RequireFromString("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "75.50", out.Budget.SpentAmount.StringFixed(2))

	got, err := budget.NewGetBudgetUseCase(uow).Execute(ctx, budget.GetBudgetInput{BudgetID: out.Budget.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "75.50", got.View.Budget.SpentAmount.StringFixed(2))
	assert.Equal(t, "24.50", got.View.Remaining.StringFixed(2))
	assert.Equal(t, 76, got.View.PercentageUsed)

	_, err = create.Execute(ctx, budget.CreateBudgetInput{
		UserID:     user.ID,
		CategoryID: category.ID,
		Month:      3,
		Year:       2024,
		Amount:     decimal.RequireFromString("50"),
	})
	require.Error(t, err)
	code, _ := domainerror.CodeOf(err)
	assert.Equal(t, string(domainerror.ErrCodeBudgetAlreadyExists), code)
}

func TestCreateBudget_SharedCategoryAllowedForeignCategoryRejected(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	admin := dbtest.SeedUser(t, gdb, "admin@example.com", "Admin")
	user := dbtest.SeedUser(t, gdb, "hal@example.com", "Hal")
	shared := dbtest.SeedPredefinedCategory(t, gdb, admin.ID, "Shopping")
	private := dbtest.SeedCategory(t, gdb, admin.ID, "Admin only")
	ctx := context.Background()
	create := budget.NewCreateBudgetUseCase(uow, ledger.NewMaintainer(nil, nil))

	// The admin's own debit on the shared category must not leak into Hal's budget.
	tx := entity.NewTransaction(admin.ID, decimal.RequireFromString("99.00"), entity.TransactionTypeDebit, time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC), "")
	tx.CategoryID = &shared.ID
	require.NoError(t, uow.Repositories().Transactions.Create(ctx, tx))

	out, err := create.Execute(ctx, budget.CreateBudgetInput{
		UserID:     user.ID,
		CategoryID: shared.ID,
		Month:      5,
		Year:       2024,
		Amount:     decimal.RequireFromString("150"),
	})
	require.NoError(t, err)
	assert.True(t, out.Budget.SpentAmount.IsZero())

	_, err = create.Execute(ctx, budget.CreateBudgetInput{
		UserID:     user.ID,
		CategoryID: private.ID,
		Month:      5,
		Year:       2024,
		Amount:     decimal.RequireFromString("150"),
	})
	require.Error(t, err)
	code, _ := domainerror.CodeOf(err)
	assert.Equal(t, string(domainerror.ErrCodeBudgetCategoryNotOwned), code)
}

func TestCreateBudget_ReusesPeriodAfterDelete(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	user := dbtest.SeedUser(t, gdb, "gus@example.com", "Gus")
	category := dbtest.SeedCategory(t, gdb, user.ID, "Fun")
	ctx := context.Background()
	create := budget.NewCreateBudgetUseCase(uow, ledger.NewMaintainer(nil, nil))

	input := budget.CreateBudgetInput{
		UserID:     user.ID,
		CategoryID: category.ID,
		Month:      9,
		Year:       2024,
		Amount:     decimal.RequireFromString("80"),
	}
	first, err := create.Execute(ctx, input)
	require.NoError(t, err)

	_, err = budget.NewDeleteBudgetUseCase(uow).Execute(ctx, budget.DeleteBudgetInput{BudgetID: first.Budget.ID, UserID: user.ID})
	require.NoError(t, err)

	second, err := create.Execute(ctx, input)
	require.NoError(t, err)
	assert.NotEqual(t, first.Budget.ID, second.Budget.ID)

	active, err := uow.Repositories().Budgets.FindByPeriod(ctx, user.ID, category.ID, 9, 2024)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.Budget.ID, active.ID)
}

func TestCreateBudget_Validation(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	user := dbtest.SeedUser(t, gdb, "hal@example.com", "Hal")
	other := dbtest.SeedUser(t, gdb, "ida@example.com", "Ida")
	theirs := dbtest.SeedCategory(t, gdb, other.ID, "Theirs")
	mine := dbtest.SeedCategory(t, gdb, user.ID, "Mine")
	create := budget.NewCreateBudgetUseCase(uow, ledger.NewMaintainer(nil, nil))

	tests := []struct {
		name  string
		input budget.CreateBudgetInput
		want  domainerror.BudgetErrorCode
	}{
		{"zero amount", budget.CreateBudgetInput{CategoryID: mine.ID, Month: 1, Year: 2024, Amount: decimal.Zero}, domainerror.ErrCodeInvalidBudgetAmount},
		{"bad month", budget.CreateBudgetInput{CategoryID: mine.ID, Month: 13, Year: 2024, Amount: decimal.NewFromInt(1)}, domainerror.ErrCodeInvalidBudgetPeriod},
		{"foreign category", budget.CreateBudgetInput{CategoryID: theirs.ID, Month: 1, Year: 2024, Amount: decimal.NewFromInt(1)}, domainerror.ErrCodeBudgetCategoryNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.UserID = user.ID
			_, err := create.Execute(context.Background(), tt.input)
			require.Error(t, err)
			code, _ := domainerror.CodeOf(err)
			assert.Equal(t, string(tt.want), code)
		})
	}
}

func TestUpdateBudget_AmountChangeQueuesThresholdCheck(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	user := dbtest.SeedUser(t, gdb, "jo@example.com", "Jo")
	category := dbtest.SeedCategory(t, gdb, user.ID, "Pets")
	b := dbtest.SeedBudget(t, gdb, user.ID, category.ID, 5, 2024, "100.00")

	amount := decimal.RequireFromString("60")
	out, err := budget.NewUpdateBudgetUseCase(uow, ledger.NewMaintainer(nil, nil)).Execute(context.Background(), budget.UpdateBudgetInput{
		BudgetID: b.ID,
		UserID:   user.ID,
		Amount:   &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "60.00", out.Budget.Amount.StringFixed(2))

	tasks := dbtest.Tasks(t, gdb, entity.TaskCheckBudgetThresholds)
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID.String(), tasks[0].Payload["budget_id"])

	got, err := uow.Repositories().Budgets.FindByID(context.Background(), b.ID, adapter.OnlyActive)
	require.NoError(t, err)
	assert.Equal(t, "60.00", got.Amount.StringFixed(2))
}
