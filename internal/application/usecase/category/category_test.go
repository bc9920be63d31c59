package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/category"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
)

func names(categories []*entity.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

func TestListCategories_IncludesPredefined(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	admin := dbtest.SeedUser(t, gdb, "admin@example.com", "Admin")
	user := dbtest.SeedUser(t, gdb, "ivy@example.com", "Ivy")
	dbtest.SeedPredefinedCategory(t, gdb, admin.ID, "Gifts")
	dbtest.SeedCategory(t, gdb, admin.ID, "Admin only")
	dbtest.SeedCategory(t, gdb, user.ID, "Books")

	out, err := category.NewListCategoriesUseCase(uow).Execute(context.Background(), category.ListCategoriesInput{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Gifts"}, names(out.Categories))

	for _, c := range out.Categories {
		assert.Equal(t, c.Name == "Gifts", c.IsPredefined)
	}
}

func TestPredefinedCategory_OnlyOwnerMayModify(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	admin := dbtest.SeedUser(t, gdb, "admin@example.com", "Admin")
	user := dbtest.SeedUser(t, gdb, "jay@example.com", "Jay")
	shared := dbtest.SeedPredefinedCategory(t, gdb, admin.ID, "Salary")
	ctx := context.Background()

	renamed := "Wages"
	_, err := category.NewUpdateCategoryUseCase(uow).Execute(ctx, category.UpdateCategoryInput{
		CategoryID: shared.ID,
		UserID:     user.ID,
		Name:       &renamed,
	})
	require.Error(t, err)
	code, _ := domainerror.CodeOf(err)
	assert.Equal(t, string(domainerror.ErrCodeNotAuthorizedCategory), code)

	_, err = category.NewDeleteCategoryUseCase(uow).Execute(ctx, category.DeleteCategoryInput{
		CategoryID: shared.ID,
		UserID:     user.ID,
	})
	require.Error(t, err)
	code, _ = domainerror.CodeOf(err)
	assert.Equal(t, string(domainerror.ErrCodeNotAuthorizedCategory), code)

	out, err := category.NewUpdateCategoryUseCase(uow).Execute(ctx, category.UpdateCategoryInput{
		CategoryID: shared.ID,
		UserID:     admin.ID,
		Name:       &renamed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Wages", out.Category.Name)
	assert.True(t, out.Category.IsPredefined)

	stored, err := uow.Repositories().Categories.FindByID(ctx, shared.ID, adapter.OnlyActive)
	require.NoError(t, err)
	assert.True(t, stored.IsPredefined)
}

func TestSeedPredefinedCategories_Idempotent(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)
	admin := dbtest.SeedUser(t, gdb, "admin@example.com", "Admin")
	seed := category.NewSeedPredefinedCategoriesUseCase(uow)
	ctx := context.Background()

	first, err := seed.Execute(ctx, category.SeedPredefinedCategoriesInput{OwnerID: admin.ID})
	require.NoError(t, err)
	assert.Len(t, first.Created, len(category.DefaultPredefinedCategories))
	assert.Empty(t, first.Skipped)

	second, err := seed.Execute(ctx, category.SeedPredefinedCategoriesInput{
		OwnerID: admin.ID,
		Names:   []string{"shopping", "Pets"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pets"}, names(second.Created))
	assert.Equal(t, []string{"shopping"}, second.Skipped)

	user := dbtest.SeedUser(t, gdb, "kai@example.com", "Kai")
	listed, err := uow.Repositories().Categories.ListAvailable(ctx, user.ID, adapter.OnlyActive)
	require.NoError(t, err)
	assert.Len(t, listed, len(category.DefaultPredefinedCategories)+1)
}

func TestSeedPredefinedCategories_InvalidNameCreatesNothing(t *testing.T) {
	gdb := dbtest.New(t)
	uow := persistence.NewUnitOfWork(gdb)

	_, err := category.NewSeedPredefinedCategoriesUseCase(uow).Execute(context.Background(), category.SeedPredefinedCategoriesInput{
		OwnerID: dbtest.SeedUser(t, gdb, "gone@example.com", "Gone").ID,
		Names:   []string{""},
	})
	require.Error(t, err)
	code, _ := domainerror.CodeOf(err)
	assert.Equal(t, string(domainerror.ErrCodeMissingCategoryFields), code)

	var count int64
	require.NoError(t, gdb.Table("categories").Count(&count).Error)
	assert.Zero(t, count)
}
