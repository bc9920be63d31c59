// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// New returns a migrated database private to the test. It is closed when
// the test finishes.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.NewConnection(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8]),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate())

	t.Cleanup(func() { _ = database.Close() })
	return database.DB()
}

// SeedUser inserts an active user with every notification enabled.
func SeedUser(t testing.TB, gdb *gorm.DB, email, name string) *entity.User {
	t.Helper()

	user := entity.NewUser(email, name)
	require.NoError(t, gdb.Create(model.UserFromEntity(user)).Error)
	return user
}

// SaveUser overwrites a user's row, e.g. after changing preferences.
func SaveUser(t testing.TB, gdb *gorm.DB, user *entity.User) {
	t.Helper()
	require.NoError(t, gdb.Save(model.UserFromEntity(user)).Error)
}

// SeedCategory inserts an active category owned by userID.
func SeedCategory(t testing.TB, gdb *gorm.DB, userID uuid.UUID, name string) *entity.Category {
	t.Helper()

	category := entity.NewCategory(userID, name, "")
	require.NoError(t, gdb.Create(model.CategoryFromEntity(category)).Error)
	return category
}

// SeedPredefinedCategory inserts an active shared category owned by ownerID.
func SeedPredefinedCategory(t testing.TB, gdb *gorm.DB, ownerID uuid.UUID, name string) *entity.Category {
	t.Helper()

	category := entity.NewPredefinedCategory(ownerID, name)
	require.NoError(t, gdb.Create(model.CategoryFromEntity(category)).Error)
	return category
}

// SeedBudget inserts an active budget with nothing spent.
func SeedBudget(t testing.TB, gdb *gorm.DB, userID, categoryID uuid.UUID, month, year int, amount string) *entity.Budget {
	t.Helper()

	budget := entity.NewBudget(userID, categoryID, month, year, decimal.RequireFromString(amount))
	require.NoError(t, gdb.Create(model.BudgetFromEntity(budget)).Error)
	return budget
}

// SeedSavingPlan inserts an active saving plan with nothing saved.
func SeedSavingPlan(t testing.TB, gdb *gorm.DB, userID uuid.UUID, amount string, deadline time.Time, frequency entity.Frequency) *entity.SavingPlan {
	t.Helper()

	plan := entity.NewSavingPlan(userID, "Emergency fund", decimal.RequireFromString(amount), deadline, frequency)
	require.NoError(t, gdb.Create(model.SavingPlanFromEntity(plan)).Error)
	return plan
}

// Tasks returns the queued tasks with the given name, oldest first.
func Tasks(t testing.TB, gdb *gorm.DB, name string) []*entity.Task {
	t.Helper()

	var rows []model.TaskModel
	require.NoError(t, gdb.Where("name = ?", name).Order("created_at ASC").Find(&rows).Error)

	tasks := make([]*entity.Task, len(rows))
	for i := range rows {
		tasks[i] = rows[i].ToEntity()
	}
	return tasks
}

// Templates returns the template keys of every queued notification, oldest first.
func Templates(t testing.TB, gdb *gorm.DB) []string {
	t.Helper()

	var keys []string
	for _, task := range Tasks(t, gdb, entity.TaskSendNotification) {
		key, _ := task.Payload["template"].(string)
		keys = append(keys, key)
	}
	return keys
}

// ClearTasks empties the task outbox.
func ClearTasks(t testing.TB, gdb *gorm.DB) {
	t.Helper()
	require.NoError(t, gdb.Where("1 = 1").Delete(&model.TaskModel{}).Error)
}
