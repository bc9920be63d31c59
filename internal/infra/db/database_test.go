package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/config"
)

func TestNewConnection_SQLite(t *testing.T) {
	database, err := NewConnection(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    "file::memory:",
	})
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.AutoMigrate())
	assert.True(t, database.HealthCheck())

	for _, table := range []string{"transactions", "budgets", "saving_plans", "recurring_transactions", "categories", "users", "task_queue"} {
		assert.True(t, database.DB().Migrator().HasTable(table), table)
	}
}

func TestNewConnection_UnknownDriver(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Driver: "mysql", URL: "x"})
	assert.Error(t, err)
}
