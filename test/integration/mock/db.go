package mock

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

var once sync.Once
var database *Db

// Db is the migrated SQLite database shared by every scenario.
type Db struct {
	DbConn *gorm.DB
	models []interface{}
}

// NewDb opens the shared database on first use.
func NewDb() *Db {
	once.Do(
		func() {
			database = open()
		},
	)

	return database
}

func open() *Db {
	conn, err := db.NewConnection(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    "file:ledger_features?mode=memory&cache=shared",
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}
	if err := conn.AutoMigrate(); err != nil {
		panic("failed to migrate database. err: " + err.Error())
	}

	newDbMock := &Db{
		DbConn: conn.DB(),
		models: []interface{}{
			&model.TaskModel{},
			&model.TransactionModel{},
			&model.RecurringTransactionModel{},
			&model.BudgetModel{},
			&model.SavingPlanModel{},
			&model.CategoryModel{},
			&model.UserModel{},
		},
	}
	if err := newDbMock.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB deletes every row, children before parents.
func (d *Db) ClearDB() error {
	for _, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return fmt.Errorf("failed to clear %T: %w", m, err)
		}
	}
	return nil
}
