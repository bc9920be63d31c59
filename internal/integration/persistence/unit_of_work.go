package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// unitOfWork implements adapter.UnitOfWork with gorm transactions.
type unitOfWork struct {
	db    *gorm.DB
	repos adapter.Repositories
}

// NewUnitOfWork creates a unit of work over db.
func NewUnitOfWork(db *gorm.DB) adapter.UnitOfWork {
	return &unitOfWork{
		db:    db,
		repos: repositoriesFor(db),
	}
}

// Do runs fn in a database transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos adapter.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, repositoriesFor(tx))
	})
}

// Repositories returns repositories bound to the root connection.
func (u *unitOfWork) Repositories() adapter.Repositories {
	return u.repos
}

func repositoriesFor(db *gorm.DB) adapter.Repositories {
	return adapter.Repositories{
		Transactions: NewTransactionRepository(db),
		Budgets:      NewBudgetRepository(db),
		SavingPlans:  NewSavingPlanRepository(db),
		Recurring:    NewRecurringTransactionRepository(db),
		Categories:   NewCategoryRepository(db),
		Users:        NewUserRepository(db),
		Tasks:        NewTaskQueue(db),
	}
}
