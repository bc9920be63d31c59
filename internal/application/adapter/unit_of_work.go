package adapter

import (
	"context"
)

// Repositories bundles the repositories bound to one database session.
type Repositories struct {
	Transactions TransactionRepository
	Budgets      BudgetRepository
	SavingPlans  SavingPlanRepository
	Recurring    RecurringTransactionRepository
	Categories   CategoryRepository
	Users        UserRepository
	Tasks        TaskQueue
}

// UnitOfWork runs a function inside a single database transaction. Every
// write made through the supplied repositories, including enqueued tasks,
// commits together or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	// Repositories returns repositories outside any transaction, for reads.
	Repositories() Repositories
}
