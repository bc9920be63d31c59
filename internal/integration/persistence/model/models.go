package model

// All returns every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&CategoryModel{},
		&TransactionModel{},
		&BudgetModel{},
		&SavingPlanModel{},
		&RecurringTransactionModel{},
		&TaskModel{},
		&JobLockModel{},
	}
}
