// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID        uuid.UUID
	Amount        decimal.Decimal
	Type          entity.TransactionType
	TransactionAt time.Time // Optional, defaults to now
	CategoryID    *uuid.UUID
	SavingPlanID  *uuid.UUID
	Description   string
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction *entity.Transaction
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(uow adapter.UnitOfWork, maintainer *ledger.Maintainer) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		uow:        uow,
		maintainer: maintainer,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	transactionAt := input.TransactionAt
	if transactionAt.IsZero() {
		transactionAt = time.Now().UTC()
	}

	tx := entity.NewTransaction(input.UserID, input.Amount, input.Type, transactionAt, input.Description)
	tx.CategoryID = input.CategoryID
	tx.SavingPlanID = input.SavingPlanID

	if err := validateTransaction(tx); err != nil {
		return nil, err
	}

	err := uc.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
		if err := checkTargets(ctx, repos, input.UserID, tx.CategoryID, tx.SavingPlanID); err != nil {
			return err
		}

		if err := repos.Transactions.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		return uc.maintainer.OnTransactionCreated(ctx, repos, tx)
	})
	if err != nil {
		return nil, err
	}

	return &CreateTransactionOutput{
		Transaction: tx,
	}, nil
}
