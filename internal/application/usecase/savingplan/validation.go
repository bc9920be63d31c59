package savingplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// MaxNameLength is the maximum allowed plan name length.
const MaxNameLength = 100

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return "", domainerror.NewSavingPlanError(
			domainerror.ErrCodeInvalidSavingPlanName,
			fmt.Sprintf("name must be between 1 and %d characters", MaxNameLength),
			domainerror.ErrInvalidSavingPlanName,
		)
	}
	return name, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewSavingPlanError(
			domainerror.ErrCodeInvalidSavingPlanAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidSavingPlanAmount,
		)
	}
	return nil
}

func validateFrequency(frequency entity.Frequency) error {
	if !frequency.IsValid() {
		return domainerror.NewSavingPlanError(
			domainerror.ErrCodeInvalidSavingPlanFrequency,
			"frequency must be 'DAILY', 'WEEKLY', 'MONTHLY' or 'YEARLY'",
			domainerror.ErrInvalidSavingPlanFrequency,
		)
	}
	return nil
}

func validateFutureDeadline(deadline, today time.Time) error {
	if valueobject.StartOfDay(deadline).Before(valueobject.StartOfDay(today)) {
		return domainerror.NewSavingPlanError(
			domainerror.ErrCodeInvalidSavingPlanDeadline,
			"deadline must not be in the past",
			domainerror.ErrInvalidSavingPlanDeadline,
		)
	}
	return nil
}

// findOwned loads an active plan and checks that the user owns it.
func findOwned(ctx context.Context, repos adapter.Repositories, id, userID uuid.UUID) (*entity.SavingPlan, error) {
	plan, err := repos.SavingPlans.FindByID(ctx, id, adapter.OnlyActive)
	if err != nil {
		if errors.Is(err, domainerror.ErrSavingPlanNotFound) {
			return nil, domainerror.NewSavingPlanError(
				domainerror.ErrCodeSavingPlanNotFound,
				"saving plan not found",
				domainerror.ErrSavingPlanNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find saving plan: %w", err)
	}

	if plan.UserID != userID {
		return nil, domainerror.NewSavingPlanError(
			domainerror.ErrCodeUnauthorizedSavingPlanAccess,
			"not authorized to access this saving plan",
			domainerror.ErrUnauthorizedSavingPlanAccess,
		)
	}

	return plan, nil
}
