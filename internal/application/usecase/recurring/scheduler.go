package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/ledger"
	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
)

// DefaultBatchSize caps the definitions handled per ProcessDue call.
const DefaultBatchSize = 500

// OutcomeStatus describes what happened to one definition.
type OutcomeStatus string

const (
	OutcomeGenerated   OutcomeStatus = "generated"
	OutcomeDeactivated OutcomeStatus = "deactivated"
	OutcomeSkipped     OutcomeStatus = "skipped"
	OutcomeFailed      OutcomeStatus = "failed"
)

// Outcome is the result of processing one due definition.
type Outcome struct {
	DefinitionID  uuid.UUID
	Status        OutcomeStatus
	TransactionID *uuid.UUID
	Reason        string
	Err           error
}

// Scheduler turns due recurring definitions into ledger transactions.
type Scheduler struct {
	uow        adapter.UnitOfWork
	maintainer *ledger.Maintainer
	publisher  *notification.Publisher
	batchSize  int
	logger     *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(uow adapter.UnitOfWork, maintainer *ledger.Maintainer, publisher *notification.Publisher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		uow:        uow,
		maintainer: maintainer,
		publisher:  publisher,
		batchSize:  DefaultBatchSize,
		logger:     logger,
	}
}

// WithBatchSize sets how many due definitions one ProcessDue call handles.
func (s *Scheduler) WithBatchSize(n int) *Scheduler {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// ProcessDue materializes one occurrence for every active definition due at
// now. Each definition runs in its own unit of work; a failure is recorded in
// its outcome and the batch continues. Backlogs are caught up one occurrence
// per call.
func (s *Scheduler) ProcessDue(ctx context.Context, now time.Time) ([]Outcome, error) {
	now = now.UTC()

	due, err := s.uow.Repositories().Recurring.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring transactions: %w", err)
	}

	outcomes := make([]Outcome, 0, len(due))
	for _, def := range due {
		if ctx.Err() != nil {
			return outcomes, ctx.Err()
		}

		var outcome Outcome
		err := s.uow.Do(ctx, func(ctx context.Context, repos adapter.Repositories) error {
			o, err := s.processOne(ctx, repos, def.ID, now)
			outcome = o
			return err
		})
		if err != nil {
			outcome = Outcome{DefinitionID: def.ID, Status: OutcomeFailed, Err: err}
			s.logger.Error("Failed to process recurring transaction",
				"recurring_id", def.ID,
				"error", err,
			)
		}
		outcomes = append(outcomes, outcome)
	}

	if len(outcomes) > 0 {
		s.logger.Info("Recurring transactions processed", summarize(outcomes)...)
	}
	return outcomes, nil
}

func (s *Scheduler) processOne(ctx context.Context, repos adapter.Repositories, id uuid.UUID, now time.Time) (Outcome, error) {
	outcome := Outcome{DefinitionID: id}

	def, err := repos.Recurring.FindForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrRecurringNotFound) {
			outcome.Status = OutcomeSkipped
			outcome.Reason = "definition no longer active"
			return outcome, nil
		}
		return outcome, fmt.Errorf("failed to lock recurring transaction: %w", err)
	}

	// Another worker may have advanced it since the list was read.
	if !def.IsDue(now) {
		outcome.Status = OutcomeSkipped
		outcome.Reason = "not due"
		return outcome, nil
	}

	reason, err := s.ineligibility(ctx, repos, def)
	if err != nil {
		return outcome, err
	}
	if reason != "" {
		def.MarkDeleted(now)
		def.UpdatedAt = now
		if err := repos.Recurring.Update(ctx, def); err != nil {
			return outcome, fmt.Errorf("failed to deactivate recurring transaction: %w", err)
		}
		s.logger.Warn("Recurring transaction deactivated",
			"recurring_id", def.ID,
			"reason", reason,
		)
		outcome.Status = OutcomeDeactivated
		outcome.Reason = reason
		return outcome, nil
	}

	tx := def.Materialize()
	if err := repos.Transactions.Create(ctx, tx); err != nil {
		return outcome, fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := s.maintainer.OnTransactionCreated(ctx, repos, tx); err != nil {
		return outcome, err
	}

	occurredAt := def.NextTransactionAt
	def.NextTransactionAt = NextOccurrence(def, occurredAt)
	def.UpdatedAt = now
	if err := repos.Recurring.Update(ctx, def); err != nil {
		return outcome, fmt.Errorf("failed to advance recurring transaction: %w", err)
	}

	data := map[string]interface{}{
		"description":      def.Description,
		"amount":           valueobject.FormatMoney(def.Amount),
		"type":             string(def.Type),
		"frequency":        string(def.Frequency),
		"transaction_date": occurredAt.Format("2006-01-02"),
		"next_date":        def.NextTransactionAt.Format("2006-01-02"),
	}
	if _, err := s.publisher.Publish(ctx, repos, def.UserID, entity.TemplateRecurringTransactionCreated, data); err != nil {
		return outcome, err
	}

	txID := tx.ID
	outcome.Status = OutcomeGenerated
	outcome.TransactionID = &txID
	return outcome, nil
}

// ineligibility returns why a definition can no longer run, or "".
func (s *Scheduler) ineligibility(ctx context.Context, repos adapter.Repositories, def *entity.RecurringTransaction) (string, error) {
	if def.IsPastEnd() {
		return "schedule ended", nil
	}

	if _, err := repos.Users.FindByID(ctx, def.UserID, adapter.OnlyActive); err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return "user deleted", nil
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if def.CategoryID != nil {
		if _, err := repos.Categories.FindByID(ctx, *def.CategoryID, adapter.OnlyActive); err != nil {
			if errors.Is(err, domainerror.ErrCategoryNotFound) {
				return "category deleted", nil
			}
			return "", fmt.Errorf("failed to load category: %w", err)
		}
	}

	if def.SavingPlanID != nil {
		if _, err := repos.SavingPlans.FindByID(ctx, *def.SavingPlanID, adapter.OnlyActive); err != nil {
			if errors.Is(err, domainerror.ErrSavingPlanNotFound) {
				return "saving plan deleted", nil
			}
			return "", fmt.Errorf("failed to load saving plan: %w", err)
		}
	}

	return "", nil
}

func summarize(outcomes []Outcome) []any {
	counts := make(map[OutcomeStatus]int)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return []any{
		"generated", counts[OutcomeGenerated],
		"deactivated", counts[OutcomeDeactivated],
		"skipped", counts[OutcomeSkipped],
		"failed", counts[OutcomeFailed],
	}
}
