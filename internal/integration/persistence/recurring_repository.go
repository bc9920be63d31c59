package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// recurringRepository implements the adapter.RecurringTransactionRepository interface.
type recurringRepository struct {
	db *gorm.DB
}

// NewRecurringTransactionRepository creates a new recurring transaction repository instance.
func NewRecurringTransactionRepository(db *gorm.DB) adapter.RecurringTransactionRepository {
	return &recurringRepository{
		db: db,
	}
}

// Create creates a new recurring definition in the database.
func (r *recurringRepository) Create(ctx context.Context, def *entity.RecurringTransaction) error {
	return r.db.WithContext(ctx).Create(model.RecurringTransactionFromEntity(def)).Error
}

// Update saves every column of the definition.
func (r *recurringRepository) Update(ctx context.Context, def *entity.RecurringTransaction) error {
	return r.db.WithContext(ctx).Save(model.RecurringTransactionFromEntity(def)).Error
}

// FindByID retrieves a recurring definition by its ID.
func (r *recurringRepository) FindByID(ctx context.Context, id uuid.UUID, state adapter.StateFilter) (*entity.RecurringTransaction, error) {
	return r.first(ctx, r.db.WithContext(ctx).Scopes(withState(state)), id)
}

// FindForUpdate retrieves an active recurring definition and locks its row.
func (r *recurringRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	return r.first(ctx, r.db.WithContext(ctx).Scopes(forUpdate, withState(adapter.OnlyActive)), id)
}

func (r *recurringRepository) first(_ context.Context, query *gorm.DB, id uuid.UUID) (*entity.RecurringTransaction, error) {
	var m model.RecurringTransactionModel
	result := query.Where("id = ?", id).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRecurringNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// ListDue returns active definitions whose next occurrence is at or before
// now, oldest first.
func (r *recurringRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*entity.RecurringTransaction, error) {
	query := r.db.WithContext(ctx).
		Scopes(withState(adapter.OnlyActive)).
		Where("next_transaction_at <= ?", now.UTC()).
		Order("next_transaction_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []model.RecurringTransactionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return recurringEntities(models), nil
}

// ListByUser returns a user's definitions ordered by next occurrence.
func (r *recurringRepository) ListByUser(ctx context.Context, userID uuid.UUID, state adapter.StateFilter) ([]*entity.RecurringTransaction, error) {
	var models []model.RecurringTransactionModel
	result := r.db.WithContext(ctx).
		Scopes(withState(state)).
		Where("user_id = ?", userID).
		Order("next_transaction_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return recurringEntities(models), nil
}

func recurringEntities(models []model.RecurringTransactionModel) []*entity.RecurringTransaction {
	defs := make([]*entity.RecurringTransaction, len(models))
	for i := range models {
		defs[i] = models[i].ToEntity()
	}
	return defs
}
