package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// Create creates a new budget in the database.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	err := r.db.WithContext(ctx).Create(model.BudgetFromEntity(budget)).Error
	if err != nil && isDuplicateKey(err) {
		return domainerror.ErrBudgetAlreadyExists
	}
	return err
}

// Update writes the user-editable columns of a budget. The spent amount and
// threshold flags are maintained through AdjustSpent, SetSpent and
// SaveThresholdFlags only.
func (r *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	m := model.BudgetFromEntity(budget)
	err := r.db.WithContext(ctx).
		Model(m).
		Select("category_id", "amount", "updated_at", "state", "deleted_at").
		Updates(m).Error
	if err != nil && isDuplicateKey(err) {
		return domainerror.ErrBudgetAlreadyExists
	}
	return err
}

// FindByID retrieves a budget by its ID.
func (r *budgetRepository) FindByID(ctx context.Context, id uuid.UUID, state adapter.StateFilter) (*entity.Budget, error) {
	var m model.BudgetModel
	result := r.db.WithContext(ctx).
		Scopes(withState(state)).
		Where("id = ?", id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// FindForUpdate retrieves an active budget and locks its row until the
// surrounding transaction ends.
func (r *budgetRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	var m model.BudgetModel
	result := r.db.WithContext(ctx).
		Scopes(forUpdate, withState(adapter.OnlyActive)).
		Where("id = ?", id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// FindByPeriod returns the active budget for a category and month, or nil
// when there is none.
func (r *budgetRepository) FindByPeriod(ctx context.Context, userID, categoryID uuid.UUID, month, year int) (*entity.Budget, error) {
	var models []model.BudgetModel
	result := r.db.WithContext(ctx).
		Scopes(withState(adapter.OnlyActive)).
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		Limit(1).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].ToEntity(), nil
}

// List retrieves budgets matching the filter, most recent period first.
func (r *budgetRepository) List(ctx context.Context, filter adapter.BudgetFilter) ([]*entity.Budget, error) {
	query := r.db.WithContext(ctx).Scopes(withState(filter.State))

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Month != nil {
		query = query.Where("month = ?", *filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}

	var models []model.BudgetModel
	if err := query.Order("year DESC, month DESC, created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	budgets := make([]*entity.Budget, len(models))
	for i := range models {
		budgets[i] = models[i].ToEntity()
	}
	return budgets, nil
}

// AdjustSpent adds delta to the spent amount in a single statement.
func (r *budgetRepository) AdjustSpent(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"spent_amount": gorm.Expr("spent_amount + ?", delta),
			"updated_at":   time.Now().UTC(),
		}).Error
}

// SetSpent overwrites the spent amount.
func (r *budgetRepository) SetSpent(ctx context.Context, id uuid.UUID, spent decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"spent_amount": spent,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// SaveThresholdFlags persists the warning and exceeded flags.
func (r *budgetRepository) SaveThresholdFlags(ctx context.Context, budget *entity.Budget) error {
	return r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", budget.ID).
		Updates(map[string]interface{}{
			"warning_sent":  budget.WarningSent,
			"exceeded_sent": budget.ExceededSent,
		}).Error
}
