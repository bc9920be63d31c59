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

// savingPlanRepository implements the adapter.SavingPlanRepository interface.
type savingPlanRepository struct {
	db *gorm.DB
}

// NewSavingPlanRepository creates a new saving plan repository instance.
func NewSavingPlanRepository(db *gorm.DB) adapter.SavingPlanRepository {
	return &savingPlanRepository{
		db: db,
	}
}

// Create creates a new saving plan in the database.
func (r *savingPlanRepository) Create(ctx context.Context, plan *entity.SavingPlan) error {
	return r.db.WithContext(ctx).Create(model.SavingPlanFromEntity(plan)).Error
}

// Update writes every column except the saved amount, which only moves
// through AdjustSaved and SetSaved.
func (r *savingPlanRepository) Update(ctx context.Context, plan *entity.SavingPlan) error {
	m := model.SavingPlanFromEntity(plan)
	return r.db.WithContext(ctx).
		Model(m).
		Select("name", "amount", "current_deadline", "status", "frequency", "updated_at", "state", "deleted_at").
		Updates(m).Error
}

// FindByID retrieves a saving plan by its ID.
func (r *savingPlanRepository) FindByID(ctx context.Context, id uuid.UUID, state adapter.StateFilter) (*entity.SavingPlan, error) {
	var m model.SavingPlanModel
	result := r.db.WithContext(ctx).
		Scopes(withState(state)).
		Where("id = ?", id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSavingPlanNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// FindForUpdate retrieves an active saving plan and locks its row.
func (r *savingPlanRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.SavingPlan, error) {
	var m model.SavingPlanModel
	result := r.db.WithContext(ctx).
		Scopes(forUpdate, withState(adapter.OnlyActive)).
		Where("id = ?", id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSavingPlanNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// List retrieves saving plans matching the filter, nearest deadline first.
func (r *savingPlanRepository) List(ctx context.Context, filter adapter.SavingPlanFilter) ([]*entity.SavingPlan, error) {
	query := r.db.WithContext(ctx).Scopes(withState(filter.State))

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.DeadlineBefore != nil {
		query = query.Where("current_deadline < ?", filter.DeadlineBefore.UTC())
	}
	if filter.DeadlineOnOrAfter != nil {
		query = query.Where("current_deadline >= ?", filter.DeadlineOnOrAfter.UTC())
	}

	var models []model.SavingPlanModel
	if err := query.Order("current_deadline ASC, created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	plans := make([]*entity.SavingPlan, len(models))
	for i := range models {
		plans[i] = models[i].ToEntity()
	}
	return plans, nil
}

// AdjustSaved adds delta to the saved amount in a single statement.
func (r *savingPlanRepository) AdjustSaved(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.SavingPlanModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"saved_amount": gorm.Expr("saved_amount + ?", delta),
			"updated_at":   time.Now().UTC(),
		}).Error
}

// SetSaved overwrites the saved amount.
func (r *savingPlanRepository) SetSaved(ctx context.Context, id uuid.UUID, saved decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.SavingPlanModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"saved_amount": saved,
			"updated_at":   time.Now().UTC(),
		}).Error
}
