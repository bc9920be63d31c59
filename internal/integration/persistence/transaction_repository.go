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
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(model.TransactionFromEntity(tx)).Error
}

// Update saves every column of the transaction, including its record state.
// Only a row that is still active is written; otherwise ErrTransactionNotFound
// is returned and nothing changes.
func (r *transactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	m := model.TransactionFromEntity(tx)
	result := r.db.WithContext(ctx).
		Model(m).
		Where("state = ?", entity.RecordStateActive).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID, state adapter.StateFilter) (*entity.Transaction, error) {
	return r.find(ctx, id, withState(state))
}

// FindForUpdate retrieves an active transaction and locks its row until the
// surrounding database transaction ends.
func (r *transactionRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.find(ctx, id, withState(adapter.OnlyActive), forUpdate)
}

func (r *transactionRepository) find(ctx context.Context, id uuid.UUID, scopes ...func(*gorm.DB) *gorm.DB) (*entity.Transaction, error) {
	var m model.TransactionModel
	result := r.db.WithContext(ctx).
		Scopes(scopes...).
		Where("id = ?", id).
		First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// List retrieves transactions matching the filter, newest first.
func (r *transactionRepository) List(ctx context.Context, filter adapter.TransactionFilter) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).
		Scopes(withState(filter.State)).
		Where("user_id = ?", filter.UserID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SavingPlanID != nil {
		query = query.Where("saving_plan_id = ?", *filter.SavingPlanID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.From != nil {
		query = query.Where("transaction_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("transaction_at < ?", filter.To.UTC())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var models []model.TransactionModel
	if err := query.Order("transaction_at DESC, created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions, nil
}

// SumDebitsForCategory sums the active debits of a category in [from, to).
func (r *transactionRepository) SumDebitsForCategory(ctx context.Context, userID, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Scopes(withState(adapter.OnlyActive)).
		Where("user_id = ?", userID).
		Where("category_id = ?", categoryID).
		Where("type = ?", string(entity.TransactionTypeDebit)).
		Where("transaction_at >= ? AND transaction_at < ?", from.UTC(), to.UTC())

	return sumAmount(query)
}

// SumForSavingPlan sums the active transactions of a plan, optionally within [from, to).
func (r *transactionRepository) SumForSavingPlan(ctx context.Context, savingPlanID uuid.UUID, from, to *time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Scopes(withState(adapter.OnlyActive)).
		Where("saving_plan_id = ?", savingPlanID)

	if from != nil {
		query = query.Where("transaction_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("transaction_at < ?", to.UTC())
	}

	return sumAmount(query)
}

func sumAmount(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return valueobject.RoundMoney(total.Decimal), nil
}
