package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Contract) (*types.Contract, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Contract, error)
	// GetActiveByPair returns the active contract for (clientID, planID),
	// or gorm.ErrRecordNotFound when none exists.
	GetActiveByPair(ctx context.Context, tx *gorm.DB, clientID, planID uuid.UUID) (*types.Contract, error)
	GetActiveByPairs(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, planIDs []uuid.UUID) ([]*types.Contract, error)
	GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Contract, error)
	ListByState(ctx context.Context, tx *gorm.DB, state string) ([]*types.Contract, error)
	ListActiveEndedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Contract, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Contract) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return &contractRepo{db: db, log: baseLog.With("repo", "ContractRepo")}
}

func (r *contractRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Contract) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.State == "" {
		row.State = types.ContractStateActive
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *contractRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Contract
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *contractRepo) GetActiveByPair(ctx context.Context, tx *gorm.DB, clientID, planID uuid.UUID) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Contract
	if err := transaction.WithContext(ctx).
		Where("client_id = ? AND plan_id = ? AND state = ?", clientID, planID, types.ContractStateActive).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *contractRepo) GetActiveByPairs(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, planIDs []uuid.UUID) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Contract
	if len(planIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ? AND plan_id IN ? AND state = ?", clientID, planIDs, types.ContractStateActive).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contractRepo) GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Contract
	if clientID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contractRepo) ListByState(ctx context.Context, tx *gorm.DB, state string) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Contract
	if err := transaction.WithContext(ctx).
		Where("state = ?", state).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contractRepo) ListActiveEndedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Contract
	if err := transaction.WithContext(ctx).
		Where("state = ? AND end_date < ?", types.ContractStateActive, cutoff).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contractRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Contract) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}
