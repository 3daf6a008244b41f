package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Client) (*types.Client, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Client, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Client, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Client, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Client) error
	SetPlanIDs(ctx context.Context, tx *gorm.DB, id uuid.UUID, planIDs []uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Client) (*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if len(row.PlanIDs) == 0 {
		empty, err := types.EncodeUUIDSet(nil)
		if err != nil {
			return nil, err
		}
		row.PlanIDs = empty
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *clientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Client
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *clientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Client
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Client
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Client) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *clientRepo) SetPlanIDs(ctx context.Context, tx *gorm.DB, id uuid.UUID, planIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	raw, err := types.EncodeUUIDSet(planIDs)
	if err != nil {
		return err
	}

	res := transaction.WithContext(ctx).
		Model(&types.Client{}).
		Where("id = ?", id).
		Update("plan_ids", raw)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Client{}).Error
}
