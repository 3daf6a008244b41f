package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

type PlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Plan) (*types.Plan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Plan, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Plan, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Plan, error)
	ListByState(ctx context.Context, tx *gorm.DB, state string) ([]*types.Plan, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Plan) error
	SetClientIDs(ctx context.Context, tx *gorm.DB, id uuid.UUID, clientIDs []uuid.UUID) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func (r *planRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Plan) (*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.State == "" {
		row.State = types.PlanStateActive
	}
	if len(row.ClientIDs) == 0 {
		empty, err := types.EncodeUUIDSet(nil)
		if err != nil {
			return nil, err
		}
		row.ClientIDs = empty
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *planRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Plan
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *planRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Plan
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

func (r *planRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Plan
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) ListByState(ctx context.Context, tx *gorm.DB, state string) ([]*types.Plan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Plan
	if err := transaction.WithContext(ctx).
		Where("state = ?", state).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Plan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *planRepo) SetClientIDs(ctx context.Context, tx *gorm.DB, id uuid.UUID, clientIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	raw, err := types.EncodeUUIDSet(clientIDs)
	if err != nil {
		return err
	}

	res := transaction.WithContext(ctx).
		Model(&types.Plan{}).
		Where("id = ?", id).
		Update("client_ids", raw)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *planRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Plan{}).Error
}
