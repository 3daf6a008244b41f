package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

type TrackingRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.TrackingRecord) (*types.TrackingRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrackingRecord, error)
	GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.TrackingRecord, error)
	// DeleteByClientAndPlan removes every record attributed to the pair and
	// reports how many rows went away.
	DeleteByClientAndPlan(ctx context.Context, tx *gorm.DB, clientID, planID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type trackingRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackingRecordRepo(db *gorm.DB, baseLog *logger.Logger) TrackingRecordRepo {
	return &trackingRecordRepo{db: db, log: baseLog.With("repo", "TrackingRecordRepo")}
}

func (r *trackingRecordRepo) Create(ctx context.Context, tx *gorm.DB, row *types.TrackingRecord) (*types.TrackingRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *trackingRecordRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TrackingRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.TrackingRecord
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *trackingRecordRepo) GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.TrackingRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TrackingRecord
	if clientID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("measured_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *trackingRecordRepo) DeleteByClientAndPlan(ctx context.Context, tx *gorm.DB, clientID, planID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("client_id = ? AND plan_id = ?", clientID, planID).
		Delete(&types.TrackingRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *trackingRecordRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.TrackingRecord{}).Error
}
