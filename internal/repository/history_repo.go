package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs-lzh/concert-booking/internal/model"
)

type HistoryRepo interface {
	WithTx(tx *gorm.DB) HistoryRepo
	Append(record *model.HistoryRecord) error
	ListAll() ([]model.HistoryRecord, error)
	ListByRequester(requesterID string) ([]model.HistoryRecord, error)
	CountByAction(action model.HistoryAction) (int64, error)
}

type historyRepoGorm struct {
	db *gorm.DB
}

var _ HistoryRepo = (*historyRepoGorm)(nil)

func NewHistoryRepoGorm(db *gorm.DB) *historyRepoGorm {
	return &historyRepoGorm{
		db: db,
	}
}

func (r *historyRepoGorm) WithTx(tx *gorm.DB) HistoryRepo {
	return &historyRepoGorm{
		db: tx,
	}
}

func (r *historyRepoGorm) Append(record *model.HistoryRecord) error {
	ctx := context.Background()
	if err := gorm.G[model.HistoryRecord](r.db).Create(ctx, record); err != nil {
		return err
	}
	return nil
}

func (r *historyRepoGorm) ListAll() ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	err := r.db.Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *historyRepoGorm) ListByRequester(requesterID string) ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord
	err := r.db.
		Where(&model.HistoryRecord{RequesterID: requesterID}).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *historyRepoGorm) CountByAction(action model.HistoryAction) (int64, error) {
	var count int64
	err := r.db.Model(&model.HistoryRecord{}).
		Where(&model.HistoryRecord{Action: action}).
		Count(&count).Error
	return count, err
}
