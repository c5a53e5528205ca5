package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs-lzh/concert-booking/internal/model"
)

type ReservationRepo interface {
	WithTx(tx *gorm.DB) ReservationRepo
	Create(reservation *model.Reservation) error
	GetByIDWithConcert(id uint) (*model.Reservation, error)
	ListAllWithConcert() ([]model.Reservation, error)
	ListByRequester(requesterID string) ([]model.Reservation, error)
	ExistsForConcert(concertID uint, requesterID string) (bool, error)
	// DeleteByID reports how many rows were removed so callers can detect a
	// reservation that vanished between load and lock acquisition.
	DeleteByID(id uint) (int64, error)
	DeleteByConcertID(concertID uint) error
	CountActive() (int64, error)
}

type reservationRepoGorm struct {
	db *gorm.DB
}

var _ ReservationRepo = (*reservationRepoGorm)(nil)

func NewReservationRepoGorm(db *gorm.DB) *reservationRepoGorm {
	return &reservationRepoGorm{
		db: db,
	}
}

func (r *reservationRepoGorm) WithTx(tx *gorm.DB) ReservationRepo {
	return &reservationRepoGorm{
		db: tx,
	}
}

func (r *reservationRepoGorm) Create(reservation *model.Reservation) error {
	ctx := context.Background()
	if err := gorm.G[model.Reservation](r.db).Create(ctx, reservation); err != nil {
		return err
	}
	return nil
}

func (r *reservationRepoGorm) GetByIDWithConcert(id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.Preload("Concert").First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepoGorm) ListAllWithConcert() ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.Preload("Concert").Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepoGorm) ListByRequester(requesterID string) ([]model.Reservation, error) {
	ctx := context.Background()
	reservations, err := gorm.G[model.Reservation](r.db).
		Where(&model.Reservation{RequesterID: requesterID}).
		Find(ctx)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepoGorm) ExistsForConcert(concertID uint, requesterID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Reservation{}).
		Where(&model.Reservation{ConcertID: concertID, RequesterID: requesterID}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reservationRepoGorm) DeleteByID(id uint) (int64, error) {
	res := r.db.Delete(&model.Reservation{}, id)
	return res.RowsAffected, res.Error
}

func (r *reservationRepoGorm) DeleteByConcertID(concertID uint) error {
	return r.db.
		Where(&model.Reservation{ConcertID: concertID}).
		Delete(&model.Reservation{}).Error
}

func (r *reservationRepoGorm) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Reservation{}).Count(&count).Error
	return count, err
}
