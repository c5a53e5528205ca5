package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs-lzh/concert-booking/internal/model"
	"github.com/qs-lzh/concert-booking/internal/service"
)

// lockWait bounds how long a booking transaction blocks on the concert row
// lock before aborting with a retryable error.
const lockWait = "3s"

type ConcertRepo interface {
	WithTx(tx *gorm.DB) ConcertRepo
	Create(concert *model.Concert) error
	GetByID(id uint) (*model.Concert, error)
	// GetByIDForUpdate acquires an exclusive row lock for the lifetime of the
	// surrounding transaction. Must only be called inside one.
	GetByIDForUpdate(id uint) (*model.Concert, error)
	GetByName(name string) (*model.Concert, error)
	ListAll() ([]model.Concert, error)
	Delete(id uint) (int64, error)
	// AdjustSeat applies seat += delta, refusing to drive the count negative.
	AdjustSeat(id uint, delta int) error
	SumSeats() (int64, error)
}

type concertRepoGorm struct {
	db *gorm.DB
}

var _ ConcertRepo = (*concertRepoGorm)(nil)

func NewConcertRepoGorm(db *gorm.DB) *concertRepoGorm {
	return &concertRepoGorm{
		db: db,
	}
}

func (r *concertRepoGorm) WithTx(tx *gorm.DB) ConcertRepo {
	return &concertRepoGorm{
		db: tx,
	}
}

func (r *concertRepoGorm) Create(concert *model.Concert) error {
	ctx := context.Background()
	if err := gorm.G[model.Concert](r.db).Create(ctx, concert); err != nil {
		return classifyPgError(err)
	}
	return nil
}

func (r *concertRepoGorm) GetByID(id uint) (*model.Concert, error) {
	ctx := context.Background()
	concert, err := gorm.G[model.Concert](r.db).Where(&model.Concert{ID: id}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &concert, nil
}

func (r *concertRepoGorm) GetByIDForUpdate(id uint) (*model.Concert, error) {
	if err := r.db.Exec("SET LOCAL lock_timeout = '" + lockWait + "'").Error; err != nil {
		return nil, err
	}
	var concert model.Concert
	err := r.db.
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&concert, id).Error
	if err != nil {
		return nil, classifyPgError(err)
	}
	return &concert, nil
}

func (r *concertRepoGorm) GetByName(name string) (*model.Concert, error) {
	ctx := context.Background()
	concert, err := gorm.G[model.Concert](r.db).Where(&model.Concert{Name: name}).First(ctx)
	if err != nil {
		return nil, err
	}
	return &concert, nil
}

func (r *concertRepoGorm) ListAll() ([]model.Concert, error) {
	ctx := context.Background()
	concerts, err := gorm.G[model.Concert](r.db).Find(ctx)
	if err != nil {
		return nil, err
	}
	return concerts, nil
}

func (r *concertRepoGorm) Delete(id uint) (int64, error) {
	res := r.db.Delete(&model.Concert{}, id)
	return res.RowsAffected, res.Error
}

func (r *concertRepoGorm) AdjustSeat(id uint, delta int) error {
	res := r.db.Model(&model.Concert{}).
		Where("id = ? AND seat + ? >= 0", id, delta).
		UpdateColumn("seat", gorm.Expr("seat + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// the caller holds the row lock and has already checked availability,
		// so this only fires if that check was bypassed
		return service.ErrSeatUnderflow
	}
	return nil
}

func (r *concertRepoGorm) SumSeats() (int64, error) {
	var total int64
	err := r.db.Model(&model.Concert{}).
		Select("COALESCE(SUM(seat), 0)").
		Scan(&total).Error
	return total, err
}
