package domain

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs-lzh/concert-booking/internal/model"
	"github.com/qs-lzh/concert-booking/internal/repository"
	"github.com/qs-lzh/concert-booking/internal/service"
)

// BookingService runs the reserve/cancel state machine. Each operation is a
// single transaction serialized per concert by an exclusive row lock, so two
// requesters can never both observe the last seat and both take it.
type BookingService interface {
	Reserve(concertID uint, requesterID string) (*model.Reservation, error)
	// Cancel returns a snapshot of the removed reservation, concert included,
	// for cache invalidation and event publication.
	Cancel(reservationID uint) (*model.Reservation, error)
	ListReservations() ([]model.Reservation, error)
}

type bookingService struct {
	txm          TxManager
	concerts     repository.ConcertRepo
	reservations repository.ReservationRepo
	history      repository.HistoryRepo
}

var _ BookingService = (*bookingService)(nil)

func NewBookingService(txm TxManager, concertRepo repository.ConcertRepo, reservationRepo repository.ReservationRepo, historyRepo repository.HistoryRepo) *bookingService {
	return &bookingService{
		txm:          txm,
		concerts:     concertRepo,
		reservations: reservationRepo,
		history:      historyRepo,
	}
}

func (s *bookingService) Reserve(concertID uint, requesterID string) (*model.Reservation, error) {
	var reservation *model.Reservation

	err := s.txm.Transaction(func(tx *gorm.DB) error {
		concerts := s.concerts.WithTx(tx)
		reservations := s.reservations.WithTx(tx)

		concert, err := concerts.GetByIDForUpdate(concertID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrNotFound
			}
			return err
		}

		exists, err := reservations.ExistsForConcert(concertID, requesterID)
		if err != nil {
			return err
		}
		if exists {
			return service.ErrAlreadyReserved
		}

		if concert.Seat <= 0 {
			return service.ErrSoldOut
		}

		if err := concerts.AdjustSeat(concertID, -1); err != nil {
			return err
		}

		created := &model.Reservation{
			RequesterID: requesterID,
			ConcertID:   concertID,
		}
		if err := reservations.Create(created); err != nil {
			return err
		}

		if err := s.history.WithTx(tx).Append(&model.HistoryRecord{
			RequesterID: requesterID,
			ConcertName: concert.Name,
			Action:      model.ActionReserve,
		}); err != nil {
			return err
		}

		created.Concert = *concert
		created.Concert.Seat--
		reservation = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (s *bookingService) Cancel(reservationID uint) (*model.Reservation, error) {
	var cancelled *model.Reservation

	err := s.txm.Transaction(func(tx *gorm.DB) error {
		concerts := s.concerts.WithTx(tx)
		reservations := s.reservations.WithTx(tx)

		reservation, err := reservations.GetByIDWithConcert(reservationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrNotFound
			}
			return err
		}

		// lock the concert row before touching the seat count; the same lock
		// order as Reserve keeps the per-concert serialization total
		if _, err := concerts.GetByIDForUpdate(reservation.ConcertID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrNotFound
			}
			return err
		}

		// a concurrent cancel may have won the lock first; rows affected tells
		affected, err := reservations.DeleteByID(reservationID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return service.ErrNotFound
		}

		if err := concerts.AdjustSeat(reservation.ConcertID, +1); err != nil {
			return err
		}

		if err := s.history.WithTx(tx).Append(&model.HistoryRecord{
			RequesterID: reservation.RequesterID,
			ConcertName: reservation.Concert.Name,
			Action:      model.ActionCancel,
		}); err != nil {
			return err
		}

		cancelled = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

func (s *bookingService) ListReservations() ([]model.Reservation, error) {
	return s.reservations.ListAllWithConcert()
}
