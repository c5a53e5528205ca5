package domain

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/qs-lzh/concert-booking/internal/cache"
	"github.com/qs-lzh/concert-booking/internal/model"
	"github.com/qs-lzh/concert-booking/internal/repository"
	"github.com/qs-lzh/concert-booking/internal/service"
)

type ConcertService interface {
	CreateConcert(name, description string, seat int) (*model.Concert, error)
	GetConcertByID(id uint) (*model.Concert, error)
	GetAllConcerts() ([]model.Concert, error)
	GetAllConcertsWithStatus(requesterID string) ([]model.ConcertWithStatus, error)
	DeleteConcert(id uint) error
}

type concertService struct {
	txm          TxManager
	concerts     repository.ConcertRepo
	reservations repository.ReservationRepo
	cache        cache.Cache
}

var _ ConcertService = (*concertService)(nil)

func NewConcertService(txm TxManager, concertRepo repository.ConcertRepo, reservationRepo repository.ReservationRepo, cache cache.Cache) *concertService {
	return &concertService{
		txm:          txm,
		concerts:     concertRepo,
		reservations: reservationRepo,
		cache:        cache,
	}
}

func (s *concertService) CreateConcert(name, description string, seat int) (*model.Concert, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" || seat < 1 {
		return nil, service.ErrInvalidInput
	}

	_, err := s.concerts.GetByName(name)
	if err == nil {
		return nil, service.ErrConcertExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	concert := &model.Concert{
		Name:        name,
		Description: description,
		Seat:        seat,
	}
	// the unique index closes the race between the check above and the insert
	if err := s.concerts.Create(concert); err != nil {
		return nil, err
	}

	s.invalidateConcertCaches()

	return concert, nil
}

func (s *concertService) GetConcertByID(id uint) (*model.Concert, error) {
	concert, err := s.concerts.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return concert, nil
}

func (s *concertService) GetAllConcerts() ([]model.Concert, error) {
	var cached []model.Concert
	if s.cache.Get(cache.ConcertsKey, &cached) {
		return cached, nil
	}

	concerts, err := s.concerts.ListAll()
	if err != nil {
		return nil, err
	}

	s.cache.Set(cache.ConcertsKey, concerts, cache.ConcertsTTL)

	return concerts, nil
}

func (s *concertService) GetAllConcertsWithStatus(requesterID string) ([]model.ConcertWithStatus, error) {
	key := cache.MakeConcertsWithStatusKey(requesterID)

	var cached []model.ConcertWithStatus
	if s.cache.Get(key, &cached) {
		return cached, nil
	}

	concerts, err := s.concerts.ListAll()
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.ListByRequester(requesterID)
	if err != nil {
		return nil, err
	}

	reservedByConcert := make(map[uint]uint, len(reservations))
	for _, r := range reservations {
		reservedByConcert[r.ConcertID] = r.ID
	}

	result := make([]model.ConcertWithStatus, 0, len(concerts))
	for _, c := range concerts {
		status := model.ConcertWithStatus{Concert: c}
		if id, ok := reservedByConcert[c.ID]; ok {
			reservationID := id
			status.CanCancel = true
			status.ReservationID = &reservationID
		} else {
			status.CanReserve = c.Seat > 0
		}
		result = append(result, status)
	}

	s.cache.Set(key, result, cache.ConcertsWithStatusTTL)

	return result, nil
}

func (s *concertService) DeleteConcert(id uint) error {
	err := s.txm.Transaction(func(tx *gorm.DB) error {
		concerts := s.concerts.WithTx(tx)

		if _, err := concerts.GetByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return service.ErrNotFound
			}
			return err
		}

		// cascade: dependent reservations go first
		if err := s.reservations.WithTx(tx).DeleteByConcertID(id); err != nil {
			return err
		}

		affected, err := concerts.Delete(id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return service.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateConcertCaches()

	return nil
}

func (s *concertService) invalidateConcertCaches() {
	s.cache.Delete(cache.ConcertsKey, cache.StatsKey)
	s.cache.DeletePrefix(cache.ConcertsWithStatusPrefix)
}
