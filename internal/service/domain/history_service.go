package domain

import (
	"github.com/qs-lzh/concert-booking/internal/cache"
	"github.com/qs-lzh/concert-booking/internal/model"
	"github.com/qs-lzh/concert-booking/internal/repository"
)

type HistoryService interface {
	GetHistory() ([]model.HistoryRecord, error)
	GetHistoryFor(requesterID string) ([]model.HistoryRecord, error)
	GetStats() (*model.Stats, error)
}

type historyService struct {
	concerts     repository.ConcertRepo
	reservations repository.ReservationRepo
	history      repository.HistoryRepo
	cache        cache.Cache
}

var _ HistoryService = (*historyService)(nil)

func NewHistoryService(concertRepo repository.ConcertRepo, reservationRepo repository.ReservationRepo, historyRepo repository.HistoryRepo, cache cache.Cache) *historyService {
	return &historyService{
		concerts:     concertRepo,
		reservations: reservationRepo,
		history:      historyRepo,
		cache:        cache,
	}
}

func (s *historyService) GetHistory() ([]model.HistoryRecord, error) {
	var cached []model.HistoryRecord
	if s.cache.Get(cache.HistoryKey, &cached) {
		return cached, nil
	}

	records, err := s.history.ListAll()
	if err != nil {
		return nil, err
	}

	s.cache.Set(cache.HistoryKey, records, cache.HistoryTTL)

	return records, nil
}

func (s *historyService) GetHistoryFor(requesterID string) ([]model.HistoryRecord, error) {
	key := cache.MakeRequesterHistoryKey(requesterID)

	var cached []model.HistoryRecord
	if s.cache.Get(key, &cached) {
		return cached, nil
	}

	records, err := s.history.ListByRequester(requesterID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, records, cache.HistoryTTL)

	return records, nil
}

// GetStats reports total capacity and lifetime reserve/cancel counts.
// Remaining seats plus active reservations reconstructs capacity without
// storing it separately.
func (s *historyService) GetStats() (*model.Stats, error) {
	var cached model.Stats
	if s.cache.Get(cache.StatsKey, &cached) {
		return &cached, nil
	}

	remaining, err := s.concerts.SumSeats()
	if err != nil {
		return nil, err
	}
	active, err := s.reservations.CountActive()
	if err != nil {
		return nil, err
	}
	reserveCount, err := s.history.CountByAction(model.ActionReserve)
	if err != nil {
		return nil, err
	}
	cancelCount, err := s.history.CountByAction(model.ActionCancel)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{
		TotalSeats:   int(remaining + active),
		ReserveCount: reserveCount,
		CancelCount:  cancelCount,
	}

	s.cache.Set(cache.StatsKey, stats, cache.StatsTTL)

	return stats, nil
}
