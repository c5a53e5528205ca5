package domain

import (
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/qs-lzh/concert-booking/internal/model"
	"github.com/qs-lzh/concert-booking/internal/repository"
	"github.com/qs-lzh/concert-booking/internal/service"
)

// fakeStore is shared in-memory state behind the fake repositories. The fake
// tx manager snapshots it before each transaction and restores the snapshot
// when the transaction returns an error, mirroring a database rollback. Its
// mutex stands in for the per-concert row lock: transactions are fully
// serialized, which is what the real lock guarantees for a single concert.
type fakeStore struct {
	mu sync.Mutex

	concerts     map[uint]model.Concert
	reservations map[uint]model.Reservation
	history      []model.HistoryRecord

	nextConcertID     uint
	nextReservationID uint
	nextHistoryID     uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		concerts:     make(map[uint]model.Concert),
		reservations: make(map[uint]model.Reservation),
	}
}

func (s *fakeStore) addConcert(name string, seat int) uint {
	s.nextConcertID++
	s.concerts[s.nextConcertID] = model.Concert{
		ID:          s.nextConcertID,
		Name:        name,
		Description: "test concert",
		Seat:        seat,
		CreatedAt:   time.Now(),
	}
	return s.nextConcertID
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for id, c := range s.concerts {
		cp.concerts[id] = c
	}
	for id, r := range s.reservations {
		cp.reservations[id] = r
	}
	cp.history = append(cp.history, s.history...)
	cp.nextConcertID = s.nextConcertID
	cp.nextReservationID = s.nextReservationID
	cp.nextHistoryID = s.nextHistoryID
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.concerts = snap.concerts
	s.reservations = snap.reservations
	s.history = snap.history
	s.nextConcertID = snap.nextConcertID
	s.nextReservationID = snap.nextReservationID
	s.nextHistoryID = snap.nextHistoryID
}

type fakeTxManager struct {
	store *fakeStore
}

var _ TxManager = (*fakeTxManager)(nil)

func (m *fakeTxManager) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fc(nil); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type fakeConcertRepo struct {
	store *fakeStore
}

var _ repository.ConcertRepo = (*fakeConcertRepo)(nil)

func (r *fakeConcertRepo) WithTx(tx *gorm.DB) repository.ConcertRepo { return r }

func (r *fakeConcertRepo) Create(concert *model.Concert) error {
	for _, c := range r.store.concerts {
		if c.Name == concert.Name {
			return service.ErrConcertExists
		}
	}
	r.store.nextConcertID++
	concert.ID = r.store.nextConcertID
	concert.CreatedAt = time.Now()
	concert.UpdatedAt = concert.CreatedAt
	r.store.concerts[concert.ID] = *concert
	return nil
}

func (r *fakeConcertRepo) GetByID(id uint) (*model.Concert, error) {
	c, ok := r.store.concerts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *fakeConcertRepo) GetByIDForUpdate(id uint) (*model.Concert, error) {
	return r.GetByID(id)
}

func (r *fakeConcertRepo) GetByName(name string) (*model.Concert, error) {
	for _, c := range r.store.concerts {
		if c.Name == name {
			concert := c
			return &concert, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConcertRepo) ListAll() ([]model.Concert, error) {
	concerts := make([]model.Concert, 0, len(r.store.concerts))
	for _, c := range r.store.concerts {
		concerts = append(concerts, c)
	}
	return concerts, nil
}

func (r *fakeConcertRepo) Delete(id uint) (int64, error) {
	if _, ok := r.store.concerts[id]; !ok {
		return 0, nil
	}
	delete(r.store.concerts, id)
	return 1, nil
}

func (r *fakeConcertRepo) AdjustSeat(id uint, delta int) error {
	c, ok := r.store.concerts[id]
	if !ok || c.Seat+delta < 0 {
		return service.ErrSeatUnderflow
	}
	c.Seat += delta
	r.store.concerts[id] = c
	return nil
}

func (r *fakeConcertRepo) SumSeats() (int64, error) {
	var total int64
	for _, c := range r.store.concerts {
		total += int64(c.Seat)
	}
	return total, nil
}

type fakeReservationRepo struct {
	store *fakeStore
}

var _ repository.ReservationRepo = (*fakeReservationRepo)(nil)

func (r *fakeReservationRepo) WithTx(tx *gorm.DB) repository.ReservationRepo { return r }

func (r *fakeReservationRepo) Create(reservation *model.Reservation) error {
	r.store.nextReservationID++
	reservation.ID = r.store.nextReservationID
	reservation.CreatedAt = time.Now()
	r.store.reservations[reservation.ID] = *reservation
	return nil
}

func (r *fakeReservationRepo) GetByIDWithConcert(id uint) (*model.Reservation, error) {
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if c, ok := r.store.concerts[res.ConcertID]; ok {
		res.Concert = c
	}
	return &res, nil
}

func (r *fakeReservationRepo) ListAllWithConcert() ([]model.Reservation, error) {
	out := make([]model.Reservation, 0, len(r.store.reservations))
	for _, res := range r.store.reservations {
		if c, ok := r.store.concerts[res.ConcertID]; ok {
			res.Concert = c
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *fakeReservationRepo) ListByRequester(requesterID string) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, res := range r.store.reservations {
		if res.RequesterID == requesterID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) ExistsForConcert(concertID uint, requesterID string) (bool, error) {
	for _, res := range r.store.reservations {
		if res.ConcertID == concertID && res.RequesterID == requesterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReservationRepo) DeleteByID(id uint) (int64, error) {
	if _, ok := r.store.reservations[id]; !ok {
		return 0, nil
	}
	delete(r.store.reservations, id)
	return 1, nil
}

func (r *fakeReservationRepo) DeleteByConcertID(concertID uint) error {
	for id, res := range r.store.reservations {
		if res.ConcertID == concertID {
			delete(r.store.reservations, id)
		}
	}
	return nil
}

func (r *fakeReservationRepo) CountActive() (int64, error) {
	return int64(len(r.store.reservations)), nil
}

type fakeHistoryRepo struct {
	store      *fakeStore
	failAppend bool
}

var _ repository.HistoryRepo = (*fakeHistoryRepo)(nil)

var errStorageDown = errors.New("storage unavailable")

func (r *fakeHistoryRepo) WithTx(tx *gorm.DB) repository.HistoryRepo { return r }

func (r *fakeHistoryRepo) Append(record *model.HistoryRecord) error {
	if r.failAppend {
		return errStorageDown
	}
	r.store.nextHistoryID++
	record.ID = r.store.nextHistoryID
	record.CreatedAt = time.Now()
	r.store.history = append(r.store.history, *record)
	return nil
}

func (r *fakeHistoryRepo) ListAll() ([]model.HistoryRecord, error) {
	out := make([]model.HistoryRecord, 0, len(r.store.history))
	for i := len(r.store.history) - 1; i >= 0; i-- {
		out = append(out, r.store.history[i])
	}
	return out, nil
}

func (r *fakeHistoryRepo) ListByRequester(requesterID string) ([]model.HistoryRecord, error) {
	var out []model.HistoryRecord
	for i := len(r.store.history) - 1; i >= 0; i-- {
		if r.store.history[i].RequesterID == requesterID {
			out = append(out, r.store.history[i])
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) CountByAction(action model.HistoryAction) (int64, error) {
	var count int64
	for _, rec := range r.store.history {
		if rec.Action == action {
			count++
		}
	}
	return count, nil
}

// fakeCache stores JSON-encoded entries and records evictions.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *fakeCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.entries[key] = data
}

func (c *fakeCache) Delete(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
}

func (c *fakeCache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
	c.deleted = append(c.deleted, prefix+"*")
}

func (c *fakeCache) Close() error { return nil }

// newBookingFixture wires a booking service against fresh fakes.
func newBookingFixture() (*fakeStore, *bookingService) {
	store := newFakeStore()
	svc := NewBookingService(
		&fakeTxManager{store: store},
		&fakeConcertRepo{store: store},
		&fakeReservationRepo{store: store},
		&fakeHistoryRepo{store: store},
	)
	return store, svc
}
