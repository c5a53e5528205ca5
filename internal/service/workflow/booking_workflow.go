package workflow

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-booking/internal/cache"
	"github.com/qs-lzh/concert-booking/internal/model"
	"github.com/qs-lzh/concert-booking/internal/mq"
	"github.com/qs-lzh/concert-booking/internal/service/domain"
)

// BookingWorkflow coordinates a booking transaction with its post-commit
// side effects: cache invalidation and event publication. Both are
// best-effort, a committed booking is never rolled back because the cache or
// the broker is down.
type BookingWorkflow struct {
	BookingService domain.BookingService
	Cache          cache.Cache
	MQConn         *amqp.Connection
	Logger         *zap.Logger
}

func NewBookingWorkflow(bookingService domain.BookingService, cache cache.Cache, mqConn *amqp.Connection, logger *zap.Logger) *BookingWorkflow {
	return &BookingWorkflow{
		BookingService: bookingService,
		Cache:          cache,
		MQConn:         mqConn,
		Logger:         logger,
	}
}

func (w *BookingWorkflow) Reserve(concertID uint, requesterID string) (*model.Reservation, error) {
	reservation, err := w.BookingService.Reserve(concertID, requesterID)
	if err != nil {
		return nil, err
	}

	w.invalidateBookingCaches(requesterID)
	w.publishEvent(reservation, model.ActionReserve)

	w.Logger.Info("reservation created",
		zap.Uint("reservation_id", reservation.ID),
		zap.Uint("concert_id", concertID),
		zap.String("requester_id", requesterID))

	return reservation, nil
}

func (w *BookingWorkflow) Cancel(reservationID uint) error {
	reservation, err := w.BookingService.Cancel(reservationID)
	if err != nil {
		return err
	}

	w.invalidateBookingCaches(reservation.RequesterID)
	w.publishEvent(reservation, model.ActionCancel)

	w.Logger.Info("reservation cancelled",
		zap.Uint("reservation_id", reservationID),
		zap.Uint("concert_id", reservation.ConcertID),
		zap.String("requester_id", reservation.RequesterID))

	return nil
}

func (w *BookingWorkflow) ListReservations() ([]model.Reservation, error) {
	return w.BookingService.ListReservations()
}

// invalidateBookingCaches evicts every read view a reserve or cancel can
// stale: concert listings, both history views and the stats aggregate.
func (w *BookingWorkflow) invalidateBookingCaches(requesterID string) {
	w.Cache.Delete(
		cache.ConcertsKey,
		cache.HistoryKey,
		cache.MakeRequesterHistoryKey(requesterID),
		cache.StatsKey,
	)
	w.Cache.DeletePrefix(cache.ConcertsWithStatusPrefix)
}

func (w *BookingWorkflow) publishEvent(reservation *model.Reservation, action model.HistoryAction) {
	if w.MQConn == nil {
		return
	}

	ch, err := mq.NewChannel(w.MQConn)
	if err != nil {
		w.Logger.Warn("booking event dropped, channel open failed", zap.Error(err))
		return
	}
	defer ch.Close()

	err = mq.SendMessage(ch, mq.BookingEventsQueue, mq.BookingEventMessage{
		RequesterID: reservation.RequesterID,
		ConcertID:   reservation.ConcertID,
		ConcertName: reservation.Concert.Name,
		Action:      action,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		w.Logger.Warn("booking event dropped, publish failed", zap.Error(err))
	}
}
