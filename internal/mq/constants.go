package mq

import (
	"time"

	"github.com/qs-lzh/concert-booking/internal/model"
)

// Queue names and message definitions

// booking events queue
// one message per committed reserve or cancel, consumed by downstream
// notification services; publication is best-effort
const (
	BookingEventsQueue = "booking.events"
)

type BookingEventMessage struct {
	RequesterID string              `json:"requester_id"`
	ConcertID   uint                `json:"concert_id"`
	ConcertName string              `json:"concert_name"`
	Action      model.HistoryAction `json:"action"`
	OccurredAt  time.Time           `json:"occurred_at"`
}
