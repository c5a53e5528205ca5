package model

import (
	"time"
)

type Concert struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Seat        int       `gorm:"not null" json:"seat"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Reservation is a requester's claim on one seat-slot of a concert.
// The composite unique index backs the one-reservation-per-concert-per-requester rule.
type Reservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequesterID string    `gorm:"size:64;not null;uniqueIndex:idx_concert_requester" json:"requester_id"`
	ConcertID   uint      `gorm:"not null;uniqueIndex:idx_concert_requester" json:"concert_id"`
	Concert     Concert   `gorm:"constraint:OnDelete:CASCADE" json:"concert"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

type HistoryAction string

const (
	ActionReserve HistoryAction = "reserve"
	ActionCancel  HistoryAction = "cancel"
)

// HistoryRecord is an append-only audit entry. ConcertName is a snapshot taken
// at action time so records survive concert deletion.
type HistoryRecord struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	RequesterID string        `gorm:"size:64;index" json:"requester_id"`
	ConcertName string        `gorm:"size:100;not null" json:"concert_name"`
	Action      HistoryAction `gorm:"type:varchar(16);not null" json:"action"`
	CreatedAt   time.Time     `gorm:"index" json:"date_time"`
}

func (HistoryRecord) TableName() string {
	return "reservation_history"
}

// ConcertWithStatus decorates a concert with the calling requester's
// reservation state for the listing endpoint.
type ConcertWithStatus struct {
	Concert
	CanReserve    bool  `json:"can_reserve"`
	CanCancel     bool  `json:"can_cancel"`
	ReservationID *uint `json:"reservation_id"`
}

// Stats are aggregate numbers for the admin dashboard. TotalSeats is total
// capacity (remaining seats plus active reservations), so reserve and cancel
// traffic does not move it.
type Stats struct {
	TotalSeats   int   `json:"total_seats"`
	ReserveCount int64 `json:"reserve_count"`
	CancelCount  int64 `json:"cancel_count"`
}
