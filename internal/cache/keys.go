package cache

import (
	"fmt"
	"time"
)

// key names definition
// per-requester keys share a prefix so they can be invalidated together
const (
	ConcertsKey               = "concerts:all"
	ConcertsWithStatusPrefix  = "concerts:with-status"
	HistoryKey                = "reservations:history"
	RequesterHistoryKeyPrefix = "reservations:history:"
	StatsKey                  = "reservations:stats"
)

// TTLs tuned per endpoint's staleness tolerance. The cache is advisory only,
// every entry self-heals through expiry even if an invalidation is lost.
const (
	ConcertsTTL           = 60 * time.Second
	ConcertsWithStatusTTL = 30 * time.Second
	HistoryTTL            = 5 * time.Minute
	StatsTTL              = 30 * time.Second
)

func MakeConcertsWithStatusKey(requesterID string) string {
	return fmt.Sprintf("%s:%s", ConcertsWithStatusPrefix, requesterID)
}

func MakeRequesterHistoryKey(requesterID string) string {
	return RequesterHistoryKeyPrefix + requesterID
}
