package cache

import (
	"time"
)

// Cache is a best-effort read accelerator, never the source of truth. A miss
// or a failed write only costs latency; callers must always be able to fall
// back to the database. Implementations swallow and log their own errors.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether it hit.
	Get(key string, dest any) bool
	Set(key string, value any, ttl time.Duration)
	Delete(keys ...string)
	// DeletePrefix evicts every key starting with prefix, used for the
	// per-requester key families.
	DeletePrefix(prefix string)
	Close() error
}
