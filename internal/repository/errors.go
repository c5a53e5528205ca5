package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qs-lzh/concert-booking/internal/service"
)

// Postgres error codes the booking engine reacts to.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

// classifyPgError maps driver-level failures onto the service error taxonomy.
// Anything unrecognized passes through untouched and is treated as a
// retryable storage error by callers.
func classifyPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return service.ErrConcertExists
		case pgLockNotAvailable:
			return service.ErrLockTimeout
		}
	}
	return err
}
