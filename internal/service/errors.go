package service

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrConcertExists   = errors.New("concert with this name already exists")
	ErrAlreadyReserved = errors.New("requester already has a reservation for this concert")
	ErrSoldOut         = errors.New("no seats available for this concert")
	ErrInvalidInput    = errors.New("invalid input")
	ErrSeatUnderflow   = errors.New("seat count would go negative")
	ErrLockTimeout     = errors.New("timed out waiting for concert lock")
)
