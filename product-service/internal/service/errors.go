package service

import "errors"

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConcurrencyConflict means another reservation won the race between
	// the stock read and the conditional write. The caller decides whether
	// to retry; this service never does.
	ErrConcurrencyConflict = errors.New("concurrency conflict: stock was updated by another transaction")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
)
