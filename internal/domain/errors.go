package domain

import "errors"

// Engine error taxonomy. ErrInvalidModel and ErrInvalidDensity are caller
// configuration errors and are never retried. ErrSearchExhausted is
// retryable with a fresh seed, bounded by the caller's retry budget.
var (
	ErrInvalidModel    = errors.New("invalid block size")
	ErrInvalidDensity  = errors.New("density out of range (0,1]")
	ErrSearchExhausted = errors.New("search exhausted without a satisfying assignment")
)
