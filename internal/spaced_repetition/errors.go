package spaced_repetition

import "errors"

// Sentinel errors for the spaced_repetition package.
// Use errors.Is to check: errors.Is(err, spaced_repetition.ErrStorage)
var (
	// ErrStorage wraps every failure of the record store. The operation did not
	// take effect and must be retried or reported; an outcome is never dropped.
	ErrStorage = errors.New("spaced_repetition: storage failure")
	// ErrInvalidItem is returned for an empty item identifier
	ErrInvalidItem = errors.New("spaced_repetition: invalid item identifier")
)
