package booking

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrExclusionConflict is returned when the database exclusion
	// constraint rejects an overlapping bay or mechanic interval
	ErrExclusionConflict = errors.New("booking.repository: overlapping interval rejected by exclusion constraint")

	// ErrCannotCancel is returned when the booking is in a terminal state
	ErrCannotCancel = errors.New("booking.repository: booking cannot be cancelled")

	// ErrBuildQuery is returned when assembling SQL fails
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
