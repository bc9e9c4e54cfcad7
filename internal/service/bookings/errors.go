package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied is returned when the user is not staff of the workshop
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel is returned when the booking is already terminal
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidTransition is returned for an illegal status flip
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput is returned for malformed request data
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on unexpected failures
	ErrInternal = errors.New("service: internal error")
)
