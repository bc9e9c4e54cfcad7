package complete_booking

import "errors"

var (
	// ErrBookingNotFound booking does not exist
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotInWorkshop booking belongs to a different workshop
	ErrBookingNotInWorkshop = errors.New("booking does not belong to this workshop")

	// ErrInvalidMinutes minutes spent cannot be negative
	ErrInvalidMinutes = errors.New("actual minutes spent cannot be negative")

	// ErrInvalidCustomPrice custom final price must be non-negative
	ErrInvalidCustomPrice = errors.New("custom final price must be non-negative")

	// ErrNotHourlyService time-based billing needs an hourly service item
	ErrNotHourlyService = errors.New("time-based billing requires an hourly service item with a rate")

	// ErrCannotComplete booking is cancelled or otherwise not completable
	ErrCannotComplete = errors.New("booking cannot be completed from its current status")

	// ErrInternal internal error
	ErrInternal = errors.New("internal error")
)
