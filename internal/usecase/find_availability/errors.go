package find_availability

import "errors"

var (
	// ErrWorkshopNotFound workshop does not exist
	ErrWorkshopNotFound = errors.New("workshop not found")

	// ErrServiceItemNotFound service item does not exist in this workshop
	ErrServiceItemNotFound = errors.New("service item not found in this workshop")

	// ErrInvalidWorkshopID workshop id must be positive
	ErrInvalidWorkshopID = errors.New("workshop id must be positive")

	// ErrInvalidServiceItemID service item id must be positive
	ErrInvalidServiceItemID = errors.New("service item id must be positive")

	// ErrInvalidDuration duration must be positive and within the daily cap
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidTimeWindow latest_end must come after earliest_from
	ErrInvalidTimeWindow = errors.New("latest_end must be after earliest_from")

	// ErrUnknownStrategy assignment strategy is not recognized
	ErrUnknownStrategy = errors.New("unknown assignment strategy")

	// ErrInternal internal error
	ErrInternal = errors.New("internal error")
)
