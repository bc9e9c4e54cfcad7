package auto_schedule

import "errors"

var (
	// ErrWorkshopNotFound workshop does not exist
	ErrWorkshopNotFound = errors.New("workshop not found")

	// ErrBayNotFound bay does not exist
	ErrBayNotFound = errors.New("bay not found")

	// ErrBayNotInWorkshop bay belongs to a different workshop
	ErrBayNotInWorkshop = errors.New("bay does not belong to this workshop")

	// ErrCarNotFound car_id does not resolve to a car
	ErrCarNotFound = errors.New("car not found")

	// ErrMechanicNotFound assigned mechanic does not exist
	ErrMechanicNotFound = errors.New("assigned mechanic not found")

	// ErrMechanicNotEligible assigned staff member has no workshop role
	ErrMechanicNotEligible = errors.New("assigned mechanic is not schedule-eligible")

	// ErrVehicleIncompatible the vehicle does not fit the bay
	ErrVehicleIncompatible = errors.New("vehicle does not fit the bay")

	// ErrInvalidInterval end_at must be after start_at
	ErrInvalidInterval = errors.New("end_at must be after start_at")

	// ErrInvalidTitle title is required and bounded
	ErrInvalidTitle = errors.New("invalid title")

	// ErrInvalidBuffer buffers must be 0..240 minutes
	ErrInvalidBuffer = errors.New("invalid buffer")

	// ErrInvalidVat vat_percent must be 0..100
	ErrInvalidVat = errors.New("vat_percent must be 0..100")

	// ErrNegativePrice prices cannot be negative
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrChainWorkshopMismatch every chain part must share the workshop
	ErrChainWorkshopMismatch = errors.New("all chain parts must belong to the same workshop")

	// ErrChainCarMismatch every chain part must share the car
	ErrChainCarMismatch = errors.New("all chain parts must reference the same car")

	// ErrChainServiceItemMismatch every chain part must share the service item
	ErrChainServiceItemMismatch = errors.New("all chain parts must reference the same service item")

	// ErrInternal internal error
	ErrInternal = errors.New("internal error")
)
