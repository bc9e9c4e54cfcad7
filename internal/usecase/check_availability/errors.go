package check_availability

import "errors"

var (
	// ErrWorkshopNotFound workshop does not exist
	ErrWorkshopNotFound = errors.New("workshop not found")

	// ErrBayNotFound bay does not exist
	ErrBayNotFound = errors.New("bay not found")

	// ErrBayNotInWorkshop bay belongs to a different workshop
	ErrBayNotInWorkshop = errors.New("bay does not belong to this workshop")

	// ErrInvalidRequest request ids must be positive
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternal internal error
	ErrInternal = errors.New("internal error")
)
