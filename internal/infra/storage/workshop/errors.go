package workshop

import "errors"

var (
	// ErrWorkshopNotFound is returned when the workshop does not exist
	ErrWorkshopNotFound = errors.New("workshop.repository: workshop not found")

	// ErrServiceItemNotFound is returned when the service item does not exist
	ErrServiceItemNotFound = errors.New("workshop.repository: service item not found")

	// ErrMechanicNotFound is returned when the staff member does not exist
	ErrMechanicNotFound = errors.New("workshop.repository: mechanic not found")

	// ErrStaffNotFound is returned when the user is not staff of the workshop
	ErrStaffNotFound = errors.New("workshop.repository: staff member not found")

	// ErrCarNotFound is returned when the car does not exist
	ErrCarNotFound = errors.New("workshop.repository: car not found")

	// ErrProfileNotFound is returned when the car has no vehicle profile
	ErrProfileNotFound = errors.New("workshop.repository: vehicle profile not found")

	// ErrBuildQuery is returned when assembling SQL fails
	ErrBuildQuery = errors.New("workshop.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails
	ErrExecQuery = errors.New("workshop.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("workshop.repository: failed to scan row")
)
