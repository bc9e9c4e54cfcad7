package bay

import "errors"

var (
	// ErrBayNotFound is returned when the bay does not exist
	ErrBayNotFound = errors.New("bay.repository: bay not found")

	// ErrBuildQuery is returned when assembling SQL fails
	ErrBuildQuery = errors.New("bay.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails
	ErrExecQuery = errors.New("bay.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("bay.repository: failed to scan row")
)
