package schedule

import "errors"

var (
	// ErrBuildQuery is returned when assembling SQL fails
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery is returned when executing SQL fails
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
