package notify

import "errors"

var (
	// ErrInternal client-side failure building or executing the request
	ErrInternal = errors.New("notify client: internal error")

	// ErrInvalidResponse the gateway answered with an unexpected payload or status
	ErrInvalidResponse = errors.New("notify client: invalid response")
)
