package check_availability

import "time"

// Request asks whether one bay is free for an interval, buffers included.
type Request struct {
	WorkshopID      int64
	BayID           int64
	StartAt         time.Time
	EndAt           time.Time
	BufferBeforeMin int
	BufferAfterMin  int
}

// Response is the structured availability verdict. Reason is set only when
// the slot is unavailable.
type Response struct {
	Available bool
	Reason    *string
}
