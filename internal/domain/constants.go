package domain

// Default planner parameters
const (
	DefaultStepGranularityMinutes = 15
	DefaultLeadTimeMinutes        = 60
	DefaultSearchWindowDays       = 30
	DefaultMaxProposals           = 10
)

// Fragmentation bounds. A fragmented proposal never exceeds these limits,
// which guarantees scan termination on pathological calendars.
const (
	MinFragmentPartMinutes = 30
	MaxFragmentParts       = 3
	MaxFragmentDays        = 3
)

// Alternative-suggestion parameters used after a commit-time conflict
const (
	AlternativeShiftMinutes = 15
	AlternativeShiftSteps   = 4
)

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 1440
	MaxBufferMinutes   = 240
	MaxTitleLength     = 200
	MaxNotesLength     = 500
	MinVatPercent      = 0
	MaxVatPercent      = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultTimezone is the explicit fallback zone used when a workshop has no
// timezone configured. An unrecognized zone name falls back to UTC with a
// logged warning, never silently.
const DefaultTimezone = "Europe/Stockholm"

// TerminalStatuses are the final lifecycle states of a booking.
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// DefaultBlockingStatuses is the conflict filter applied when the
// configuration does not name one. Empty means every status blocks its
// slot, which matches the historical behavior of the booking tables.
var DefaultBlockingStatuses []BookingStatus
