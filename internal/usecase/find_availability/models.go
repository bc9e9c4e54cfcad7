package find_availability

import (
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// Request describes one availability search.
type Request struct {
	WorkshopID         int64
	ServiceItemID      int64
	RegistrationNumber string

	// Search window. EarliestFrom defaults to now, LatestEnd to the
	// configured search horizon.
	EarliestFrom *time.Time
	LatestEnd    *time.Time

	// Preference bumps the score, it never filters.
	PreferredMechanicID *int64

	NumProposals         int
	GranularityMin       int
	OverrideDurationMin  *int
	Strategy             string
	ReturnCandidates     bool
	MaxCandidatesPerSlot int
	MinLeadTimeMin       *int
	AllowFragmentedParts bool
}

// Response carries the ranked proposals. ReasonIfEmpty is set when the
// search produced nothing.
type Response struct {
	Proposals     []domain.AvailabilityProposal
	ReasonIfEmpty *string
}
