package domain

import (
	"fmt"
	"time"
)

// Disqualification reason tags surfaced for diagnostics
const (
	ReasonOutsideWorkingHours = "outside_working_hours"
	ReasonTimeOff             = "time_off"
	ReasonBusyWithBuffer      = "busy_with_buffer"
	ReasonTooShortPart        = "too_short_part"
	ReasonInsufficientCover   = "insufficient_cover"
	ReasonNotAvailable        = "not_available"
)

// Empty-result reasons returned by an availability search
const (
	EmptyReasonNoMatchingBays  = "no bays match the vehicle profile"
	EmptyReasonNoEligibleStaff = "no schedule-eligible staff"
	EmptyReasonNoFreeTime      = "no free time in range"
)

// ProposalPart is one contiguous piece of a fragmented proposal.
type ProposalPart struct {
	StartAt time.Time
	EndAt   time.Time
}

// Duration returns the part length.
func (p ProposalPart) Duration() time.Duration {
	return p.EndAt.Sub(p.StartAt)
}

// CandidateDiagnostic explains why a mechanic qualified or was rejected
// for a slot.
type CandidateDiagnostic struct {
	MechanicID int64
	Score      int
	Reasons    []string
}

// AvailabilityProposal is one schedulable candidate. Contiguous proposals
// have exactly one part; fragmented proposals carry up to MaxFragmentParts
// parts plus a token the parts share when booked.
type AvailabilityProposal struct {
	BayID      int64
	MechanicID int64
	Parts      []ProposalPart
	Score      int

	// Note names the bay, with the gap list appended on fragmented
	// proposals.
	Note string

	// SuggestedChainToken is set on fragmented proposals only.
	SuggestedChainToken *string

	// Candidates ranks the qualified mechanics, best first. Disqualified
	// explains why the others were rejected.
	Candidates   []CandidateDiagnostic
	Disqualified []CandidateDiagnostic
}

// StartAt returns the start of the first part.
func (p *AvailabilityProposal) StartAt() time.Time {
	return p.Parts[0].StartAt
}

// EndAt returns the end of the last part.
func (p *AvailabilityProposal) EndAt() time.Time {
	return p.Parts[len(p.Parts)-1].EndAt
}

// IsFragmented reports whether the proposal spans more than one part.
func (p *AvailabilityProposal) IsFragmented() bool {
	return len(p.Parts) > 1
}

// Alternative is a best-effort replacement slot offered after a conflict.
type Alternative struct {
	BayID      int64
	MechanicID *int64
	StartAt    time.Time
	EndAt      time.Time
}

// ConflictError reports that a bay or mechanic is already occupied. It is a
// structured result, carried as a value so callers can branch on it and
// render the alternatives.
type ConflictError struct {
	Resource     string // "bay" or "mechanic"
	Detail       string
	Alternatives []Alternative
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict on %s: %s", e.Resource, e.Detail)
}
