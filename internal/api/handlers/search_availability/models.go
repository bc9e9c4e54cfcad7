package search_availability

import (
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/internal/usecase/find_availability"
)

// SearchAvailabilityRequest is the search body. Timestamps must carry a
// UTC offset; naive timestamps are rejected when decoding.
type SearchAvailabilityRequest struct {
	WorkshopID         int64   `json:"workshopId"`
	ServiceItemID      int64   `json:"serviceItemId"`
	RegistrationNumber string  `json:"registrationNumber,omitempty"`

	EarliestFrom *time.Time `json:"earliestFrom,omitempty"`
	LatestEnd    *time.Time `json:"latestEnd,omitempty"`

	PreferredMechanicID *int64 `json:"preferredMechanicId,omitempty"`
	NumProposals        int    `json:"numProposals,omitempty"`
	GranularityMin      int    `json:"granularityMin,omitempty"`
	OverrideDurationMin *int   `json:"overrideDurationMin,omitempty"`

	AssignmentStrategy   string `json:"assignmentStrategy,omitempty"`
	ReturnCandidates     *bool  `json:"returnCandidates,omitempty"`
	MaxCandidatesPerSlot int    `json:"maxCandidatesPerSlot,omitempty"`
	MinLeadTimeMin       *int   `json:"minLeadTimeMin,omitempty"`
	AllowFragmentedParts bool   `json:"allowFragmentedParts,omitempty"`
}

// ToUseCaseRequest converts the DTO into the use case request.
func (r *SearchAvailabilityRequest) ToUseCaseRequest() *find_availability.Request {
	returnCandidates := true
	if r.ReturnCandidates != nil {
		returnCandidates = *r.ReturnCandidates
	}

	return &find_availability.Request{
		WorkshopID:           r.WorkshopID,
		ServiceItemID:        r.ServiceItemID,
		RegistrationNumber:   r.RegistrationNumber,
		EarliestFrom:         r.EarliestFrom,
		LatestEnd:            r.LatestEnd,
		PreferredMechanicID:  r.PreferredMechanicID,
		NumProposals:         r.NumProposals,
		GranularityMin:       r.GranularityMin,
		OverrideDurationMin:  r.OverrideDurationMin,
		Strategy:             r.AssignmentStrategy,
		ReturnCandidates:     returnCandidates,
		MaxCandidatesPerSlot: r.MaxCandidatesPerSlot,
		MinLeadTimeMin:       r.MinLeadTimeMin,
		AllowFragmentedParts: r.AllowFragmentedParts,
	}
}

// Response models

type ProposalPartResponse struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type CandidateResponse struct {
	MechanicID int64    `json:"mechanicId"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons,omitempty"`
}

type ProposalResponse struct {
	BayID               int64                  `json:"bayId"`
	MechanicID          int64                  `json:"mechanicId"`
	Parts               []ProposalPartResponse `json:"parts"`
	Score               int                    `json:"score"`
	Note                string                 `json:"note,omitempty"`
	SuggestedChainToken *string                `json:"suggestedChainToken,omitempty"`
	Candidates          []CandidateResponse    `json:"candidates,omitempty"`
	Disqualified        []CandidateResponse    `json:"disqualified,omitempty"`
}

type SearchAvailabilityResponse struct {
	Proposals     []ProposalResponse `json:"proposals"`
	ReasonIfEmpty *string            `json:"reasonIfEmpty,omitempty"`
}

// FromUseCaseResponse converts the use case response into the DTO.
func FromUseCaseResponse(resp *find_availability.Response) *SearchAvailabilityResponse {
	out := &SearchAvailabilityResponse{
		Proposals:     make([]ProposalResponse, 0, len(resp.Proposals)),
		ReasonIfEmpty: resp.ReasonIfEmpty,
	}
	for i := range resp.Proposals {
		out.Proposals = append(out.Proposals, fromDomainProposal(&resp.Proposals[i]))
	}
	return out
}

func fromDomainProposal(p *domain.AvailabilityProposal) ProposalResponse {
	resp := ProposalResponse{
		BayID:               p.BayID,
		MechanicID:          p.MechanicID,
		Parts:               make([]ProposalPartResponse, 0, len(p.Parts)),
		Score:               p.Score,
		Note:                p.Note,
		SuggestedChainToken: p.SuggestedChainToken,
		Candidates:          fromDiagnostics(p.Candidates),
		Disqualified:        fromDiagnostics(p.Disqualified),
	}
	for _, part := range p.Parts {
		resp.Parts = append(resp.Parts, ProposalPartResponse{StartAt: part.StartAt, EndAt: part.EndAt})
	}
	return resp
}

func fromDiagnostics(list []domain.CandidateDiagnostic) []CandidateResponse {
	if len(list) == 0 {
		return nil
	}
	out := make([]CandidateResponse, 0, len(list))
	for _, d := range list {
		out = append(out, CandidateResponse{MechanicID: d.MechanicID, Score: d.Score, Reasons: d.Reasons})
	}
	return out
}
