package auto_schedule_booking

import (
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/internal/usecase/auto_schedule"
)

// AutoScheduleRequest is the booking body. Timestamps must carry a UTC
// offset; naive timestamps are rejected when decoding.
type AutoScheduleRequest struct {
	WorkshopID int64     `json:"workshopId"`
	BayID      int64     `json:"bayId"`
	Title      string    `json:"title"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`

	AssignedMechanicID *int64 `json:"assignedMechanicId,omitempty"`
	CustomerID         *int64 `json:"customerId,omitempty"`
	CarID              *int64 `json:"carId,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	ServiceItemID      *int64 `json:"serviceItemId,omitempty"`

	Description     *string `json:"description,omitempty"`
	BufferBeforeMin int     `json:"bufferBeforeMin,omitempty"`
	BufferAfterMin  int     `json:"bufferAfterMin,omitempty"`

	PriceNetOre   *int64  `json:"priceNetOre,omitempty"`
	PriceGrossOre *int64  `json:"priceGrossOre,omitempty"`
	VatPercent    *int    `json:"vatPercent,omitempty"`
	PriceNote     *string `json:"priceNote,omitempty"`
	PriceIsCustom *bool   `json:"priceIsCustom,omitempty"`

	ChainToken *string `json:"chainToken,omitempty"`
}

// ToUseCaseRequest converts the DTO into the use case request.
func (r *AutoScheduleRequest) ToUseCaseRequest() *auto_schedule.Request {
	return &auto_schedule.Request{
		WorkshopID:         r.WorkshopID,
		BayID:              r.BayID,
		Title:              r.Title,
		StartAt:            r.StartAt,
		EndAt:              r.EndAt,
		AssignedMechanicID: r.AssignedMechanicID,
		CustomerID:         r.CustomerID,
		CarID:              r.CarID,
		RegistrationNumber: r.RegistrationNumber,
		ServiceItemID:      r.ServiceItemID,
		Description:        r.Description,
		BufferBeforeMin:    r.BufferBeforeMin,
		BufferAfterMin:     r.BufferAfterMin,
		PriceNetOre:        r.PriceNetOre,
		PriceGrossOre:      r.PriceGrossOre,
		VatPercent:         r.VatPercent,
		PriceNote:          r.PriceNote,
		PriceIsCustom:      r.PriceIsCustom,
		ChainToken:         r.ChainToken,
	}
}

// AlternativeResponse is one replacement slot offered on a conflict.
type AlternativeResponse struct {
	BayID      int64     `json:"bayId"`
	MechanicID *int64    `json:"mechanicId,omitempty"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
}

// ConflictResponse is the 409 payload.
type ConflictResponse struct {
	Resource     string                `json:"resource"`
	Message      string                `json:"message"`
	Alternatives []AlternativeResponse `json:"alternatives,omitempty"`
}

// FromConflictError converts the conflict into the 409 payload.
func FromConflictError(e *domain.ConflictError) ConflictResponse {
	resp := ConflictResponse{
		Resource: e.Resource,
		Message:  e.Detail,
	}
	for _, alt := range e.Alternatives {
		resp.Alternatives = append(resp.Alternatives, AlternativeResponse{
			BayID:      alt.BayID,
			MechanicID: alt.MechanicID,
			StartAt:    alt.StartAt,
			EndAt:      alt.EndAt,
		})
	}
	return resp
}
