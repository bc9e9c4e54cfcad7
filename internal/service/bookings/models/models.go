package models

import (
	"errors"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus is returned for an unknown status literal
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request models

// CancelBookingRequest cancels one booking.
type CancelBookingRequest struct {
	UserID int64   `json:"userId"`
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatusRequest flips a booking's lifecycle status.
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// ListBookingsRequest lists a workshop's bookings with optional filters.
type ListBookingsRequest struct {
	UserID     int64  `json:"userId"`
	WorkshopID int64  `json:"workshopId"`
	BayID      *int64 `json:"bayId,omitempty"`
	MechanicID *int64 `json:"mechanicId,omitempty"`

	// From and To bound the listing window: bookings ending after From and
	// starting before To.
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	Status           *string `json:"status,omitempty"`
	ChainToken       *string `json:"chainToken,omitempty"`
	IncludeCancelled bool    `json:"includeCancelled,omitempty"`
}

// ToDomainFilter converts the request into the repository filter.
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		WorkshopID:       r.WorkshopID,
		BayID:            r.BayID,
		MechanicID:       r.MechanicID,
		From:             r.From,
		To:               r.To,
		ChainToken:       r.ChainToken,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response models

// BookingResponse is the outward shape of one booking.
type BookingResponse struct {
	ID                 int64  `json:"id"`
	WorkshopID         int64  `json:"workshopId"`
	BayID              int64  `json:"bayId"`
	AssignedMechanicID *int64 `json:"assignedMechanicId,omitempty"`

	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	BufferBeforeMin int       `json:"bufferBeforeMin"`
	BufferAfterMin  int       `json:"bufferAfterMin"`

	Status     string  `json:"status"`
	ChainToken *string `json:"chainToken,omitempty"`

	ServiceItemID *int64 `json:"serviceItemId,omitempty"`
	CustomerID    *int64 `json:"customerId,omitempty"`
	CarID         *int64 `json:"carId,omitempty"`

	PriceNetOre   *int64  `json:"priceNetOre,omitempty"`
	PriceGrossOre *int64  `json:"priceGrossOre,omitempty"`
	VatPercent    *int    `json:"vatPercent,omitempty"`
	PriceNote     *string `json:"priceNote,omitempty"`
	PriceIsCustom *bool   `json:"priceIsCustom,omitempty"`
	FinalPriceOre *int64  `json:"finalPriceOre,omitempty"`

	ActualMinutesSpent *int    `json:"actualMinutesSpent,omitempty"`
	BilledFromTime     bool    `json:"billedFromTime"`
	CompletedAt        *string `json:"completedAt,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse wraps a booking listing.
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Conversion helpers

// FromDomainBooking converts the domain model into the DTO.
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		WorkshopID:         b.WorkshopID,
		BayID:              b.BayID,
		AssignedMechanicID: b.AssignedMechanicID,
		Title:              b.Title,
		Description:        b.Description,
		StartAt:            b.StartAt,
		EndAt:              b.EndAt,
		BufferBeforeMin:    b.BufferBeforeMin,
		BufferAfterMin:     b.BufferAfterMin,
		Status:             string(b.Status),
		ChainToken:         b.ChainToken,
		ServiceItemID:      b.ServiceItemID,
		CustomerID:         b.CustomerID,
		CarID:              b.CarID,
		PriceNetOre:        b.PriceNetOre,
		PriceGrossOre:      b.PriceGrossOre,
		VatPercent:         b.VatPercent,
		PriceNote:          b.PriceNote,
		PriceIsCustom:      b.PriceIsCustom,
		FinalPriceOre:      b.FinalPriceOre,
		ActualMinutesSpent: b.ActualMinutesSpent,
		BilledFromTime:     b.BilledFromTime,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CompletedAt != nil {
		s := b.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	if b.CancelledAt != nil {
		s := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &s
	}

	return resp
}

// FromDomainBookingList converts a booking slice into the list DTO.
func FromDomainBookingList(bookings []domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for i := range bookings {
		if b := FromDomainBooking(&bookings[i]); b != nil {
			resp.Bookings = append(resp.Bookings, *b)
		}
	}
	return resp
}

// ToDomainBookingStatus validates and converts a status literal.
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusBooked,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
