package auto_schedule

import (
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// Request creates one booking atomically.
type Request struct {
	WorkshopID int64
	BayID      int64
	Title      string
	StartAt    time.Time
	EndAt      time.Time

	AssignedMechanicID *int64
	CustomerID         *int64
	CarID              *int64
	RegistrationNumber string
	ServiceItemID      *int64

	Description     *string
	BufferBeforeMin int
	BufferAfterMin  int

	PriceNetOre   *int64
	PriceGrossOre *int64
	VatPercent    *int
	PriceNote     *string
	PriceIsCustom *bool

	ChainToken *string
}

// Response carries the stored booking.
type Response struct {
	Booking domain.Booking
}
