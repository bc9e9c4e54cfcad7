package domain

import "time"

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusBooked     BookingStatus = "booked"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// PricePolicy selects how the final price is fixed when a booking completes.
type PricePolicy string

const (
	PricePolicyCustom   PricePolicy = "custom"
	PricePolicyFromTime PricePolicy = "from_time"
	PricePolicyEstimate PricePolicy = "estimate"
)

// Booking occupies one bay, and optionally one mechanic, for a time interval.
// Prices are stored in öre (1/100 SEK) to avoid float arithmetic.
type Booking struct {
	ID                 int64
	WorkshopID         int64
	BayID              int64
	AssignedMechanicID *int64

	Title       string
	Description *string

	StartAt         time.Time
	EndAt           time.Time
	BufferBeforeMin int
	BufferAfterMin  int

	Status BookingStatus

	// ChainToken links the parts of one fragmented job. Only the chain
	// master carries price fields.
	ChainToken *string

	ServiceItemID *int64
	CustomerID    *int64
	CarID         *int64

	PriceNetOre   *int64
	PriceGrossOre *int64
	VatPercent    *int
	PriceNote     *string
	PriceIsCustom *bool
	FinalPriceOre *int64
	PriceType     *string

	ActualMinutesSpent *int
	BilledFromTime     bool
	CompletedAt        *time.Time

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booking's raw occupancy window.
func (b *Booking) Interval() TimeInterval {
	return TimeInterval{Start: b.StartAt, End: b.EndAt}
}

// Buffered returns the booking's window together with its buffers.
func (b *Booking) Buffered() BufferedInterval {
	return BufferedInterval{
		TimeInterval: b.Interval(),
		BufferBefore: time.Duration(b.BufferBeforeMin) * time.Minute,
		BufferAfter:  time.Duration(b.BufferAfterMin) * time.Minute,
	}
}

// EffectiveInterval returns the buffer-expanded window used in conflict tests.
func (b *Booking) EffectiveInterval() TimeInterval {
	return b.Buffered().Effective()
}

// Blocks reports whether the booking occupies its slot for conflict purposes.
// An empty blocking list means every status blocks.
func (b *Booking) Blocks(blocking []BookingStatus) bool {
	if len(blocking) == 0 {
		return true
	}
	for _, s := range blocking {
		if b.Status == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the booking reached a final state.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// CanBeCancelled reports whether cancellation is a legal transition.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusBooked || b.Status == StatusInProgress
}

// CanBeCompleted reports whether completion is a legal transition.
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusBooked || b.Status == StatusInProgress
}

// IsChainMaster reports whether this booking is the first part of its chain.
// The master is the part that carries the price.
func (b *Booking) IsChainMaster() bool {
	return b.ChainToken != nil && b.PriceNetOre != nil
}

// BookingsFilter narrows a booking listing.
type BookingsFilter struct {
	WorkshopID       int64
	BayID            *int64
	MechanicID       *int64
	From             *time.Time
	To               *time.Time
	Status           *BookingStatus
	ChainToken       *string
	IncludeCancelled bool
}
