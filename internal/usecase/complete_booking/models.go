package complete_booking

import "github.com/autonexo/ANX-SchedulingService/internal/domain"

// Request completes one booking and fixes its final price.
type Request struct {
	WorkshopID int64
	BookingID  int64

	// MinutesSpent is the actual labour time recorded on completion.
	MinutesSpent int

	// UseCustomFinalPrice overrides every other pricing rule with
	// CustomFinalPriceOre.
	UseCustomFinalPrice bool
	CustomFinalPriceOre *int64

	// ChargeForActualTime recomputes the price from MinutesSpent and the
	// service item's hourly rate. Only legal for hourly items.
	ChargeForActualTime bool
}

// Response carries the finalized booking and the pricing rule applied.
type Response struct {
	Booking domain.Booking
	Policy  domain.PricePolicy
}
