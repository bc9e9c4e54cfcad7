package complete_booking

import (
	"github.com/autonexo/ANX-SchedulingService/internal/usecase/complete_booking"
	serviceModels "github.com/autonexo/ANX-SchedulingService/internal/service/bookings/models"
)

// CompleteBookingRequest finalizes one booking.
type CompleteBookingRequest struct {
	WorkshopID   int64 `json:"workshopId"`
	MinutesSpent int   `json:"minutesSpent"`

	UseCustomFinalPrice bool   `json:"useCustomFinalPrice,omitempty"`
	CustomFinalPriceOre *int64 `json:"customFinalPriceOre,omitempty"`
	ChargeForActualTime bool   `json:"chargeForActualTime,omitempty"`
}

// ToUseCaseRequest converts the DTO into the use case request.
func (r *CompleteBookingRequest) ToUseCaseRequest(bookingID int64) *complete_booking.Request {
	return &complete_booking.Request{
		WorkshopID:          r.WorkshopID,
		BookingID:           bookingID,
		MinutesSpent:        r.MinutesSpent,
		UseCustomFinalPrice: r.UseCustomFinalPrice,
		CustomFinalPriceOre: r.CustomFinalPriceOre,
		ChargeForActualTime: r.ChargeForActualTime,
	}
}

// CompleteBookingResponse carries the finalized booking and the pricing
// rule applied.
type CompleteBookingResponse struct {
	Booking *serviceModels.BookingResponse `json:"booking"`
	Policy  string                         `json:"policy"`
}
