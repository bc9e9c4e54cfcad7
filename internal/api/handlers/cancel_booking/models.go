package cancel_booking

import "github.com/autonexo/ANX-SchedulingService/internal/service/bookings/models"

// CancelBookingRequest carries the optional cancellation reason.
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest converts the DTO into the service request.
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID: userID,
		Reason: r.Reason,
	}
}
