package update_booking_status

import "github.com/autonexo/ANX-SchedulingService/internal/service/bookings/models"

// UpdateStatusRequest carries the target status literal.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest converts the DTO into the service request.
func (r *UpdateStatusRequest) ToServiceRequest(userID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID: userID,
		Status: r.Status,
	}
}
