package find_availability

import (
	"fmt"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/assign"
)

func validateRequest(req *Request) error {
	if req.WorkshopID <= 0 {
		return ErrInvalidWorkshopID
	}
	if req.ServiceItemID <= 0 {
		return ErrInvalidServiceItemID
	}
	if req.OverrideDurationMin != nil {
		d := *req.OverrideDurationMin
		if d < domain.MinDurationMinutes || d > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: override duration must be %d..%d minutes",
				ErrInvalidDuration, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
	}
	if req.EarliestFrom != nil && req.LatestEnd != nil && !req.LatestEnd.After(*req.EarliestFrom) {
		return ErrInvalidTimeWindow
	}
	if _, err := assign.ParseStrategy(req.Strategy); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}
	return nil
}
