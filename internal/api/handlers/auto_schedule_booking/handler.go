package auto_schedule_booking

import (
	"errors"
	"net/http"

	"github.com/autonexo/ANX-SchedulingService/internal/api/handlers"
	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	serviceModels "github.com/autonexo/ANX-SchedulingService/internal/service/bookings/models"
	"github.com/autonexo/ANX-SchedulingService/internal/usecase/auto_schedule"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgWorkshopNotFound   = "workshop not found"
	msgBayNotFound        = "bay not found"
	msgCarNotFound        = "car not found"
	msgMechanicNotFound   = "assigned mechanic not found"
)

type Handler struct {
	useCase AutoScheduleUseCase
	logger  Logger
}

func NewHandler(useCase AutoScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/auto-schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AutoScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/auto-schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var conflictErr *domain.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /bookings/auto-schedule - Conflict on %s: bay_id=%d", conflictErr.Resource, req.BayID)
			handlers.RespondConflict(w, FromConflictError(conflictErr))

		case errors.Is(err, auto_schedule.ErrWorkshopNotFound):
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, auto_schedule.ErrBayNotFound):
			handlers.RespondNotFound(w, msgBayNotFound)

		case errors.Is(err, auto_schedule.ErrCarNotFound):
			handlers.RespondNotFound(w, msgCarNotFound)

		case errors.Is(err, auto_schedule.ErrMechanicNotFound):
			handlers.RespondNotFound(w, msgMechanicNotFound)

		case errors.Is(err, auto_schedule.ErrBayNotInWorkshop),
			errors.Is(err, auto_schedule.ErrMechanicNotEligible),
			errors.Is(err, auto_schedule.ErrVehicleIncompatible),
			errors.Is(err, auto_schedule.ErrInvalidInterval),
			errors.Is(err, auto_schedule.ErrInvalidTitle),
			errors.Is(err, auto_schedule.ErrInvalidBuffer),
			errors.Is(err, auto_schedule.ErrInvalidVat),
			errors.Is(err, auto_schedule.ErrNegativePrice),
			errors.Is(err, auto_schedule.ErrChainWorkshopMismatch),
			errors.Is(err, auto_schedule.ErrChainCarMismatch),
			errors.Is(err, auto_schedule.ErrChainServiceItemMismatch):
			h.logger.Warn("POST /bookings/auto-schedule - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/auto-schedule - Booking failed: workshop_id=%d, error=%v", req.WorkshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/auto-schedule - Booking created: booking_id=%d, bay_id=%d", resp.Booking.ID, resp.Booking.BayID)
	handlers.RespondJSON(w, http.StatusCreated, serviceModels.FromDomainBooking(&resp.Booking))
}
