package complete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/autonexo/ANX-SchedulingService/internal/api/handlers"
	serviceModels "github.com/autonexo/ANX-SchedulingService/internal/service/bookings/models"
	"github.com/autonexo/ANX-SchedulingService/internal/usecase/complete_booking"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "booking not found"
	msgNotInWorkshop      = "booking does not belong to this workshop"
)

type Handler struct {
	useCase CompleteBookingUseCase
	logger  Logger
}

func NewHandler(useCase CompleteBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CompleteBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/complete - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, complete_booking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/complete - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, complete_booking.ErrBookingNotInWorkshop):
			h.logger.Warn("POST /bookings/{id}/complete - Wrong workshop: booking_id=%d, workshop_id=%d", bookingID, req.WorkshopID)
			handlers.RespondNotFound(w, msgNotInWorkshop)

		case errors.Is(err, complete_booking.ErrInvalidMinutes),
			errors.Is(err, complete_booking.ErrInvalidCustomPrice),
			errors.Is(err, complete_booking.ErrNotHourlyService),
			errors.Is(err, complete_booking.ErrCannotComplete):
			h.logger.Warn("POST /bookings/{id}/complete - Invalid request: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/{id}/complete - Completion failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/complete - Booking completed: booking_id=%d, policy=%s", bookingID, resp.Policy)
	handlers.RespondJSON(w, http.StatusOK, CompleteBookingResponse{
		Booking: serviceModels.FromDomainBooking(&resp.Booking),
		Policy:  string(resp.Policy),
	})
}
