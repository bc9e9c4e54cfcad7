package list_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/autonexo/ANX-SchedulingService/internal/api/handlers"
	"github.com/autonexo/ANX-SchedulingService/internal/api/middleware"
	"github.com/autonexo/ANX-SchedulingService/internal/service/bookings"
	"github.com/autonexo/ANX-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidWorkshopID = "invalid workshop id"
	msgInvalidFilter     = "invalid filter parameter"
	msgInvalidTimestamp  = "from and to must be RFC3339 timestamps with offset"
	msgMissingUserID     = "missing user id"
	msgForbidden         = "access denied"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/workshops/{workshopId}/bookings
// Query: bayId, mechanicId, from, to, status, chainToken, includeCancelled
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workshopID, err := strconv.ParseInt(vars["workshopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /workshops/{id}/bookings - Invalid workshop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /workshops/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, err := parseFilter(r, workshopID, userID)
	if err != nil {
		h.logger.Warn("GET /workshops/{id}/bookings - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /workshops/{id}/bookings - Access denied: workshop_id=%d, user_id=%d", workshopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /workshops/{id}/bookings - Invalid input: workshop_id=%d, error=%v", workshopID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /workshops/{id}/bookings - Failed to list bookings: workshop_id=%d, error=%v", workshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workshops/{id}/bookings - Listed %d bookings: workshop_id=%d", len(resp.Bookings), workshopID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func parseFilter(r *http.Request, workshopID, userID int64) (*models.ListBookingsRequest, error) {
	query := r.URL.Query()

	req := &models.ListBookingsRequest{
		UserID:     userID,
		WorkshopID: workshopID,
	}

	if raw := query.Get("bayId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New(msgInvalidFilter)
		}
		req.BayID = &id
	}
	if raw := query.Get("mechanicId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New(msgInvalidFilter)
		}
		req.MechanicID = &id
	}
	if raw := query.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, errors.New(msgInvalidTimestamp)
		}
		req.From = &t
	}
	if raw := query.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, errors.New(msgInvalidTimestamp)
		}
		req.To = &t
	}
	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}
	if raw := query.Get("chainToken"); raw != "" {
		req.ChainToken = &raw
	}
	if raw := query.Get("includeCancelled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New(msgInvalidFilter)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
