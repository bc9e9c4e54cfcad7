package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/api/handlers"
	"github.com/autonexo/ANX-SchedulingService/internal/usecase/check_availability"
)

const (
	msgInvalidWorkshopID = "invalid workshop id"
	msgInvalidBayID      = "invalid bay id"
	msgInvalidTimestamp  = "startAt and endAt must be RFC3339 timestamps with offset"
	msgInvalidBuffer     = "invalid buffer minutes"
	msgWorkshopNotFound  = "workshop not found"
	msgBayNotFound       = "bay not found"
	msgBayNotInWorkshop  = "bay does not belong to this workshop"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/check
// Query: workshopId, bayId, startAt, endAt, bufferBeforeMin, bufferAfterMin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	workshopID, err := strconv.ParseInt(query.Get("workshopId"), 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidWorkshopID)
		return
	}
	bayID, err := strconv.ParseInt(query.Get("bayId"), 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBayID)
		return
	}

	startAt, err := time.Parse(time.RFC3339, query.Get("startAt"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}
	endAt, err := time.Parse(time.RFC3339, query.Get("endAt"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}

	bufferBefore, err := parseOptionalInt(query.Get("bufferBeforeMin"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBuffer)
		return
	}
	bufferAfter, err := parseOptionalInt(query.Get("bufferAfterMin"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBuffer)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &check_availability.Request{
		WorkshopID:      workshopID,
		BayID:           bayID,
		StartAt:         startAt,
		EndAt:           endAt,
		BufferBeforeMin: bufferBefore,
		BufferAfterMin:  bufferAfter,
	})
	if err != nil {
		switch {
		case errors.Is(err, check_availability.ErrWorkshopNotFound):
			h.logger.Warn("GET /availability/check - Workshop not found: workshop_id=%d", workshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, check_availability.ErrBayNotFound):
			h.logger.Warn("GET /availability/check - Bay not found: bay_id=%d", bayID)
			handlers.RespondNotFound(w, msgBayNotFound)

		case errors.Is(err, check_availability.ErrBayNotInWorkshop):
			h.logger.Warn("GET /availability/check - Bay not in workshop: bay_id=%d, workshop_id=%d", bayID, workshopID)
			handlers.RespondBadRequest(w, msgBayNotInWorkshop)

		case errors.Is(err, check_availability.ErrInvalidRequest):
			h.logger.Warn("GET /availability/check - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /availability/check - Check failed: bay_id=%d, error=%v", bayID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/check - bay_id=%d available=%t", bayID, resp.Available)
	handlers.RespondJSON(w, http.StatusOK, CheckAvailabilityResponse{
		Available: resp.Available,
		Reason:    resp.Reason,
	})
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
