package search_availability

import (
	"errors"
	"net/http"

	"github.com/autonexo/ANX-SchedulingService/internal/api/handlers"
	"github.com/autonexo/ANX-SchedulingService/internal/usecase/find_availability"
)

const (
	msgInvalidRequestBody  = "invalid request body"
	msgWorkshopNotFound    = "workshop not found"
	msgServiceItemNotFound = "service item not found"
)

type Handler struct {
	useCase FindAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase FindAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability/search
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SearchAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/search - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, find_availability.ErrWorkshopNotFound):
			h.logger.Warn("POST /availability/search - Workshop not found: workshop_id=%d", req.WorkshopID)
			handlers.RespondNotFound(w, msgWorkshopNotFound)

		case errors.Is(err, find_availability.ErrServiceItemNotFound):
			h.logger.Warn("POST /availability/search - Service item not found: service_item_id=%d", req.ServiceItemID)
			handlers.RespondNotFound(w, msgServiceItemNotFound)

		case errors.Is(err, find_availability.ErrInvalidWorkshopID),
			errors.Is(err, find_availability.ErrInvalidServiceItemID),
			errors.Is(err, find_availability.ErrInvalidDuration),
			errors.Is(err, find_availability.ErrInvalidTimeWindow),
			errors.Is(err, find_availability.ErrUnknownStrategy):
			h.logger.Warn("POST /availability/search - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /availability/search - Search failed: workshop_id=%d, error=%v", req.WorkshopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability/search - Found %d proposals: workshop_id=%d", len(resp.Proposals), req.WorkshopID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
