package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	bayRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/bay"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
)

// Unavailability reasons returned in the structured verdict
const (
	reasonInvalidInterval = "end_at must be after start_at"
	reasonClosureConflict = "conflict with a closure period for the bay"
)

// queryPaddingMinutes widens the occupancy window so bookings whose buffers
// reach into the checked interval stay visible.
const queryPaddingMinutes = 120

// UseCase answers whether a bay can host an interval. The check is a pure
// read and is safe to repeat; the same snapshot yields the same verdict.
type UseCase struct {
	workshops WorkshopRepository
	bays      BayRepository
	bookings  BookingRepository
	blocking  []domain.BookingStatus
	logger    Logger
}

// NewUseCase creates the availability check use case.
func NewUseCase(
	workshops WorkshopRepository,
	bays BayRepository,
	bookings BookingRepository,
	blocking []domain.BookingStatus,
	logger Logger,
) *UseCase {
	return &UseCase{
		workshops: workshops,
		bays:      bays,
		bookings:  bookings,
		blocking:  blocking,
		logger:    logger,
	}
}

// Execute checks one bay slot. The requested interval is expanded by its
// buffers before testing against existing bookings and closures.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: workshop=%d, bay=%d, start=%s, end=%s",
		req.WorkshopID, req.BayID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))

	// 1. Validate ids
	if req.WorkshopID <= 0 || req.BayID <= 0 {
		return nil, ErrInvalidRequest
	}

	// 2. Workshop and bay must exist and belong together
	if _, err := uc.workshops.GetWorkshop(ctx, req.WorkshopID); err != nil {
		if errors.Is(err, workshopRepo.ErrWorkshopNotFound) {
			uc.logger.Warn("CheckAvailability: workshop id=%d not found", req.WorkshopID)
			return nil, ErrWorkshopNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get workshop id=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: failed to get workshop: %v", ErrInternal, err)
	}

	bay, err := uc.bays.GetByID(ctx, req.BayID)
	if err != nil {
		if errors.Is(err, bayRepo.ErrBayNotFound) {
			uc.logger.Warn("CheckAvailability: bay id=%d not found", req.BayID)
			return nil, ErrBayNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get bay id=%d: %v", req.BayID, err)
		return nil, fmt.Errorf("%w: failed to get bay: %v", ErrInternal, err)
	}
	if bay.WorkshopID != req.WorkshopID {
		uc.logger.Warn("CheckAvailability: bay id=%d belongs to workshop %d, not %d",
			req.BayID, bay.WorkshopID, req.WorkshopID)
		return nil, ErrBayNotInWorkshop
	}

	// 3. An inverted interval is a verdict, not an error
	interval := domain.TimeInterval{Start: req.StartAt.UTC(), End: req.EndAt.UTC()}
	if !interval.IsValid() {
		return &Response{Available: false, Reason: ptr.Ptr(reasonInvalidInterval)}, nil
	}

	// 4. The new slot's own buffers expand the checked interval
	effective := domain.BufferedInterval{
		TimeInterval: interval,
		BufferBefore: time.Duration(req.BufferBeforeMin) * time.Minute,
		BufferAfter:  time.Duration(req.BufferAfterMin) * time.Minute,
	}.Effective()

	padding := queryPaddingMinutes * time.Minute
	loadWindow := domain.TimeInterval{Start: effective.Start.Add(-padding), End: effective.End.Add(padding)}

	// 5. Buffered booking overlap
	bookings, err := uc.bookings.ListByBay(ctx, req.BayID, loadWindow, uc.blocking)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list bookings for bay=%d: %v", req.BayID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}
	for i := range bookings {
		b := &bookings[i]
		if b.EffectiveInterval().Overlaps(effective) {
			reason := fmt.Sprintf("conflict with booking id=%d in the same bay", b.ID)
			uc.logger.Info("CheckAvailability: bay=%d unavailable: %s", req.BayID, reason)
			return &Response{Available: false, Reason: &reason}, nil
		}
	}

	// 6. Closure overlap
	closures, err := uc.bays.ListClosures(ctx, req.BayID, effective)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list closures for bay=%d: %v", req.BayID, err)
		return nil, fmt.Errorf("%w: failed to list closures: %v", ErrInternal, err)
	}
	for i := range closures {
		if closures[i].Interval().Overlaps(effective) {
			uc.logger.Info("CheckAvailability: bay=%d unavailable: closure id=%d", req.BayID, closures[i].ID)
			return &Response{Available: false, Reason: ptr.Ptr(reasonClosureConflict)}, nil
		}
	}

	return &Response{Available: true}, nil
}
