package complete_booking

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	bookingRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/booking"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/internal/integrations/notify"
)

// UseCase finalizes a booking: records the actual time spent, fixes the
// final price and flips the status to completed. Completing an already
// completed booking is idempotent.
type UseCase struct {
	bookings     BookingRepository
	workshops    WorkshopRepository
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the completion use case. notifier may be nil when no
// gateway is configured.
func NewUseCase(bookings BookingRepository, workshops WorkshopRepository, notifier Notifier, logger Logger) *UseCase {
	return &UseCase{
		bookings:     bookings,
		workshops:    workshops,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute completes the booking and returns it with the applied price policy.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteBooking: workshop=%d, booking=%d, minutes=%d", req.WorkshopID, req.BookingID, req.MinutesSpent)

	// 1. Shape validation
	if req.MinutesSpent < 0 {
		return nil, ErrInvalidMinutes
	}
	if req.UseCustomFinalPrice && (req.CustomFinalPriceOre == nil || *req.CustomFinalPriceOre < 0) {
		return nil, ErrInvalidCustomPrice
	}

	// 2. Load and scope the booking
	booking, err := uc.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CompleteBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CompleteBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if booking.WorkshopID != req.WorkshopID {
		uc.logger.Warn("CompleteBooking: booking id=%d belongs to workshop %d, not %d", booking.ID, booking.WorkshopID, req.WorkshopID)
		return nil, ErrBookingNotInWorkshop
	}

	// 3. Idempotent on already completed bookings
	if booking.Status == domain.StatusCompleted {
		uc.logger.Info("CompleteBooking: booking id=%d already completed", booking.ID)
		return &Response{Booking: *booking, Policy: policyOf(booking)}, nil
	}
	if !booking.CanBeCompleted() {
		uc.logger.Warn("CompleteBooking: booking id=%d status=%q cannot complete", booking.ID, booking.Status)
		return nil, ErrCannotComplete
	}

	// 4. Resolve the final price
	finalPrice, policy, err := uc.resolvePrice(ctx, booking, req)
	if err != nil {
		return nil, err
	}

	// 5. Persist
	completedAt := uc.timeProvider.Now()
	completed, err := uc.bookings.Complete(ctx, booking.ID, finalPrice, req.MinutesSpent, policy == domain.PricePolicyFromTime, completedAt)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CompleteBooking: failed to complete booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to complete booking: %v", ErrInternal, err)
	}

	// 6. Best-effort notification. A delivery failure never fails the call.
	if uc.notifier != nil {
		notice := &notify.BookingCompletedNotice{
			BookingID:     completed.ID,
			WorkshopID:    completed.WorkshopID,
			CustomerID:    completed.CustomerID,
			Title:         completed.Title,
			FinalPriceOre: finalPrice,
			CompletedAt:   completedAt,
		}
		if err := uc.notifier.BookingCompleted(ctx, notice); err != nil {
			uc.logger.Warn("CompleteBooking: notification for booking id=%d failed: %v", completed.ID, err)
		}
	}

	uc.logger.Info("CompleteBooking: booking id=%d completed, final_price_ore=%d, policy=%s", completed.ID, finalPrice, policy)
	return &Response{Booking: *completed, Policy: policy}, nil
}

// resolvePrice applies the pricing rules in priority order: explicit custom
// price, time-based recompute for hourly items, then the best stored
// estimate.
func (uc *UseCase) resolvePrice(ctx context.Context, booking *domain.Booking, req *Request) (int64, domain.PricePolicy, error) {
	if req.UseCustomFinalPrice {
		return *req.CustomFinalPriceOre, domain.PricePolicyCustom, nil
	}

	if req.ChargeForActualTime {
		if booking.ServiceItemID == nil || req.MinutesSpent == 0 {
			return 0, "", ErrNotHourlyService
		}
		item, err := uc.workshops.GetServiceItem(ctx, *booking.ServiceItemID)
		if err != nil {
			if errors.Is(err, workshopRepo.ErrServiceItemNotFound) {
				return 0, "", ErrNotHourlyService
			}
			uc.logger.Error("CompleteBooking: failed to get service item id=%d: %v", *booking.ServiceItemID, err)
			return 0, "", fmt.Errorf("%w: failed to get service item: %v", ErrInternal, err)
		}
		if !item.IsHourly() {
			return 0, "", ErrNotHourlyService
		}
		price := int64(math.Round(float64(req.MinutesSpent) / 60.0 * float64(*item.HourlyRateOre)))
		if price < 0 {
			price = 0
		}
		return price, domain.PricePolicyFromTime, nil
	}

	switch {
	case booking.FinalPriceOre != nil:
		return *booking.FinalPriceOre, domain.PricePolicyEstimate, nil
	case booking.PriceNetOre != nil:
		return *booking.PriceNetOre, domain.PricePolicyEstimate, nil
	default:
		return 0, domain.PricePolicyEstimate, nil
	}
}

func policyOf(booking *domain.Booking) domain.PricePolicy {
	if booking.PriceIsCustom != nil && *booking.PriceIsCustom {
		return domain.PricePolicyCustom
	}
	if booking.BilledFromTime {
		return domain.PricePolicyFromTime
	}
	return domain.PricePolicyEstimate
}
