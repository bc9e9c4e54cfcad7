package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	bookingRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/booking"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/internal/service/bookings/models"
)

// Service answers booking queries and lifecycle flips. Every operation is
// scoped to one workshop and requires the caller to be on its staff.
type Service struct {
	bookingRepo  BookingRepository
	workshopRepo WorkshopRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService creates the bookings service.
func NewService(
	bookingRepo BookingRepository,
	workshopRepo WorkshopRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		workshopRepo: workshopRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID fetches one booking. The caller must be staff of the booking's
// workshop.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkStaffAccess(ctx, booking.WorkshopID, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// ListBookings lists a workshop's bookings with optional bay, mechanic,
// window, status and chain filters. Cancelled bookings are excluded unless
// asked for.
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBookings: workshop=%d, user=%d", req.WorkshopID, req.UserID)

	if err := s.checkStaffAccess(ctx, req.WorkshopID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter for workshop=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: invalid status filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error for workshop=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: fetched %d bookings for workshop=%d", len(bookings), req.WorkshopID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel cancels a booking with an optional reason. Only booked and
// in-progress bookings can be cancelled.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkStaffAccess(ctx, booking.WorkshopID, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.Reason, s.timeProvider.Now()); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		if errors.Is(err, bookingRepo.ErrCannotCancel) {
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus flips a booking between its working states. Cancellation and
// completion have their own flows and are rejected here.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d", bookingID, req.Status, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkStaffAccess(ctx, booking.WorkshopID, req.UserID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if newStatus == domain.StatusCancelled || newStatus == domain.StatusCompleted {
		s.logger.Warn("UpdateStatus: status=%s has a dedicated flow, booking id=%d", newStatus, bookingID)
		return ErrInvalidTransition
	}
	if booking.IsTerminal() {
		s.logger.Warn("UpdateStatus: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: booking id=%d is now %s", bookingID, newStatus)
	return nil
}

// checkStaffAccess verifies that userID is on the workshop's staff. Any
// staff role grants access to booking queries and lifecycle flips.
func (s *Service) checkStaffAccess(ctx context.Context, workshopID, userID int64) error {
	_, err := s.workshopRepo.GetStaffRole(ctx, workshopID, userID)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrStaffNotFound) {
			s.logger.Warn("checkStaffAccess: user=%d is not staff of workshop=%d", userID, workshopID)
			return ErrAccessDenied
		}
		s.logger.Error("checkStaffAccess: failed to resolve staff role for user=%d workshop=%d: %v", userID, workshopID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to resolve role: %v", ErrInternal, err)
	}
	return nil
}
