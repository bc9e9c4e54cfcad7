package auto_schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	bayRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/bay"
	bookingRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/booking"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/calendar"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/conflict"
)

// queryPaddingMinutes widens occupancy windows so bookings whose buffers
// reach into the requested interval stay visible.
const queryPaddingMinutes = 120

// UseCase books one slot atomically. The database exclusion constraints are
// the final arbiter; the in-process checks exist to answer with a friendly
// conflict and alternatives before the constraint fires.
type UseCase struct {
	workshops WorkshopRepository
	bays      BayRepository
	schedules ScheduleRepository
	bookings  BookingRepository
	txManager TxManager

	blocking     []domain.BookingStatus
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the booking use case.
func NewUseCase(
	workshops WorkshopRepository,
	bays BayRepository,
	schedules ScheduleRepository,
	bookings BookingRepository,
	txManager TxManager,
	blocking []domain.BookingStatus,
	logger Logger,
) *UseCase {
	return &UseCase{
		workshops:    workshops,
		bays:         bays,
		schedules:    schedules,
		bookings:     bookings,
		txManager:    txManager,
		blocking:     blocking,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute validates, re-checks and inserts one booking. A lost race returns
// a *domain.ConflictError with at most one suggested alternative.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AutoSchedule: workshop=%d, bay=%d, start=%s, end=%s",
		req.WorkshopID, req.BayID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))

	// 1. Shape validation: interval order, title, buffers, vat, prices
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AutoSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Workshop resolves the timezone of all calendar math
	workshop, err := uc.workshops.GetWorkshop(ctx, req.WorkshopID)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrWorkshopNotFound) {
			uc.logger.Warn("AutoSchedule: workshop id=%d not found", req.WorkshopID)
			return nil, ErrWorkshopNotFound
		}
		uc.logger.Error("AutoSchedule: failed to get workshop id=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: failed to get workshop: %v", ErrInternal, err)
	}

	loc := calendar.ResolveLocation(workshop.Timezone, uc.logger)
	builder := calendar.NewBuilder(loc, uc.blocking)
	detector := conflict.NewDetector(builder)

	// 3. Bay must exist inside the workshop
	bay, err := uc.bays.GetByID(ctx, req.BayID)
	if err != nil {
		if errors.Is(err, bayRepo.ErrBayNotFound) {
			uc.logger.Warn("AutoSchedule: bay id=%d not found", req.BayID)
			return nil, ErrBayNotFound
		}
		uc.logger.Error("AutoSchedule: failed to get bay id=%d: %v", req.BayID, err)
		return nil, fmt.Errorf("%w: failed to get bay: %v", ErrInternal, err)
	}
	if bay.WorkshopID != req.WorkshopID {
		uc.logger.Warn("AutoSchedule: bay id=%d belongs to workshop %d, not %d", req.BayID, bay.WorkshopID, req.WorkshopID)
		return nil, ErrBayNotInWorkshop
	}

	// 4. Optional car, by id or registration
	car, err := uc.resolveCar(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Vehicle must fit the bay
	if car != nil {
		profile, err := uc.workshops.GetVehicleProfile(ctx, car.ID)
		if err != nil && !errors.Is(err, workshopRepo.ErrProfileNotFound) {
			uc.logger.Error("AutoSchedule: failed to get vehicle profile for car=%d: %v", car.ID, err)
			return nil, fmt.Errorf("%w: failed to get vehicle profile: %v", ErrInternal, err)
		}
		if profile != nil && !detector.VehicleCompatible(bay, profile) {
			uc.logger.Warn("AutoSchedule: vehicle car=%d does not fit bay=%d", car.ID, req.BayID)
			return nil, ErrVehicleIncompatible
		}
	}

	// 6. Assigned mechanic must exist and carry a workshop role
	if req.AssignedMechanicID != nil {
		mechanic, err := uc.workshops.GetMechanic(ctx, *req.AssignedMechanicID)
		if err != nil {
			if errors.Is(err, workshopRepo.ErrMechanicNotFound) {
				uc.logger.Warn("AutoSchedule: mechanic id=%d not found", *req.AssignedMechanicID)
				return nil, ErrMechanicNotFound
			}
			uc.logger.Error("AutoSchedule: failed to get mechanic id=%d: %v", *req.AssignedMechanicID, err)
			return nil, fmt.Errorf("%w: failed to get mechanic: %v", ErrInternal, err)
		}
		if !mechanic.Role.IsScheduleEligible() {
			uc.logger.Warn("AutoSchedule: mechanic id=%d role=%q is not schedule-eligible", mechanic.ID, mechanic.Role)
			return nil, ErrMechanicNotEligible
		}
	}

	// 7. Assemble the booking, then let a chain master adjust it
	booking := uc.buildBooking(req, car)
	if err := uc.applyChainRules(ctx, req, car, booking); err != nil {
		return nil, err
	}

	interval := domain.TimeInterval{Start: booking.StartAt, End: booking.EndAt}

	// 8. Friendly pre-check with alternatives before touching the database
	if err := uc.checkConflicts(ctx, detector, booking, interval); err != nil {
		return nil, err
	}

	// 9. Atomic re-check and insert. Serialization failures retry once in
	// the tx manager; a constraint violation still maps to a conflict.
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.checkConflicts(txCtx, detector, booking, interval); err != nil {
			return err
		}
		stored, err := uc.bookings.Create(txCtx, booking)
		if err != nil {
			return err
		}
		created = stored
		return nil
	})
	if err != nil {
		var conflictErr *domain.ConflictError
		if errors.As(err, &conflictErr) {
			uc.logger.Warn("AutoSchedule: conflict on %s: %s", conflictErr.Resource, conflictErr.Detail)
			return nil, conflictErr
		}
		if errors.Is(err, bookingRepo.ErrExclusionConflict) {
			uc.logger.Warn("AutoSchedule: exclusion constraint rejected bay=%d interval=%s..%s",
				req.BayID, interval.Start.Format(time.RFC3339), interval.End.Format(time.RFC3339))
			return nil, &domain.ConflictError{
				Resource:     "bay",
				Detail:       "the interval was taken while booking",
				Alternatives: uc.bayAlternatives(ctx, detector, req.BayID, req.AssignedMechanicID, interval),
			}
		}
		uc.logger.Error("AutoSchedule: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("AutoSchedule: created booking id=%d workshop=%d bay=%d", created.ID, created.WorkshopID, created.BayID)
	return &Response{Booking: *created}, nil
}

func (uc *UseCase) resolveCar(ctx context.Context, req *Request) (*domain.Car, error) {
	if req.CarID != nil {
		car, err := uc.workshops.GetCar(ctx, *req.CarID)
		if err != nil {
			if errors.Is(err, workshopRepo.ErrCarNotFound) {
				uc.logger.Warn("AutoSchedule: car id=%d not found", *req.CarID)
				return nil, ErrCarNotFound
			}
			uc.logger.Error("AutoSchedule: failed to get car id=%d: %v", *req.CarID, err)
			return nil, fmt.Errorf("%w: failed to get car: %v", ErrInternal, err)
		}
		return car, nil
	}
	if req.RegistrationNumber != "" {
		car, err := uc.workshops.GetCarByRegistration(ctx, req.RegistrationNumber)
		if err != nil {
			if errors.Is(err, workshopRepo.ErrCarNotFound) {
				return nil, nil
			}
			uc.logger.Error("AutoSchedule: failed to get car %q: %v", req.RegistrationNumber, err)
			return nil, fmt.Errorf("%w: failed to get car: %v", ErrInternal, err)
		}
		return car, nil
	}
	return nil, nil
}

func (uc *UseCase) buildBooking(req *Request, car *domain.Car) *domain.Booking {
	booking := &domain.Booking{
		WorkshopID:         req.WorkshopID,
		BayID:              req.BayID,
		AssignedMechanicID: req.AssignedMechanicID,
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		StartAt:            req.StartAt.UTC(),
		EndAt:              req.EndAt.UTC(),
		BufferBeforeMin:    req.BufferBeforeMin,
		BufferAfterMin:     req.BufferAfterMin,
		Status:             domain.StatusBooked,
		ChainToken:         req.ChainToken,
		ServiceItemID:      req.ServiceItemID,
		CustomerID:         req.CustomerID,
		PriceNetOre:        req.PriceNetOre,
		PriceGrossOre:      req.PriceGrossOre,
		VatPercent:         req.VatPercent,
		PriceNote:          req.PriceNote,
		PriceIsCustom:      req.PriceIsCustom,
	}
	if car != nil {
		booking.CarID = &car.ID
	} else {
		booking.CarID = req.CarID
	}
	return booking
}

// applyChainRules enforces chain consistency against the chain master: same
// workshop, car and service item. Price fields live on the master only, so
// they are stripped from every later part, and the master's car and service
// item fill gaps in the new part.
func (uc *UseCase) applyChainRules(ctx context.Context, req *Request, car *domain.Car, booking *domain.Booking) error {
	if req.ChainToken == nil || *req.ChainToken == "" {
		return nil
	}

	master, err := uc.bookings.GetChainMaster(ctx, *req.ChainToken)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			// First part of a new chain becomes the master.
			return nil
		}
		uc.logger.Error("AutoSchedule: failed to get chain master for token=%s: %v", *req.ChainToken, err)
		return fmt.Errorf("%w: failed to get chain master: %v", ErrInternal, err)
	}

	if master.WorkshopID != req.WorkshopID {
		return ErrChainWorkshopMismatch
	}
	if master.CarID != nil && car != nil && *master.CarID != car.ID {
		return ErrChainCarMismatch
	}
	if master.ServiceItemID != nil && req.ServiceItemID != nil && *master.ServiceItemID != *req.ServiceItemID {
		return ErrChainServiceItemMismatch
	}

	booking.PriceNetOre = nil
	booking.PriceGrossOre = nil
	booking.FinalPriceOre = nil
	booking.PriceNote = nil
	booking.PriceIsCustom = nil

	if master.CarID != nil && booking.CarID == nil {
		booking.CarID = master.CarID
	}
	if master.ServiceItemID != nil && booking.ServiceItemID == nil {
		booking.ServiceItemID = master.ServiceItemID
	}
	return nil
}

// checkConflicts verifies the bay and the assigned mechanic against a fresh
// occupancy snapshot. The returned error is a *domain.ConflictError carrying
// at most one alternative.
func (uc *UseCase) checkConflicts(ctx context.Context, detector *conflict.Detector, booking *domain.Booking, interval domain.TimeInterval) error {
	effective := booking.EffectiveInterval()

	occupancy, err := uc.bayOccupancy(ctx, booking.BayID, effective)
	if err != nil {
		return fmt.Errorf("%w: failed to load bay occupancy: %v", ErrInternal, err)
	}
	if !detector.BayIsFree(occupancy, effective) {
		return &domain.ConflictError{
			Resource:     "bay",
			Detail:       "the bay is occupied in the requested interval",
			Alternatives: uc.bayAlternatives(ctx, detector, booking.BayID, booking.AssignedMechanicID, interval),
		}
	}

	if booking.AssignedMechanicID == nil {
		return nil
	}
	available, err := uc.mechanicAvailable(ctx, detector, *booking.AssignedMechanicID, interval)
	if err != nil {
		return fmt.Errorf("%w: failed to check mechanic availability: %v", ErrInternal, err)
	}
	if !available {
		return &domain.ConflictError{
			Resource:     "mechanic",
			Detail:       "the assigned mechanic is occupied in the requested interval",
			Alternatives: uc.mechanicAlternatives(ctx, detector, booking.WorkshopID, *booking.AssignedMechanicID, booking.BayID, interval),
		}
	}
	return nil
}

func (uc *UseCase) bayOccupancy(ctx context.Context, bayID int64, window domain.TimeInterval) (calendar.BayOccupancy, error) {
	padding := queryPaddingMinutes * time.Minute
	padded := domain.TimeInterval{Start: window.Start.Add(-padding), End: window.End.Add(padding)}

	bookings, err := uc.bookings.ListByBay(ctx, bayID, padded, uc.blocking)
	if err != nil {
		return calendar.BayOccupancy{}, err
	}
	closures, err := uc.bays.ListClosures(ctx, bayID, padded)
	if err != nil {
		return calendar.BayOccupancy{}, err
	}
	return calendar.BayOccupancy{Bookings: bookings, Closures: closures}, nil
}

func (uc *UseCase) mechanicSchedule(ctx context.Context, mechanicID int64, window domain.TimeInterval) (calendar.MechanicSchedule, error) {
	padding := queryPaddingMinutes * time.Minute
	padded := domain.TimeInterval{Start: window.Start.Add(-padding), End: window.End.Add(padding)}

	rules, err := uc.schedules.ListRules(ctx, mechanicID)
	if err != nil {
		return calendar.MechanicSchedule{}, err
	}
	timeOff, err := uc.schedules.ListTimeOff(ctx, mechanicID, padded)
	if err != nil {
		return calendar.MechanicSchedule{}, err
	}
	bookings, err := uc.bookings.ListByMechanic(ctx, mechanicID, padded, uc.blocking)
	if err != nil {
		return calendar.MechanicSchedule{}, err
	}
	return calendar.MechanicSchedule{Rules: rules, TimeOff: timeOff, Bookings: bookings}, nil
}

func (uc *UseCase) mechanicAvailable(ctx context.Context, detector *conflict.Detector, mechanicID int64, interval domain.TimeInterval) (bool, error) {
	schedule, err := uc.mechanicSchedule(ctx, mechanicID, interval)
	if err != nil {
		return false, err
	}
	return detector.MechanicIsFree(schedule, interval), nil
}

// bayAlternatives suggests the same mechanic on the same bay shifted
// forward in quarter-hour steps. Best effort: the first shift where both
// resources are free wins, and errors just end the search.
func (uc *UseCase) bayAlternatives(ctx context.Context, detector *conflict.Detector, bayID int64, mechanicID *int64, interval domain.TimeInterval) []domain.Alternative {
	if mechanicID == nil {
		return nil
	}
	for k := 1; k <= domain.AlternativeShiftSteps; k++ {
		shift := time.Duration(k*domain.AlternativeShiftMinutes) * time.Minute
		shifted := domain.TimeInterval{Start: interval.Start.Add(shift), End: interval.End.Add(shift)}

		occupancy, err := uc.bayOccupancy(ctx, bayID, shifted)
		if err != nil {
			return nil
		}
		if !detector.BayIsFree(occupancy, shifted) {
			continue
		}
		available, err := uc.mechanicAvailable(ctx, detector, *mechanicID, shifted)
		if err != nil {
			return nil
		}
		if available {
			return []domain.Alternative{{
				BayID:      bayID,
				MechanicID: mechanicID,
				StartAt:    shifted.Start,
				EndAt:      shifted.End,
			}}
		}
	}
	return nil
}

// mechanicAlternatives suggests the same slot with a different eligible
// mechanic.
func (uc *UseCase) mechanicAlternatives(ctx context.Context, detector *conflict.Detector, workshopID, busyMechanicID, bayID int64, interval domain.TimeInterval) []domain.Alternative {
	mechanics, err := uc.workshops.ListMechanics(ctx, workshopID)
	if err != nil {
		return nil
	}
	for _, m := range mechanics {
		if m.ID == busyMechanicID {
			continue
		}
		available, err := uc.mechanicAvailable(ctx, detector, m.ID, interval)
		if err != nil {
			return nil
		}
		if available {
			id := m.ID
			return []domain.Alternative{{
				BayID:      bayID,
				MechanicID: &id,
				StartAt:    interval.Start,
				EndAt:      interval.End,
			}}
		}
	}
	return nil
}
