package find_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/assign"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/calendar"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/conflict"
	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
)

// queryPaddingMinutes widens snapshot windows so bookings whose buffers
// reach into the search range stay visible.
const queryPaddingMinutes = 120

// fallbackDurationMinutes applies when a service item has no default
// duration configured.
const fallbackDurationMinutes = 60

// UseCase runs the availability search.
type UseCase struct {
	workshops WorkshopRepository
	bays      BayRepository
	schedules ScheduleRepository
	bookings  BookingRepository

	blocking     []domain.BookingStatus
	defaults     Defaults
	timeProvider TimeProvider
	newToken     func() string
	logger       Logger
}

// NewUseCase creates the availability search use case.
func NewUseCase(
	workshops WorkshopRepository,
	bays BayRepository,
	schedules ScheduleRepository,
	bookings BookingRepository,
	blocking []domain.BookingStatus,
	defaults Defaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		workshops:    workshops,
		bays:         bays,
		schedules:    schedules,
		bookings:     bookings,
		blocking:     blocking,
		defaults:     defaults,
		timeProvider: &RealTimeProvider{},
		newToken:     uuid.NewString,
		logger:       logger,
	}
}

// Execute runs one availability search.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAvailability: workshop=%d, service_item=%d, strategy=%q, fragmented=%t",
		req.WorkshopID, req.ServiceItemID, req.Strategy, req.AllowFragmentedParts)

	// 1. Validate the request shape
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FindAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Workshop and its timezone
	workshop, err := uc.workshops.GetWorkshop(ctx, req.WorkshopID)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrWorkshopNotFound) {
			uc.logger.Warn("FindAvailability: workshop id=%d not found", req.WorkshopID)
			return nil, ErrWorkshopNotFound
		}
		uc.logger.Error("FindAvailability: failed to get workshop id=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: failed to get workshop: %v", ErrInternal, err)
	}

	loc := calendar.ResolveLocation(workshop.Timezone, uc.logger)
	builder := calendar.NewBuilder(loc, uc.blocking)
	detector := conflict.NewDetector(builder)

	// 3. Service item resolves the duration
	item, err := uc.workshops.GetServiceItem(ctx, req.ServiceItemID)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrServiceItemNotFound) {
			uc.logger.Warn("FindAvailability: service item id=%d not found", req.ServiceItemID)
			return nil, ErrServiceItemNotFound
		}
		uc.logger.Error("FindAvailability: failed to get service item id=%d: %v", req.ServiceItemID, err)
		return nil, fmt.Errorf("%w: failed to get service item: %v", ErrInternal, err)
	}
	if item.WorkshopID != req.WorkshopID {
		uc.logger.Warn("FindAvailability: service item id=%d belongs to workshop %d, not %d",
			req.ServiceItemID, item.WorkshopID, req.WorkshopID)
		return nil, ErrServiceItemNotFound
	}

	durationMin := fallbackDurationMinutes
	if item.DefaultDurationMin != nil && *item.DefaultDurationMin > 0 {
		durationMin = *item.DefaultDurationMin
	}
	if req.OverrideDurationMin != nil {
		durationMin = *req.OverrideDurationMin
	}
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}

	// 4. Optional car lookup by registration, then its vehicle profile
	profile, err := uc.resolveProfile(ctx, req.RegistrationNumber)
	if err != nil {
		return nil, err
	}

	// 5. Candidate bays, narrowed to the vehicle profile
	allBays, err := uc.bays.ListByWorkshop(ctx, req.WorkshopID)
	if err != nil {
		uc.logger.Error("FindAvailability: failed to list bays for workshop=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: failed to list bays: %v", ErrInternal, err)
	}
	bays := make([]domain.Bay, 0, len(allBays))
	for i := range allBays {
		if detector.VehicleCompatible(&allBays[i], profile) {
			bays = append(bays, allBays[i])
		}
	}
	if len(bays) == 0 {
		uc.logger.Info("FindAvailability: no bays match the vehicle profile in workshop=%d", req.WorkshopID)
		return &Response{Proposals: []domain.AvailabilityProposal{}, ReasonIfEmpty: ptr.Ptr(domain.EmptyReasonNoMatchingBays)}, nil
	}

	// 6. Schedule-eligible staff
	mechanics, err := uc.workshops.ListMechanics(ctx, req.WorkshopID)
	if err != nil {
		uc.logger.Error("FindAvailability: failed to list mechanics for workshop=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: failed to list mechanics: %v", ErrInternal, err)
	}
	if len(mechanics) == 0 {
		uc.logger.Info("FindAvailability: no schedule-eligible staff in workshop=%d", req.WorkshopID)
		return &Response{Proposals: []domain.AvailabilityProposal{}, ReasonIfEmpty: ptr.Ptr(domain.EmptyReasonNoEligibleStaff)}, nil
	}

	// 7. Resolve the scan window: lead time, horizon, local rounding
	now := uc.timeProvider.Now()

	startRaw := now
	if req.EarliestFrom != nil {
		startRaw = req.EarliestFrom.UTC()
	}
	leadMin := uc.defaults.LeadTimeMin
	if req.MinLeadTimeMin != nil && *req.MinLeadTimeMin >= 0 {
		leadMin = *req.MinLeadTimeMin
	}
	start := startRaw
	if minStart := now.Add(time.Duration(leadMin) * time.Minute); minStart.After(start) {
		start = minStart
	}

	latestEnd := start.Add(time.Duration(uc.defaults.SearchWindowDays) * 24 * time.Hour)
	if req.LatestEnd != nil {
		latestEnd = req.LatestEnd.UTC()
	}
	if !latestEnd.After(start) {
		uc.logger.Warn("FindAvailability: latest_end %s is not after earliest start %s", latestEnd, start)
		return nil, ErrInvalidTimeWindow
	}

	stepMin := uc.defaults.StepGranularityMin
	if req.GranularityMin > 0 {
		stepMin = req.GranularityMin
	}
	if stepMin < 5 {
		stepMin = 5
	}
	scanStart := builder.RoundUpLocal(start, stepMin)

	maxProposals := uc.defaults.MaxProposals
	if req.NumProposals > 0 {
		maxProposals = req.NumProposals
	}
	maxCandidates := req.MaxCandidatesPerSlot
	if maxCandidates < 1 {
		maxCandidates = 1
	}

	strategy, _ := assign.ParseStrategy(req.Strategy)

	// 8. Load the read snapshot once for the whole scan, padded so buffered
	// neighbours stay visible
	padding := queryPaddingMinutes * time.Minute
	loadWindow := domain.TimeInterval{Start: scanStart.Add(-padding), End: latestEnd.Add(padding)}
	snap, err := uc.loadSnapshot(ctx, req.WorkshopID, bays, mechanics, loadWindow)
	if err != nil {
		uc.logger.Error("FindAvailability: failed to load snapshot for workshop=%d: %v", req.WorkshopID, err)
		return nil, fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
	}

	// 9. Forward scan
	pl := &planner{builder: builder, detector: detector, newToken: uc.newToken}
	proposals := pl.plan(snap, planParams{
		duration:             time.Duration(durationMin) * time.Minute,
		window:               domain.TimeInterval{Start: scanStart, End: latestEnd},
		stepMin:              stepMin,
		strategy:             strategy,
		preferredMechanicID:  req.PreferredMechanicID,
		maxProposals:         maxProposals,
		maxCandidatesPerSlot: maxCandidates,
		returnCandidates:     req.ReturnCandidates,
		allowFragmented:      req.AllowFragmentedParts,
	})

	uc.logger.Info("FindAvailability: workshop=%d produced %d proposals", req.WorkshopID, len(proposals))

	resp := &Response{Proposals: proposals}
	if len(proposals) == 0 {
		resp.ReasonIfEmpty = ptr.Ptr(domain.EmptyReasonNoFreeTime)
	}
	return resp, nil
}

// resolveProfile maps an optional registration number to a vehicle profile.
// A missing car or profile plans as unconstrained.
func (uc *UseCase) resolveProfile(ctx context.Context, registration string) (*domain.VehicleProfile, error) {
	if registration == "" {
		return nil, nil
	}
	car, err := uc.workshops.GetCarByRegistration(ctx, registration)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrCarNotFound) {
			return nil, nil
		}
		uc.logger.Error("FindAvailability: failed to get car %q: %v", registration, err)
		return nil, fmt.Errorf("%w: failed to get car: %v", ErrInternal, err)
	}
	profile, err := uc.workshops.GetVehicleProfile(ctx, car.ID)
	if err != nil {
		if errors.Is(err, workshopRepo.ErrProfileNotFound) {
			return nil, nil
		}
		uc.logger.Error("FindAvailability: failed to get vehicle profile for car=%d: %v", car.ID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle profile: %v", ErrInternal, err)
	}
	return profile, nil
}

func (uc *UseCase) loadSnapshot(
	ctx context.Context,
	workshopID int64,
	bays []domain.Bay,
	mechanics []domain.Mechanic,
	window domain.TimeInterval,
) (planSnapshot, error) {
	snap := planSnapshot{
		workshopID: workshopID,
		bays:       bays,
		occupancy:  make(map[int64]calendar.BayOccupancy, len(bays)),
		mechanics:  mechanics,
		schedules:  make(map[int64]calendar.MechanicSchedule, len(mechanics)),
	}

	bayIDs := make([]int64, 0, len(bays))
	for i := range bays {
		bayIDs = append(bayIDs, bays[i].ID)
	}
	closures, err := uc.bays.ListClosuresForBays(ctx, bayIDs, window)
	if err != nil {
		return planSnapshot{}, fmt.Errorf("list closures: %w", err)
	}
	for _, id := range bayIDs {
		bookings, err := uc.bookings.ListByBay(ctx, id, window, uc.blocking)
		if err != nil {
			return planSnapshot{}, fmt.Errorf("list bay bookings: %w", err)
		}
		snap.occupancy[id] = calendar.BayOccupancy{Bookings: bookings, Closures: closures[id]}
	}

	mechanicIDs := make([]int64, 0, len(mechanics))
	for i := range mechanics {
		mechanicIDs = append(mechanicIDs, mechanics[i].ID)
	}
	rules, err := uc.schedules.ListRulesForMechanics(ctx, mechanicIDs)
	if err != nil {
		return planSnapshot{}, fmt.Errorf("list working-hours rules: %w", err)
	}
	timeOff, err := uc.schedules.ListTimeOffForMechanics(ctx, mechanicIDs, window)
	if err != nil {
		return planSnapshot{}, fmt.Errorf("list time off: %w", err)
	}
	for _, id := range mechanicIDs {
		bookings, err := uc.bookings.ListByMechanic(ctx, id, window, uc.blocking)
		if err != nil {
			return planSnapshot{}, fmt.Errorf("list mechanic bookings: %w", err)
		}
		snap.schedules[id] = calendar.MechanicSchedule{
			Rules:    rules[id],
			TimeOff:  timeOff[id],
			Bookings: bookings,
		}
	}

	return snap, nil
}
