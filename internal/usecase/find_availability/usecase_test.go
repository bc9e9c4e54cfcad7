package find_availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
	"github.com/autonexo/ANX-SchedulingService/pkg/types"
)

// Fakes

type fakeWorkshopRepo struct {
	workshop  *domain.Workshop
	item      *domain.ServiceItem
	car       *domain.Car
	profile   *domain.VehicleProfile
	mechanics []domain.Mechanic
}

func (f *fakeWorkshopRepo) GetWorkshop(_ context.Context, _ int64) (*domain.Workshop, error) {
	if f.workshop == nil {
		return nil, workshopRepo.ErrWorkshopNotFound
	}
	return f.workshop, nil
}

func (f *fakeWorkshopRepo) GetServiceItem(_ context.Context, _ int64) (*domain.ServiceItem, error) {
	if f.item == nil {
		return nil, workshopRepo.ErrServiceItemNotFound
	}
	return f.item, nil
}

func (f *fakeWorkshopRepo) GetCarByRegistration(_ context.Context, _ string) (*domain.Car, error) {
	if f.car == nil {
		return nil, workshopRepo.ErrCarNotFound
	}
	return f.car, nil
}

func (f *fakeWorkshopRepo) GetVehicleProfile(_ context.Context, _ int64) (*domain.VehicleProfile, error) {
	if f.profile == nil {
		return nil, workshopRepo.ErrProfileNotFound
	}
	return f.profile, nil
}

func (f *fakeWorkshopRepo) ListMechanics(_ context.Context, _ int64) ([]domain.Mechanic, error) {
	return f.mechanics, nil
}

type fakeBayRepo struct {
	bays     []domain.Bay
	closures map[int64][]domain.BayClosure
}

func (f *fakeBayRepo) ListByWorkshop(_ context.Context, _ int64) ([]domain.Bay, error) {
	return f.bays, nil
}

func (f *fakeBayRepo) ListClosuresForBays(_ context.Context, _ []int64, _ domain.TimeInterval) (map[int64][]domain.BayClosure, error) {
	if f.closures == nil {
		return map[int64][]domain.BayClosure{}, nil
	}
	return f.closures, nil
}

type fakeScheduleRepo struct {
	rules   map[int64][]domain.WorkingHoursRule
	timeOff map[int64][]domain.TimeOff
}

func (f *fakeScheduleRepo) ListRulesForMechanics(_ context.Context, _ []int64) (map[int64][]domain.WorkingHoursRule, error) {
	return f.rules, nil
}

func (f *fakeScheduleRepo) ListTimeOffForMechanics(_ context.Context, _ []int64, _ domain.TimeInterval) (map[int64][]domain.TimeOff, error) {
	if f.timeOff == nil {
		return map[int64][]domain.TimeOff{}, nil
	}
	return f.timeOff, nil
}

type fakeBookingRepo struct {
	byBay      map[int64][]domain.Booking
	byMechanic map[int64][]domain.Booking
}

func (f *fakeBookingRepo) ListByBay(_ context.Context, bayID int64, _ domain.TimeInterval, _ []domain.BookingStatus) ([]domain.Booking, error) {
	return f.byBay[bayID], nil
}

func (f *fakeBookingRepo) ListByMechanic(_ context.Context, mechanicID int64, _ domain.TimeInterval, _ []domain.BookingStatus) ([]domain.Booking, error) {
	return f.byMechanic[mechanicID], nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// Fixture helpers

func utc(d, hh, mm int) time.Time {
	return time.Date(2026, 3, d, hh, mm, 0, 0, time.UTC)
}

func mustTS(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

// mondayRule covers the Monday 2026-03-02 used throughout these tests.
func mondayRule(t *testing.T, mechanicID int64, from, to string) domain.WorkingHoursRule {
	t.Helper()
	return domain.WorkingHoursRule{
		MechanicID: mechanicID,
		Weekday:    0,
		StartTime:  mustTS(t, from),
		EndTime:    mustTS(t, to),
	}
}

func testDefaults() Defaults {
	return Defaults{
		StepGranularityMin: 15,
		LeadTimeMin:        60,
		SearchWindowDays:   14,
		MaxProposals:       3,
	}
}

func newTestUseCase(w *fakeWorkshopRepo, b *fakeBayRepo, s *fakeScheduleRepo, bk *fakeBookingRepo, now time.Time) *UseCase {
	uc := NewUseCase(w, b, s, bk, []domain.BookingStatus{domain.StatusBooked, domain.StatusInProgress}, testDefaults(), nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	tokens := 0
	uc.newToken = func() string {
		tokens++
		return fmt.Sprintf("token-%d", tokens)
	}
	return uc
}

func singleMechanicFixture(t *testing.T) (*fakeWorkshopRepo, *fakeBayRepo, *fakeScheduleRepo, *fakeBookingRepo) {
	t.Helper()
	w := &fakeWorkshopRepo{
		workshop:  &domain.Workshop{ID: 1, Name: "Test Workshop", Timezone: "UTC", Active: true},
		item:      &domain.ServiceItem{ID: 10, WorkshopID: 1, Name: "Oil change", PriceType: domain.PriceTypeFixed, DefaultDurationMin: ptr.Ptr(60)},
		mechanics: []domain.Mechanic{{ID: 1, Username: "mech1", Role: domain.RoleWorkshopEmployee}},
	}
	b := &fakeBayRepo{bays: []domain.Bay{{ID: 1, WorkshopID: 1, Name: "Lift 1", BayType: domain.BayTypeTwoPostLift}}}
	s := &fakeScheduleRepo{rules: map[int64][]domain.WorkingHoursRule{
		1: {mondayRule(t, 1, "08:00", "17:00")},
	}}
	bk := &fakeBookingRepo{}
	return w, b, s, bk
}

// Tests

func TestExecute_ContiguousProposal(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:     ptr.Ptr(utc(2, 12, 0)),
		NumProposals:  1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 1)

	prop := resp.Proposals[0]
	assert.Equal(t, int64(1), prop.BayID)
	assert.Equal(t, int64(1), prop.MechanicID)
	require.Len(t, prop.Parts, 1)
	assert.Equal(t, utc(2, 8, 0), prop.Parts[0].StartAt)
	assert.Equal(t, utc(2, 9, 0), prop.Parts[0].EndAt)
	assert.Nil(t, prop.SuggestedChainToken)
	assert.Equal(t, "Lift 1", prop.Note)
	assert.Nil(t, resp.ReasonIfEmpty)
}

func TestExecute_LeadTimePushesStart(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	// Asking at 07:30 with a 60 minute lead pushes the scan to 08:30.
	uc := newTestUseCase(w, b, s, bk, utc(2, 7, 30))

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:     ptr.Ptr(utc(2, 12, 0)),
		NumProposals:  1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 1)
	assert.Equal(t, utc(2, 8, 30), resp.Proposals[0].Parts[0].StartAt)
}

func TestExecute_FragmentedProposalCarriesChainToken(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	// Shift 08:00-10:30 with time off 08:40-09:00 leaves 40 and 90 free
	// minutes. A 90 minute job only fits fragmented.
	s.rules = map[int64][]domain.WorkingHoursRule{1: {mondayRule(t, 1, "08:00", "10:30")}}
	s.timeOff = map[int64][]domain.TimeOff{1: {{
		MechanicID: 1,
		StartAt:    utc(2, 8, 40),
		EndAt:      utc(2, 9, 0),
		Type:       domain.TimeOffTraining,
	}}}
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:           1,
		ServiceItemID:        10,
		EarliestFrom:         ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:            ptr.Ptr(utc(2, 12, 0)),
		NumProposals:         1,
		OverrideDurationMin:  ptr.Ptr(90),
		AllowFragmentedParts: true,
		ReturnCandidates:     true,
		MaxCandidatesPerSlot: 5,
	})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 1)

	prop := resp.Proposals[0]
	require.Len(t, prop.Parts, 2)
	assert.Equal(t, utc(2, 8, 0), prop.Parts[0].StartAt)
	assert.Equal(t, utc(2, 8, 40), prop.Parts[0].EndAt)
	assert.Equal(t, utc(2, 9, 0), prop.Parts[1].StartAt)
	assert.Equal(t, utc(2, 9, 50), prop.Parts[1].EndAt)

	require.NotNil(t, prop.SuggestedChainToken)
	assert.Equal(t, "token-1", *prop.SuggestedChainToken)
	assert.Equal(t, "Lift 1 (gaps: 08:40-09:00)", prop.Note)
}

func TestExecute_NoMatchingBaysReason(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	w.car = &domain.Car{ID: 7, RegistrationNumber: "ABC123"}
	w.profile = &domain.VehicleProfile{CarID: 7, VehicleClass: domain.VehicleClassVan}
	b.bays[0].SupportedVehicleClasses = []domain.VehicleClass{domain.VehicleClassSedan}
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:         1,
		ServiceItemID:      10,
		RegistrationNumber: "ABC123",
		EarliestFrom:       ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:          ptr.Ptr(utc(2, 12, 0)),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Proposals)
	require.NotNil(t, resp.ReasonIfEmpty)
	assert.Equal(t, domain.EmptyReasonNoMatchingBays, *resp.ReasonIfEmpty)
}

func TestExecute_NoEligibleStaffReason(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	w.mechanics = nil
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:     ptr.Ptr(utc(2, 12, 0)),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Proposals)
	require.NotNil(t, resp.ReasonIfEmpty)
	assert.Equal(t, domain.EmptyReasonNoEligibleStaff, *resp.ReasonIfEmpty)
}

func TestExecute_NoFreeTimeReason(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	// The only shift is fully occupied by an existing booking.
	s.rules = map[int64][]domain.WorkingHoursRule{1: {mondayRule(t, 1, "08:00", "10:00")}}
	busy := domain.Booking{
		BayID:              1,
		AssignedMechanicID: ptr.Ptr(int64(1)),
		StartAt:            utc(2, 8, 0),
		EndAt:              utc(2, 10, 0),
		Status:             domain.StatusBooked,
	}
	bk.byBay = map[int64][]domain.Booking{1: {busy}}
	bk.byMechanic = map[int64][]domain.Booking{1: {busy}}
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:     ptr.Ptr(utc(2, 10, 0)),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Proposals)
	require.NotNil(t, resp.ReasonIfEmpty)
	assert.Equal(t, domain.EmptyReasonNoFreeTime, *resp.ReasonIfEmpty)
}

func TestExecute_SkipsWeekendToNextShift(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	// Saturday 2026-03-07 start; the only shift rule is Mondays, so the
	// prefilter must jump to Monday 2026-03-09.
	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(7, 0, 0)),
		LatestEnd:     ptr.Ptr(utc(10, 0, 0)),
		NumProposals:  1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 1)
	assert.Equal(t, utc(9, 8, 0), resp.Proposals[0].Parts[0].StartAt)
}

func TestExecute_SamePairProposalsDoNotOverlap(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:     ptr.Ptr(utc(2, 12, 0)),
		NumProposals:  3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Proposals, 3)

	// Scan steps between whole slots are suppressed, so the single pair
	// gets back-to-back hours instead of shifted copies of the first one.
	for i, wantStart := range []time.Time{utc(2, 8, 0), utc(2, 9, 0), utc(2, 10, 0)} {
		require.Len(t, resp.Proposals[i].Parts, 1)
		assert.Equal(t, wantStart, resp.Proposals[i].Parts[0].StartAt)
	}

	for i := range resp.Proposals {
		for j := i + 1; j < len(resp.Proposals); j++ {
			left, right := resp.Proposals[i], resp.Proposals[j]
			if left.BayID != right.BayID || left.MechanicID != right.MechanicID {
				continue
			}
			li := domain.TimeInterval{Start: left.Parts[0].StartAt, End: left.Parts[len(left.Parts)-1].EndAt}
			ri := domain.TimeInterval{Start: right.Parts[0].StartAt, End: right.Parts[len(right.Parts)-1].EndAt}
			require.False(t, li.Overlaps(ri), "proposals %d and %d overlap for the same bay and mechanic", i, j)
		}
	}
}

func TestExecute_TwoBaysDeterministicOrder(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	b.bays = append(b.bays, domain.Bay{ID: 2, WorkshopID: 1, Name: "Lift 2", BayType: domain.BayTypeTwoPostLift})

	req := &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:     ptr.Ptr(utc(2, 17, 0)),
		NumProposals:  3,
	}

	first, err := newTestUseCase(w, b, s, bk, utc(1, 12, 0)).Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := newTestUseCase(w, b, s, bk, utc(1, 12, 0)).Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Proposals, second.Proposals)
	for _, prop := range first.Proposals {
		assert.Contains(t, []int64{1, 2}, prop.BayID)
	}
}

func TestExecute_Deterministic(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	w.mechanics = []domain.Mechanic{
		{ID: 1, Username: "mech1", Role: domain.RoleWorkshopEmployee},
		{ID: 2, Username: "mech2", Role: domain.RoleWorkshopEmployee},
	}
	s.rules = map[int64][]domain.WorkingHoursRule{
		1: {mondayRule(t, 1, "08:00", "17:00")},
		2: {mondayRule(t, 2, "08:00", "17:00")},
	}

	req := &Request{
		WorkshopID:           1,
		ServiceItemID:        10,
		EarliestFrom:         ptr.Ptr(utc(2, 8, 0)),
		LatestEnd:            ptr.Ptr(utc(2, 17, 0)),
		NumProposals:         3,
		MaxCandidatesPerSlot: 2,
	}

	first, err := newTestUseCase(w, b, s, bk, utc(1, 12, 0)).Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := newTestUseCase(w, b, s, bk, utc(1, 12, 0)).Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Proposals, second.Proposals)
}

func TestExecute_WorkshopNotFound(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	w.workshop = nil
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	_, err := uc.Execute(context.Background(), &Request{WorkshopID: 99, ServiceItemID: 10})
	assert.ErrorIs(t, err, ErrWorkshopNotFound)
}

func TestExecute_ServiceItemFromOtherWorkshop(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	w.item.WorkshopID = 2
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	_, err := uc.Execute(context.Background(), &Request{WorkshopID: 1, ServiceItemID: 10})
	assert.ErrorIs(t, err, ErrServiceItemNotFound)
}

func TestExecute_InvalidTimeWindow(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	_, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		EarliestFrom:  ptr.Ptr(utc(2, 12, 0)),
		LatestEnd:     ptr.Ptr(utc(2, 8, 0)),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestExecute_UnknownStrategy(t *testing.T) {
	w, b, s, bk := singleMechanicFixture(t)
	uc := newTestUseCase(w, b, s, bk, utc(1, 12, 0))

	_, err := uc.Execute(context.Background(), &Request{
		WorkshopID:    1,
		ServiceItemID: 10,
		Strategy:      "round_trip",
	})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
