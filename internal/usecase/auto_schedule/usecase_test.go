package auto_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	bayRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/bay"
	bookingRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/booking"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
	"github.com/autonexo/ANX-SchedulingService/pkg/types"
)

type fakeWorkshopRepo struct {
	workshop  *domain.Workshop
	mechanics map[int64]*domain.Mechanic
	cars      map[int64]*domain.Car
	profiles  map[int64]*domain.VehicleProfile
}

func (f *fakeWorkshopRepo) GetWorkshop(_ context.Context, _ int64) (*domain.Workshop, error) {
	if f.workshop == nil {
		return nil, workshopRepo.ErrWorkshopNotFound
	}
	return f.workshop, nil
}

func (f *fakeWorkshopRepo) GetMechanic(_ context.Context, id int64) (*domain.Mechanic, error) {
	m, ok := f.mechanics[id]
	if !ok {
		return nil, workshopRepo.ErrMechanicNotFound
	}
	return m, nil
}

func (f *fakeWorkshopRepo) ListMechanics(_ context.Context, _ int64) ([]domain.Mechanic, error) {
	var out []domain.Mechanic
	for _, m := range f.mechanics {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeWorkshopRepo) GetCar(_ context.Context, id int64) (*domain.Car, error) {
	c, ok := f.cars[id]
	if !ok {
		return nil, workshopRepo.ErrCarNotFound
	}
	return c, nil
}

func (f *fakeWorkshopRepo) GetCarByRegistration(_ context.Context, reg string) (*domain.Car, error) {
	for _, c := range f.cars {
		if c.RegistrationNumber == reg {
			return c, nil
		}
	}
	return nil, workshopRepo.ErrCarNotFound
}

func (f *fakeWorkshopRepo) GetVehicleProfile(_ context.Context, carID int64) (*domain.VehicleProfile, error) {
	p, ok := f.profiles[carID]
	if !ok {
		return nil, workshopRepo.ErrProfileNotFound
	}
	return p, nil
}

type fakeBayRepo struct {
	bay      *domain.Bay
	closures []domain.BayClosure
}

func (f *fakeBayRepo) GetByID(_ context.Context, _ int64) (*domain.Bay, error) {
	if f.bay == nil {
		return nil, bayRepo.ErrBayNotFound
	}
	return f.bay, nil
}

func (f *fakeBayRepo) ListClosures(_ context.Context, _ int64, _ domain.TimeInterval) ([]domain.BayClosure, error) {
	return f.closures, nil
}

type fakeScheduleRepo struct {
	rules   map[int64][]domain.WorkingHoursRule
	timeOff map[int64][]domain.TimeOff
}

func (f *fakeScheduleRepo) ListRules(_ context.Context, mechanicID int64) ([]domain.WorkingHoursRule, error) {
	return f.rules[mechanicID], nil
}

func (f *fakeScheduleRepo) ListTimeOff(_ context.Context, mechanicID int64, _ domain.TimeInterval) ([]domain.TimeOff, error) {
	return f.timeOff[mechanicID], nil
}

type fakeBookingRepo struct {
	byBay      []domain.Booking
	byMechanic map[int64][]domain.Booking
	master     *domain.Booking

	created   *domain.Booking
	createErr error
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *b
	stored.ID = 100
	f.created = &stored
	return &stored, nil
}

func (f *fakeBookingRepo) ListByBay(_ context.Context, _ int64, _ domain.TimeInterval, _ []domain.BookingStatus) ([]domain.Booking, error) {
	return f.byBay, nil
}

func (f *fakeBookingRepo) ListByMechanic(_ context.Context, mechanicID int64, _ domain.TimeInterval, _ []domain.BookingStatus) ([]domain.Booking, error) {
	return f.byMechanic[mechanicID], nil
}

func (f *fakeBookingRepo) GetChainMaster(_ context.Context, _ string) (*domain.Booking, error) {
	if f.master == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.master, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func utc(d, hh, mm int) time.Time {
	return time.Date(2026, 3, d, hh, mm, 0, 0, time.UTC)
}

func mustTS(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

// mondayShift covers Monday 2026-03-02 used by every scenario below.
func mondayShift(t *testing.T, mechanicID int64) domain.WorkingHoursRule {
	t.Helper()
	return domain.WorkingHoursRule{
		MechanicID: mechanicID,
		Weekday:    0,
		StartTime:  mustTS(t, "08:00"),
		EndTime:    mustTS(t, "17:00"),
	}
}

func fixture(t *testing.T) (*fakeWorkshopRepo, *fakeBayRepo, *fakeScheduleRepo, *fakeBookingRepo) {
	t.Helper()
	w := &fakeWorkshopRepo{
		workshop: &domain.Workshop{ID: 1, Name: "Test Workshop", Timezone: "UTC", Active: true},
		mechanics: map[int64]*domain.Mechanic{
			1: {ID: 1, Username: "mech1", Role: domain.RoleWorkshopEmployee},
		},
	}
	b := &fakeBayRepo{bay: &domain.Bay{ID: 1, WorkshopID: 1, Name: "Lift 1"}}
	s := &fakeScheduleRepo{rules: map[int64][]domain.WorkingHoursRule{1: {mondayShift(t, 1)}}}
	bk := &fakeBookingRepo{}
	return w, b, s, bk
}

func newTestUseCase(w *fakeWorkshopRepo, b *fakeBayRepo, s *fakeScheduleRepo, bk *fakeBookingRepo) *UseCase {
	return NewUseCase(w, b, s, bk, fakeTxManager{}, []domain.BookingStatus{domain.StatusBooked, domain.StatusInProgress}, nopLogger{})
}

func baseRequest() *Request {
	return &Request{
		WorkshopID:         1,
		BayID:              1,
		Title:              "  Brake service  ",
		StartAt:            utc(2, 10, 0),
		EndAt:              utc(2, 11, 0),
		AssignedMechanicID: ptr.Ptr(int64(1)),
	}
}

func TestExecute_CreatesBooking(t *testing.T) {
	w, b, s, bk := fixture(t)
	uc := newTestUseCase(w, b, s, bk)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.Booking.ID)
	assert.Equal(t, "Brake service", resp.Booking.Title)
	assert.Equal(t, domain.StatusBooked, resp.Booking.Status)
	assert.Equal(t, utc(2, 10, 0), resp.Booking.StartAt)
	assert.Equal(t, utc(2, 11, 0), resp.Booking.EndAt)
	require.NotNil(t, bk.created)
}

func TestExecute_ValidationErrors(t *testing.T) {
	w, b, s, bk := fixture(t)
	uc := newTestUseCase(w, b, s, bk)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"empty title", func(r *Request) { r.Title = "   " }, ErrInvalidTitle},
		{"inverted interval", func(r *Request) { r.StartAt, r.EndAt = r.EndAt, r.StartAt }, ErrInvalidInterval},
		{"negative buffer", func(r *Request) { r.BufferBeforeMin = -1 }, ErrInvalidBuffer},
		{"vat out of range", func(r *Request) { r.VatPercent = ptr.Ptr(150) }, ErrInvalidVat},
		{"negative price", func(r *Request) { r.PriceNetOre = ptr.Ptr(int64(-1)) }, ErrNegativePrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_MechanicNotEligible(t *testing.T) {
	w, b, s, bk := fixture(t)
	w.mechanics[1].Role = domain.RoleOwner
	uc := newTestUseCase(w, b, s, bk)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrMechanicNotEligible)
}

func TestExecute_VehicleIncompatible(t *testing.T) {
	w, b, s, bk := fixture(t)
	w.cars = map[int64]*domain.Car{7: {ID: 7, RegistrationNumber: "ABC123"}}
	w.profiles = map[int64]*domain.VehicleProfile{7: {CarID: 7, VehicleClass: domain.VehicleClassVan}}
	b.bay.SupportedVehicleClasses = []domain.VehicleClass{domain.VehicleClassSedan}
	uc := newTestUseCase(w, b, s, bk)

	req := baseRequest()
	req.CarID = ptr.Ptr(int64(7))
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrVehicleIncompatible)
}

func TestExecute_BayConflictSuggestsShiftedSlot(t *testing.T) {
	w, b, s, bk := fixture(t)
	// The bay is busy 10:00-11:00, so shifting in quarter-hour steps first
	// frees up at 11:00.
	bk.byBay = []domain.Booking{{
		ID:      50,
		BayID:   1,
		StartAt: utc(2, 10, 0),
		EndAt:   utc(2, 11, 0),
		Status:  domain.StatusBooked,
	}}
	uc := newTestUseCase(w, b, s, bk)

	_, err := uc.Execute(context.Background(), baseRequest())
	require.Error(t, err)

	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "bay", conflictErr.Resource)
	require.Len(t, conflictErr.Alternatives, 1)

	alt := conflictErr.Alternatives[0]
	assert.Equal(t, int64(1), alt.BayID)
	require.NotNil(t, alt.MechanicID)
	assert.Equal(t, int64(1), *alt.MechanicID)
	assert.Equal(t, utc(2, 11, 0), alt.StartAt)
	assert.Equal(t, utc(2, 12, 0), alt.EndAt)
}

func TestExecute_MechanicConflictSuggestsSubstitute(t *testing.T) {
	w, b, s, bk := fixture(t)
	w.mechanics[2] = &domain.Mechanic{ID: 2, Username: "mech2", Role: domain.RoleWorkshopEmployee}
	s.rules[2] = []domain.WorkingHoursRule{mondayShift(t, 2)}
	s.timeOff = map[int64][]domain.TimeOff{1: {{
		MechanicID: 1,
		StartAt:    utc(2, 9, 0),
		EndAt:      utc(2, 12, 0),
		Type:       domain.TimeOffVacation,
	}}}
	uc := newTestUseCase(w, b, s, bk)

	_, err := uc.Execute(context.Background(), baseRequest())
	require.Error(t, err)

	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "mechanic", conflictErr.Resource)
	require.Len(t, conflictErr.Alternatives, 1)

	alt := conflictErr.Alternatives[0]
	require.NotNil(t, alt.MechanicID)
	assert.Equal(t, int64(2), *alt.MechanicID)
	assert.Equal(t, utc(2, 10, 0), alt.StartAt)
	assert.Equal(t, utc(2, 11, 0), alt.EndAt)
}

func TestExecute_ChainMasterAdjustsBooking(t *testing.T) {
	w, b, s, bk := fixture(t)
	bk.master = &domain.Booking{
		ID:            10,
		WorkshopID:    1,
		BayID:         1,
		ChainToken:    ptr.Ptr("chain-1"),
		CarID:         ptr.Ptr(int64(7)),
		ServiceItemID: ptr.Ptr(int64(3)),
		Status:        domain.StatusBooked,
		StartAt:       utc(1, 10, 0),
		EndAt:         utc(1, 11, 0),
	}
	uc := newTestUseCase(w, b, s, bk)

	req := baseRequest()
	req.ChainToken = ptr.Ptr("chain-1")
	req.PriceNetOre = ptr.Ptr(int64(50000))
	req.PriceGrossOre = ptr.Ptr(int64(62500))
	req.PriceNote = ptr.Ptr("quoted")
	req.PriceIsCustom = ptr.Ptr(true)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Prices live on the chain master only; car and service item fill in
	// from the master.
	assert.Nil(t, resp.Booking.PriceNetOre)
	assert.Nil(t, resp.Booking.PriceGrossOre)
	assert.Nil(t, resp.Booking.PriceNote)
	assert.Nil(t, resp.Booking.PriceIsCustom)
	require.NotNil(t, resp.Booking.CarID)
	assert.Equal(t, int64(7), *resp.Booking.CarID)
	require.NotNil(t, resp.Booking.ServiceItemID)
	assert.Equal(t, int64(3), *resp.Booking.ServiceItemID)
}

func TestExecute_ChainMismatches(t *testing.T) {
	t.Run("workshop mismatch", func(t *testing.T) {
		w, b, s, bk := fixture(t)
		bk.master = &domain.Booking{ID: 10, WorkshopID: 2, BayID: 1, Status: domain.StatusBooked}
		req := baseRequest()
		req.ChainToken = ptr.Ptr("chain-1")
		_, err := newTestUseCase(w, b, s, bk).Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrChainWorkshopMismatch)
	})

	t.Run("service item mismatch", func(t *testing.T) {
		w, b, s, bk := fixture(t)
		bk.master = &domain.Booking{ID: 10, WorkshopID: 1, BayID: 1, ServiceItemID: ptr.Ptr(int64(3)), Status: domain.StatusBooked}
		req := baseRequest()
		req.ChainToken = ptr.Ptr("chain-1")
		req.ServiceItemID = ptr.Ptr(int64(4))
		_, err := newTestUseCase(w, b, s, bk).Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrChainServiceItemMismatch)
	})
}

func TestExecute_ExclusionConstraintMapsToConflict(t *testing.T) {
	w, b, s, bk := fixture(t)
	bk.createErr = bookingRepo.ErrExclusionConflict
	uc := newTestUseCase(w, b, s, bk)

	_, err := uc.Execute(context.Background(), baseRequest())
	require.Error(t, err)

	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "bay", conflictErr.Resource)
	assert.Equal(t, "the interval was taken while booking", conflictErr.Detail)
}

func TestExecute_NotFoundErrors(t *testing.T) {
	t.Run("workshop", func(t *testing.T) {
		w, b, s, bk := fixture(t)
		w.workshop = nil
		_, err := newTestUseCase(w, b, s, bk).Execute(context.Background(), baseRequest())
		assert.ErrorIs(t, err, ErrWorkshopNotFound)
	})

	t.Run("mechanic", func(t *testing.T) {
		w, b, s, bk := fixture(t)
		req := baseRequest()
		req.AssignedMechanicID = ptr.Ptr(int64(99))
		_, err := newTestUseCase(w, b, s, bk).Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrMechanicNotFound)
	})

	t.Run("car", func(t *testing.T) {
		w, b, s, bk := fixture(t)
		req := baseRequest()
		req.CarID = ptr.Ptr(int64(99))
		_, err := newTestUseCase(w, b, s, bk).Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrCarNotFound)
	})
}
