package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	bayRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/bay"
	workshopRepo "github.com/autonexo/ANX-SchedulingService/internal/infra/storage/workshop"
	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
)

type fakeWorkshopRepo struct {
	workshop *domain.Workshop
}

func (f *fakeWorkshopRepo) GetWorkshop(_ context.Context, _ int64) (*domain.Workshop, error) {
	if f.workshop == nil {
		return nil, workshopRepo.ErrWorkshopNotFound
	}
	return f.workshop, nil
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

type fakeBookingRepo struct {
	bookings []domain.Booking
}

func (f *fakeBookingRepo) ListByBay(_ context.Context, _ int64, _ domain.TimeInterval, _ []domain.BookingStatus) ([]domain.Booking, error) {
	return f.bookings, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func utc(d, hh, mm int) time.Time {
	return time.Date(2026, 3, d, hh, mm, 0, 0, time.UTC)
}

func newTestUseCase(w *fakeWorkshopRepo, b *fakeBayRepo, bk *fakeBookingRepo) *UseCase {
	return NewUseCase(w, b, bk, []domain.BookingStatus{domain.StatusBooked, domain.StatusInProgress}, nopLogger{})
}

func fixture() (*fakeWorkshopRepo, *fakeBayRepo, *fakeBookingRepo) {
	w := &fakeWorkshopRepo{workshop: &domain.Workshop{ID: 1, Name: "Test Workshop", Timezone: "UTC", Active: true}}
	b := &fakeBayRepo{bay: &domain.Bay{ID: 1, WorkshopID: 1, Name: "Lift 1"}}
	bk := &fakeBookingRepo{}
	return w, b, bk
}

func TestExecute_Available(t *testing.T) {
	w, b, bk := fixture()
	uc := newTestUseCase(w, b, bk)

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID: 1,
		BayID:      1,
		StartAt:    utc(2, 10, 0),
		EndAt:      utc(2, 11, 0),
	})
	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Nil(t, resp.Reason)
}

func TestExecute_BookingConflict(t *testing.T) {
	w, b, bk := fixture()
	bk.bookings = []domain.Booking{{
		ID:      42,
		BayID:   1,
		StartAt: utc(2, 10, 30),
		EndAt:   utc(2, 12, 0),
		Status:  domain.StatusBooked,
	}}
	uc := newTestUseCase(w, b, bk)

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID: 1,
		BayID:      1,
		StartAt:    utc(2, 10, 0),
		EndAt:      utc(2, 11, 0),
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "conflict with booking id=42 in the same bay", *resp.Reason)
}

func TestExecute_BufferedConflict(t *testing.T) {
	w, b, bk := fixture()
	// The existing booking ends at 10:00 but its trailing buffer reaches
	// 10:30, which collides with the requested slot's own leading buffer.
	bk.bookings = []domain.Booking{{
		ID:             7,
		BayID:          1,
		StartAt:        utc(2, 9, 0),
		EndAt:          utc(2, 10, 0),
		BufferAfterMin: 30,
		Status:         domain.StatusBooked,
	}}
	uc := newTestUseCase(w, b, bk)

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID:      1,
		BayID:           1,
		StartAt:         utc(2, 10, 45),
		EndAt:           utc(2, 11, 45),
		BufferBeforeMin: 20,
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "conflict with booking id=7 in the same bay", *resp.Reason)
}

func TestExecute_ClosureConflict(t *testing.T) {
	w, b, bk := fixture()
	b.closures = []domain.BayClosure{{
		ID:      3,
		BayID:   1,
		StartAt: utc(2, 10, 30),
		EndAt:   utc(2, 12, 0),
		Reason:  ptr.Ptr("lift maintenance"),
	}}
	uc := newTestUseCase(w, b, bk)

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID: 1,
		BayID:      1,
		StartAt:    utc(2, 10, 0),
		EndAt:      utc(2, 11, 0),
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "conflict with a closure period for the bay", *resp.Reason)
}

func TestExecute_InvertedIntervalIsVerdict(t *testing.T) {
	w, b, bk := fixture()
	uc := newTestUseCase(w, b, bk)

	resp, err := uc.Execute(context.Background(), &Request{
		WorkshopID: 1,
		BayID:      1,
		StartAt:    utc(2, 11, 0),
		EndAt:      utc(2, 10, 0),
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "end_at must be after start_at", *resp.Reason)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("workshop not found", func(t *testing.T) {
		w, b, bk := fixture()
		w.workshop = nil
		_, err := newTestUseCase(w, b, bk).Execute(context.Background(), &Request{
			WorkshopID: 99, BayID: 1, StartAt: utc(2, 10, 0), EndAt: utc(2, 11, 0),
		})
		assert.ErrorIs(t, err, ErrWorkshopNotFound)
	})

	t.Run("bay not found", func(t *testing.T) {
		w, b, bk := fixture()
		b.bay = nil
		_, err := newTestUseCase(w, b, bk).Execute(context.Background(), &Request{
			WorkshopID: 1, BayID: 99, StartAt: utc(2, 10, 0), EndAt: utc(2, 11, 0),
		})
		assert.ErrorIs(t, err, ErrBayNotFound)
	})

	t.Run("bay from another workshop", func(t *testing.T) {
		w, b, bk := fixture()
		b.bay.WorkshopID = 2
		_, err := newTestUseCase(w, b, bk).Execute(context.Background(), &Request{
			WorkshopID: 1, BayID: 1, StartAt: utc(2, 10, 0), EndAt: utc(2, 11, 0),
		})
		assert.ErrorIs(t, err, ErrBayNotInWorkshop)
	})

	t.Run("invalid ids", func(t *testing.T) {
		w, b, bk := fixture()
		_, err := newTestUseCase(w, b, bk).Execute(context.Background(), &Request{
			WorkshopID: 0, BayID: 1, StartAt: utc(2, 10, 0), EndAt: utc(2, 11, 0),
		})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
