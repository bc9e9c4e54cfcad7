package auto_schedule

import (
	"context"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// WorkshopRepository reads the workshop snapshot.
type WorkshopRepository interface {
	GetWorkshop(ctx context.Context, id int64) (*domain.Workshop, error)
	GetMechanic(ctx context.Context, id int64) (*domain.Mechanic, error)
	ListMechanics(ctx context.Context, workshopID int64) ([]domain.Mechanic, error)
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
	GetCarByRegistration(ctx context.Context, registration string) (*domain.Car, error)
	GetVehicleProfile(ctx context.Context, carID int64) (*domain.VehicleProfile, error)
}

// BayRepository reads the bay and its closures.
type BayRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Bay, error)
	ListClosures(ctx context.Context, bayID int64, window domain.TimeInterval) ([]domain.BayClosure, error)
}

// ScheduleRepository reads one mechanic's working-hours rules and time off.
type ScheduleRepository interface {
	ListRules(ctx context.Context, mechanicID int64) ([]domain.WorkingHoursRule, error)
	ListTimeOff(ctx context.Context, mechanicID int64, window domain.TimeInterval) ([]domain.TimeOff, error)
}

// BookingRepository reads occupancy and persists the booking.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	ListByBay(ctx context.Context, bayID int64, window domain.TimeInterval, blocking []domain.BookingStatus) ([]domain.Booking, error)
	ListByMechanic(ctx context.Context, mechanicID int64, window domain.TimeInterval, blocking []domain.BookingStatus) ([]domain.Booking, error)
	GetChainMaster(ctx context.Context, token string) (*domain.Booking, error)
}

// TxManager runs the commit-time re-check and insert atomically.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the leveled logger consumed by this package.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider abstracts the clock for deterministic tests.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
