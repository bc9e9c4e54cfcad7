package find_availability

import (
	"context"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// WorkshopRepository reads the workshop snapshot the planner works against.
type WorkshopRepository interface {
	GetWorkshop(ctx context.Context, id int64) (*domain.Workshop, error)
	GetServiceItem(ctx context.Context, id int64) (*domain.ServiceItem, error)
	GetCarByRegistration(ctx context.Context, registration string) (*domain.Car, error)
	GetVehicleProfile(ctx context.Context, carID int64) (*domain.VehicleProfile, error)
	ListMechanics(ctx context.Context, workshopID int64) ([]domain.Mechanic, error)
}

// BayRepository reads bays and their closures.
type BayRepository interface {
	ListByWorkshop(ctx context.Context, workshopID int64) ([]domain.Bay, error)
	ListClosuresForBays(ctx context.Context, bayIDs []int64, window domain.TimeInterval) (map[int64][]domain.BayClosure, error)
}

// ScheduleRepository reads working-hours rules and time off.
type ScheduleRepository interface {
	ListRulesForMechanics(ctx context.Context, mechanicIDs []int64) (map[int64][]domain.WorkingHoursRule, error)
	ListTimeOffForMechanics(ctx context.Context, mechanicIDs []int64, window domain.TimeInterval) (map[int64][]domain.TimeOff, error)
}

// BookingRepository reads the bookings that occupy bays and mechanics.
type BookingRepository interface {
	ListByBay(ctx context.Context, bayID int64, window domain.TimeInterval, blocking []domain.BookingStatus) ([]domain.Booking, error)
	ListByMechanic(ctx context.Context, mechanicID int64, window domain.TimeInterval, blocking []domain.BookingStatus) ([]domain.Booking, error)
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

// Defaults are the configuration-level planner knobs applied when a request
// leaves them unset.
type Defaults struct {
	StepGranularityMin int
	LeadTimeMin        int
	SearchWindowDays   int
	MaxProposals       int
}
