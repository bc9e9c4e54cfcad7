package bookings

import (
	"context"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// BookingRepository is the booking storage consumed by this service.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
}

// WorkshopRepository resolves staff membership for access checks.
type WorkshopRepository interface {
	GetStaffRole(ctx context.Context, workshopID, userID int64) (domain.MechanicRole, error)
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
