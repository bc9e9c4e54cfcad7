package check_availability

import (
	"context"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// WorkshopRepository reads the workshop snapshot.
type WorkshopRepository interface {
	GetWorkshop(ctx context.Context, id int64) (*domain.Workshop, error)
}

// BayRepository reads the bay and its closures.
type BayRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Bay, error)
	ListClosures(ctx context.Context, bayID int64, window domain.TimeInterval) ([]domain.BayClosure, error)
}

// BookingRepository reads the bookings occupying the bay.
type BookingRepository interface {
	ListByBay(ctx context.Context, bayID int64, window domain.TimeInterval, blocking []domain.BookingStatus) ([]domain.Booking, error)
}

// Logger is the leveled logger consumed by this package.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
