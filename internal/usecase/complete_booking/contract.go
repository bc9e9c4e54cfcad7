package complete_booking

import (
	"context"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/internal/integrations/notify"
)

// BookingRepository reads and finalizes the booking.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Complete(ctx context.Context, id int64, finalPriceOre int64, actualMinutes int, billedFromTime bool, completedAt time.Time) (*domain.Booking, error)
}

// WorkshopRepository resolves the service item for time-based billing.
type WorkshopRepository interface {
	GetServiceItem(ctx context.Context, id int64) (*domain.ServiceItem, error)
}

// Notifier delivers the completion notice. Delivery is best effort.
type Notifier interface {
	BookingCompleted(ctx context.Context, notice *notify.BookingCompletedNotice) error
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
