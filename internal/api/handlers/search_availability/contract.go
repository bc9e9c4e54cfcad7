package search_availability

import (
	"context"

	"github.com/autonexo/ANX-SchedulingService/internal/usecase/find_availability"
)

type FindAvailabilityUseCase interface {
	Execute(ctx context.Context, req *find_availability.Request) (*find_availability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
