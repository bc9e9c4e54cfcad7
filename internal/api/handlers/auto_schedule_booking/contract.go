package auto_schedule_booking

import (
	"context"

	"github.com/autonexo/ANX-SchedulingService/internal/usecase/auto_schedule"
)

type AutoScheduleUseCase interface {
	Execute(ctx context.Context, req *auto_schedule.Request) (*auto_schedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
