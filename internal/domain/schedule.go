package domain

import (
	"time"

	"github.com/autonexo/ANX-SchedulingService/pkg/types"
)

// WorkingHoursRule is a recurring work shift for one mechanic.
// Weekday uses 0 = Monday .. 6 = Sunday. Times are wall clock in the
// workshop's timezone. A rule may not cross local midnight.
type WorkingHoursRule struct {
	ID         int64
	MechanicID int64
	Weekday    int
	StartTime  types.TimeString
	EndTime    types.TimeString
	ValidFrom  *time.Time
	ValidTo    *time.Time
}

// CoversDate reports whether the rule is in force on the given local date.
func (r *WorkingHoursRule) CoversDate(date time.Time) bool {
	if r.ValidFrom != nil && dateOnly(date).Before(dateOnly(*r.ValidFrom)) {
		return false
	}
	if r.ValidTo != nil && dateOnly(date).After(dateOnly(*r.ValidTo)) {
		return false
	}
	return true
}

// MatchesWeekday reports whether the rule applies to the weekday of the
// given local date.
func (r *WorkingHoursRule) MatchesWeekday(date time.Time) bool {
	return r.Weekday == WeekdayFromTime(date)
}

// AbsoluteInterval converts the rule's wall-clock shift on a local date to
// an absolute interval.
func (r *WorkingHoursRule) AbsoluteInterval(date time.Time, loc *time.Location) TimeInterval {
	return TimeInterval{
		Start: r.StartTime.At(date, loc),
		End:   r.EndTime.At(date, loc),
	}
}

// WeekdayFromTime maps time.Weekday (Sunday=0) to the 0=Monday convention.
func WeekdayFromTime(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TimeOffType categorizes an absence
type TimeOffType string

const (
	TimeOffVacation TimeOffType = "vacation"
	TimeOffSick     TimeOffType = "sick"
	TimeOffTraining TimeOffType = "training"
	TimeOffOther    TimeOffType = "other"
)

// TimeOff is an absolute-time absence for one mechanic. It blocks
// scheduling as a hard interval, independent of buffers.
type TimeOff struct {
	ID         int64
	MechanicID int64
	StartAt    time.Time
	EndAt      time.Time
	Type       TimeOffType
	Reason     *string
}

// Interval returns the absence window.
func (t *TimeOff) Interval() TimeInterval {
	return TimeInterval{Start: t.StartAt, End: t.EndAt}
}
