// Package calendar builds free-segment calendars for mechanics and bays
// from read-only snapshots. All inputs arrive as values, so builders are
// pure and safe to share across concurrent requests.
package calendar

import (
	"fmt"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// Logger is the leveled logger consumed by this package.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ErrRuleCrossesMidnight is returned for shifts whose local end does not
// follow the start on the same day.
var ErrRuleCrossesMidnight = fmt.Errorf("calendar: working-hours rule must not cross local midnight")

// MechanicSchedule is the snapshot a mechanic's calendar is built from.
type MechanicSchedule struct {
	Rules    []domain.WorkingHoursRule
	TimeOff  []domain.TimeOff
	Bookings []domain.Booking
}

// BayOccupancy is the snapshot a bay's calendar is built from.
type BayOccupancy struct {
	Bookings []domain.Booking
	Closures []domain.BayClosure
}

// Builder converts wall-clock schedules to absolute free segments for one
// workshop timezone.
type Builder struct {
	loc      *time.Location
	blocking []domain.BookingStatus
}

// NewBuilder creates a builder for the given location and blocking-status
// filter. An empty filter means every booking status blocks.
func NewBuilder(loc *time.Location, blocking []domain.BookingStatus) *Builder {
	return &Builder{loc: loc, blocking: blocking}
}

// Location returns the workshop timezone the builder converts through.
func (b *Builder) Location() *time.Location {
	return b.loc
}

// BlockingStatuses returns the conflict filter the builder was created with.
func (b *Builder) BlockingStatuses() []domain.BookingStatus {
	return b.blocking
}

// ResolveLocation loads an IANA zone by name. An empty name resolves to the
// default zone; an unknown name falls back to UTC with a logged warning.
func ResolveLocation(name string, log Logger) *time.Location {
	if name == "" {
		name = domain.DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("ResolveLocation - unknown timezone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// ValidateRule rejects malformed working-hour rules before they reach the
// calendar math.
func ValidateRule(r domain.WorkingHoursRule) error {
	if r.Weekday < 0 || r.Weekday > 6 {
		return fmt.Errorf("calendar: weekday must be 0..6, got %d", r.Weekday)
	}
	if err := r.StartTime.Validate(); err != nil {
		return fmt.Errorf("calendar: invalid start time: %w", err)
	}
	if err := r.EndTime.Validate(); err != nil {
		return fmt.Errorf("calendar: invalid end time: %w", err)
	}
	if !r.StartTime.IsBefore(r.EndTime) {
		return ErrRuleCrossesMidnight
	}
	return nil
}

// WorkingSegments returns the merged absolute work windows inside the given
// range. Rules are matched per local day by weekday and validity window.
// Output is sorted, non-overlapping, and clipped to the range.
func (b *Builder) WorkingSegments(rules []domain.WorkingHoursRule, window domain.TimeInterval) []domain.TimeInterval {
	var out []domain.TimeInterval

	for _, day := range b.localDays(window) {
		var dayWins []domain.TimeInterval
		for _, r := range rules {
			if !r.MatchesWeekday(day) || !r.CoversDate(day) {
				continue
			}
			dayWins = append(dayWins, r.AbsoluteInterval(day, b.loc))
		}
		for _, w := range domain.MergeSegments(dayWins) {
			if clipped, ok := w.Clip(window); ok {
				out = append(out, clipped)
			}
		}
	}
	return out
}

// MechanicFreeSegments returns the mechanic's free segments within the
// range: working windows minus time off minus blocking bookings expanded by
// their buffers.
func (b *Builder) MechanicFreeSegments(s MechanicSchedule, window domain.TimeInterval) []domain.TimeInterval {
	working := b.WorkingSegments(s.Rules, window)
	if len(working) == 0 {
		return nil
	}

	var blocks []domain.TimeInterval
	for _, off := range s.TimeOff {
		blocks = append(blocks, off.Interval())
	}
	for i := range s.Bookings {
		bk := &s.Bookings[i]
		if bk.Blocks(b.blocking) {
			blocks = append(blocks, bk.EffectiveInterval())
		}
	}
	return domain.SubtractSegments(working, blocks)
}

// BayFreeSegments returns the bay's free segments: the whole range minus
// blocking bookings (buffered) and closures. Bays have no working-hour
// concept, they start always open.
func (b *Builder) BayFreeSegments(o BayOccupancy, window domain.TimeInterval) []domain.TimeInterval {
	var blocks []domain.TimeInterval
	for i := range o.Bookings {
		bk := &o.Bookings[i]
		if bk.Blocks(b.blocking) {
			blocks = append(blocks, bk.EffectiveInterval())
		}
	}
	for i := range o.Closures {
		blocks = append(blocks, o.Closures[i].Interval())
	}
	return domain.SubtractSegments([]domain.TimeInterval{window}, blocks)
}

// RoundUpLocal rounds t up to the next step boundary in local wall clock
// and returns the result in UTC.
func (b *Builder) RoundUpLocal(t time.Time, stepMin int) time.Time {
	local := t.In(b.loc)
	rem := local.Minute() % stepMin
	rounded := local.Truncate(time.Minute)
	if rem != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
		if rem == 0 {
			rounded = rounded.Add(time.Duration(stepMin) * time.Minute)
		} else {
			rounded = rounded.Add(time.Duration(stepMin-rem) * time.Minute)
		}
	}
	return rounded.UTC()
}

// NextLocalMidnight returns the start of the next local day after t, in UTC.
func (b *Builder) NextLocalMidnight(t time.Time) time.Time {
	local := t.In(b.loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, b.loc)
	return next.UTC()
}

// localDays lists the local midnights of every calendar day the range
// touches.
func (b *Builder) localDays(window domain.TimeInterval) []time.Time {
	var days []time.Time
	start := window.Start.In(b.loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, b.loc)
	for day.Before(window.End.In(b.loc)) {
		days = append(days, day)
		day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, b.loc)
	}
	return days
}
