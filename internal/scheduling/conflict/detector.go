// Package conflict decides whether a proposed interval is admissible for a
// bay or a mechanic. Checks are pure reads over snapshots, so the same
// proposal can be validated twice, once while planning and once right
// before commit, without side effects.
package conflict

import (
	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/calendar"
)

// Detector evaluates occupancy against the calendars built by one Builder,
// which fixes the timezone and the blocking-status filter.
type Detector struct {
	builder *calendar.Builder
}

// NewDetector creates a detector over the given calendar builder.
func NewDetector(builder *calendar.Builder) *Detector {
	return &Detector{builder: builder}
}

// BayIsFree reports whether no blocking booking's effective interval and no
// closure overlaps the proposed interval.
func (d *Detector) BayIsFree(occ calendar.BayOccupancy, interval domain.TimeInterval) bool {
	free := d.builder.BayFreeSegments(occ, interval)
	return containedInOne(free, interval)
}

// MechanicIsFree reports whether the interval lies entirely within a single
// free segment of the mechanic's calendar. Merely avoiding point conflicts
// is not enough; the whole interval must be covered.
func (d *Detector) MechanicIsFree(s calendar.MechanicSchedule, interval domain.TimeInterval) bool {
	free := d.builder.MechanicFreeSegments(s, interval)
	return containedInOne(free, interval)
}

// MechanicReasons explains why a mechanic cannot take the interval, as
// machine-readable tags. An empty result means the mechanic is free.
func (d *Detector) MechanicReasons(s calendar.MechanicSchedule, interval domain.TimeInterval) []string {
	var reasons []string

	working := d.builder.WorkingSegments(s.Rules, interval)
	if !containedInOne(working, interval) {
		reasons = append(reasons, domain.ReasonOutsideWorkingHours)
	}

	for i := range s.TimeOff {
		if s.TimeOff[i].Interval().Overlaps(interval) {
			reasons = append(reasons, domain.ReasonTimeOff)
			break
		}
	}

	for i := range s.Bookings {
		bk := &s.Bookings[i]
		if bk.Blocks(d.blocking()) && bk.EffectiveInterval().Overlaps(interval) {
			reasons = append(reasons, domain.ReasonBusyWithBuffer)
			break
		}
	}

	if len(reasons) == 0 && !d.MechanicIsFree(s, interval) {
		reasons = append(reasons, domain.ReasonNotAvailable)
	}
	return reasons
}

// VehicleCompatible reports whether the vehicle profile fits the bay.
func (d *Detector) VehicleCompatible(bay *domain.Bay, profile *domain.VehicleProfile) bool {
	return bay.FitsProfile(profile)
}

func (d *Detector) blocking() []domain.BookingStatus {
	return d.builder.BlockingStatuses()
}

func containedInOne(segments []domain.TimeInterval, interval domain.TimeInterval) bool {
	if !interval.IsValid() {
		return false
	}
	for _, seg := range segments {
		if seg.Contains(interval) {
			return true
		}
	}
	return false
}
