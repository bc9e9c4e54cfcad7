package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/calendar"
	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
	"github.com/autonexo/ANX-SchedulingService/pkg/types"
)

func utc(d, hh, mm int) time.Time {
	return time.Date(2026, 3, d, hh, mm, 0, 0, time.UTC)
}

func iv(d, sh, sm, eh, em int) domain.TimeInterval {
	return domain.TimeInterval{Start: utc(d, sh, sm), End: utc(d, eh, em)}
}

func mustTS(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func newDetector() *Detector {
	return NewDetector(calendar.NewBuilder(time.UTC, nil))
}

func TestBayIsFree_BufferExtendsConflict(t *testing.T) {
	d := newDetector()

	// existing booking 10:00-11:00 with 15 min buffer after
	occ := calendar.BayOccupancy{
		Bookings: []domain.Booking{{
			StartAt:        utc(2, 10, 0),
			EndAt:          utc(2, 11, 0),
			BufferAfterMin: 15,
			Status:         domain.StatusBooked,
		}},
	}

	// 11:00-11:10 collides with the effective interval ending 11:15
	assert.False(t, d.BayIsFree(occ, iv(2, 11, 0, 11, 10)))
	assert.True(t, d.BayIsFree(occ, iv(2, 11, 15, 12, 0)))
}

func TestBayIsFree_ClosureBlocks(t *testing.T) {
	d := newDetector()

	occ := calendar.BayOccupancy{
		Closures: []domain.BayClosure{{StartAt: utc(2, 12, 0), EndAt: utc(2, 14, 0)}},
	}

	assert.False(t, d.BayIsFree(occ, iv(2, 13, 0, 13, 30)))
	assert.True(t, d.BayIsFree(occ, iv(2, 14, 0, 15, 0)))
}

func mondayShift(t *testing.T) []domain.WorkingHoursRule {
	t.Helper()
	return []domain.WorkingHoursRule{{
		MechanicID: 1,
		Weekday:    0,
		StartTime:  mustTS(t, "08:00"),
		EndTime:    mustTS(t, "17:00"),
	}}
}

func TestMechanicIsFree_WithinWorkingHours(t *testing.T) {
	d := newDetector()
	s := calendar.MechanicSchedule{Rules: mondayShift(t)}

	// Monday 2026-03-02, 09:00-10:00 fits the 08:00-17:00 shift
	assert.True(t, d.MechanicIsFree(s, iv(2, 9, 0, 10, 0)))

	// 16:30-17:30 leaks past the shift end
	assert.False(t, d.MechanicIsFree(s, iv(2, 16, 30, 17, 30)))
}

func TestMechanicIsFree_RequiresSingleSegmentCover(t *testing.T) {
	d := newDetector()

	// time off splits the shift; an interval spanning the split is rejected
	// even though both halves are individually free
	s := calendar.MechanicSchedule{
		Rules: mondayShift(t),
		TimeOff: []domain.TimeOff{{
			StartAt: utc(2, 12, 0),
			EndAt:   utc(2, 12, 30),
			Type:    domain.TimeOffOther,
		}},
	}

	assert.False(t, d.MechanicIsFree(s, iv(2, 11, 0, 13, 0)))
	assert.True(t, d.MechanicIsFree(s, iv(2, 9, 0, 12, 0)))
}

func TestMechanicReasons(t *testing.T) {
	d := newDetector()

	tests := []struct {
		name     string
		schedule calendar.MechanicSchedule
		interval domain.TimeInterval
		want     []string
	}{
		{
			name:     "outside working hours",
			schedule: calendar.MechanicSchedule{Rules: mondayShift(t)},
			interval: iv(2, 18, 0, 19, 0),
			want:     []string{domain.ReasonOutsideWorkingHours},
		},
		{
			name: "time off",
			schedule: calendar.MechanicSchedule{
				Rules: mondayShift(t),
				TimeOff: []domain.TimeOff{{
					StartAt: utc(2, 9, 0),
					EndAt:   utc(2, 11, 0),
					Type:    domain.TimeOffSick,
				}},
			},
			interval: iv(2, 10, 0, 10, 30),
			want:     []string{domain.ReasonTimeOff},
		},
		{
			name: "busy with buffer",
			schedule: calendar.MechanicSchedule{
				Rules: mondayShift(t),
				Bookings: []domain.Booking{{
					StartAt:        utc(2, 9, 0),
					EndAt:          utc(2, 10, 0),
					BufferAfterMin: 30,
					Status:         domain.StatusBooked,
				}},
			},
			interval: iv(2, 10, 15, 11, 0),
			want:     []string{domain.ReasonBusyWithBuffer},
		},
		{
			name:     "free",
			schedule: calendar.MechanicSchedule{Rules: mondayShift(t)},
			interval: iv(2, 9, 0, 10, 0),
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.MechanicReasons(tt.schedule, tt.interval))
		})
	}
}

func TestMechanicReasons_Idempotent(t *testing.T) {
	d := newDetector()
	s := calendar.MechanicSchedule{Rules: mondayShift(t)}
	interval := iv(2, 9, 0, 10, 0)

	first := d.MechanicIsFree(s, interval)
	second := d.MechanicIsFree(s, interval)
	assert.Equal(t, first, second)
}

func TestVehicleCompatible(t *testing.T) {
	d := newDetector()
	bay := &domain.Bay{
		SupportedVehicleClasses: []domain.VehicleClass{domain.VehicleClassSedan},
		MaxWeightKG:             ptr.Ptr(2000),
	}

	assert.True(t, d.VehicleCompatible(bay, &domain.VehicleProfile{VehicleClass: domain.VehicleClassSedan}))
	assert.False(t, d.VehicleCompatible(bay, &domain.VehicleProfile{VehicleClass: domain.VehicleClassVan}))
	assert.True(t, d.VehicleCompatible(bay, nil))
}
