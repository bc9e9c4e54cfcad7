package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
)

func TestBooking_EffectiveInterval(t *testing.T) {
	b := &Booking{
		StartAt:         at(10, 0),
		EndAt:           at(11, 0),
		BufferBeforeMin: 0,
		BufferAfterMin:  15,
	}

	eff := b.EffectiveInterval()
	assert.Equal(t, at(10, 0), eff.Start)
	assert.Equal(t, at(11, 15), eff.End)

	// effective interval reaches 11:15, so 11:00-11:10 collides
	assert.True(t, eff.Overlaps(iv(11, 0, 11, 10)))
}

func TestBooking_Blocks(t *testing.T) {
	cancelled := &Booking{Status: StatusCancelled}

	// empty filter means every status blocks
	assert.True(t, cancelled.Blocks(nil))

	active := []BookingStatus{StatusBooked, StatusInProgress}
	assert.False(t, cancelled.Blocks(active))
	assert.True(t, (&Booking{Status: StatusBooked}).Blocks(active))
}

func TestBooking_Transitions(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusBooked}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusInProgress}).CanBeCompleted())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusNoShow}).CanBeCompleted())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
}

func TestBooking_IsChainMaster(t *testing.T) {
	token := "chain-1"
	master := &Booking{ChainToken: &token, PriceNetOre: ptr.Ptr[int64](50000)}
	part := &Booking{ChainToken: &token}

	assert.True(t, master.IsChainMaster())
	assert.False(t, part.IsChainMaster())
	assert.False(t, (&Booking{}).IsChainMaster())
}

func TestWeekdayFromTime(t *testing.T) {
	// 2026-03-02 is a Monday
	assert.Equal(t, 0, WeekdayFromTime(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)))
	// 2026-03-08 is a Sunday
	assert.Equal(t, 6, WeekdayFromTime(time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)))
}

func TestWorkingHoursRule_CoversDate(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rule := &WorkingHoursRule{Weekday: 0, ValidFrom: &from, ValidTo: &to}

	assert.True(t, rule.CoversDate(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))
	assert.False(t, rule.CoversDate(time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)))
	assert.False(t, rule.CoversDate(time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)))
	assert.True(t, (&WorkingHoursRule{Weekday: 0}).CoversDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestBay_FitsProfile(t *testing.T) {
	bay := &Bay{
		MaxLengthMM:             ptr.Ptr(5000),
		MaxWeightKG:             ptr.Ptr(2500),
		SupportedVehicleClasses: []VehicleClass{VehicleClassSedan, VehicleClassSUV},
	}

	assert.True(t, bay.FitsProfile(&VehicleProfile{VehicleClass: VehicleClassSedan, LengthMM: ptr.Ptr(4700)}))
	assert.False(t, bay.FitsProfile(&VehicleProfile{VehicleClass: VehicleClassVan}))
	assert.False(t, bay.FitsProfile(&VehicleProfile{VehicleClass: VehicleClassSUV, WeightKG: ptr.Ptr(2600)}))

	// nil profile and empty class set are unconstrained
	assert.True(t, bay.FitsProfile(nil))
	assert.True(t, (&Bay{}).FitsProfile(&VehicleProfile{VehicleClass: VehicleClassLightTruck}))
}
