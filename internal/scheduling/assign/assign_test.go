package assign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/pkg/ptr"
)

func mechanics(ids ...int64) []domain.Mechanic {
	out := make([]domain.Mechanic, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Mechanic{ID: id})
	}
	return out
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyRandom, s)

	s, err = ParseStrategy("least_busy")
	require.NoError(t, err)
	assert.Equal(t, StrategyLeastBusy, s)

	_, err = ParseStrategy("alphabetical")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSlotSeed_Deterministic(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, SlotSeed(start, 7), SlotSeed(start, 7))
	assert.NotEqual(t, SlotSeed(start, 7), SlotSeed(start.Add(15*time.Minute), 7))
	assert.NotEqual(t, SlotSeed(start, 7), SlotSeed(start, 8))
}

func TestOrderMechanics_RandomReproducible(t *testing.T) {
	pool := mechanics(1, 2, 3, 4, 5)
	noLoad := func(int64) int { return 0 }

	a := OrderMechanics(pool, StrategyRandom, 42, noLoad)
	b := OrderMechanics(pool, StrategyRandom, 42, noLoad)
	assert.Equal(t, a, b)

	// input left untouched
	assert.Equal(t, mechanics(1, 2, 3, 4, 5), pool)

	// same pool, every mechanic still present
	seen := map[int64]bool{}
	for _, m := range a {
		seen[m.ID] = true
	}
	assert.Len(t, seen, 5)
}

func TestOrderMechanics_RoundRobinRotates(t *testing.T) {
	pool := mechanics(1, 2, 3)
	noLoad := func(int64) int { return 0 }

	got := OrderMechanics(pool, StrategyRoundRobin, 4, noLoad)
	assert.Equal(t, mechanics(2, 3, 1), got)

	// seed multiple of length keeps original order
	got = OrderMechanics(pool, StrategyRoundRobin, 3, noLoad)
	assert.Equal(t, mechanics(1, 2, 3), got)

	// negative seeds rotate too, never panic
	got = OrderMechanics(pool, StrategyRoundRobin, -1, noLoad)
	require.Len(t, got, 3)
}

func TestOrderMechanics_LeastBusy(t *testing.T) {
	pool := mechanics(3, 1, 2)
	loads := map[int64]int{1: 2, 2: 0, 3: 0}

	got := OrderMechanics(pool, StrategyLeastBusy, 99, func(id int64) int { return loads[id] })

	// ascending load, ties broken by id
	assert.Equal(t, mechanics(2, 3, 1), got)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		load       int
		mechanicID int64
		preferred  *int64
		wantScore  int
		wantReason []string
	}{
		{"idle", 0, 1, nil, 80, []string{"least_busy:0"}},
		{"one booking", 1, 1, nil, 70, []string{"least_busy:1"}},
		{"two bookings", 2, 1, nil, 60, []string{"least_busy:2"}},
		{"busy", 3, 1, nil, 50, []string{"busy:3"}},
		{"idle and preferred", 0, 1, ptr.Ptr[int64](1), 90, []string{"least_busy:0", "preference"}},
		{"preference misses other id", 0, 2, ptr.Ptr[int64](1), 80, []string{"least_busy:0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := Score(tt.load, tt.mechanicID, tt.preferred)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantReason, reasons)
		})
	}
}

func TestScore_Clamped(t *testing.T) {
	score, _ := Score(0, 1, ptr.Ptr[int64](1))
	assert.LessOrEqual(t, score, 100)
	assert.GreaterOrEqual(t, score, 0)
}

func TestEligibleSeed_DecorrelatesFromSlotSeed(t *testing.T) {
	assert.NotEqual(t, EligibleSeed(42, 1), int64(42)^int64(1))
}

func TestOrderBays_Deterministic(t *testing.T) {
	bays := []domain.Bay{{ID: 1}, {ID: 2}, {ID: 3}}
	assert.Equal(t, OrderBays(bays, 7), OrderBays(bays, 7))
}
