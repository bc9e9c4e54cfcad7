// Package assign orders candidate mechanics for a fixed slot and computes
// the explainable score used for ranking. Ordering is deterministic for
// identical inputs: the pseudo-random strategies are seeded from the slot
// itself, so a retried search renders the same order.
package assign

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

// Strategy selects how eligible mechanics are ordered for one slot.
type Strategy string

const (
	StrategyRandom     Strategy = "random"
	StrategyRoundRobin Strategy = "round_robin"
	StrategyLeastBusy  Strategy = "least_busy"
)

// ErrUnknownStrategy is returned for a strategy name outside the known set.
var ErrUnknownStrategy = fmt.Errorf("assign: unknown strategy")

// ParseStrategy validates a wire-level strategy name. Empty defaults to
// random.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(raw) {
	case "":
		return StrategyRandom, nil
	case StrategyRandom, StrategyRoundRobin, StrategyLeastBusy:
		return Strategy(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}

// SlotSeed derives the deterministic seed for a slot from its absolute
// start and the workshop id.
func SlotSeed(slotStart time.Time, workshopID int64) int64 {
	return slotStart.Unix() ^ workshopID
}

// eligibleSalt decorrelates the eligible-list shuffle from the candidate
// ordering that uses the plain slot seed.
const eligibleSalt = 0xA17C

// EligibleSeed derives the seed for shuffling already-qualified candidates
// of one bay.
func EligibleSeed(slotSeed, bayID int64) int64 {
	return slotSeed ^ bayID ^ eligibleSalt
}

// Shuffle returns a deterministically permuted copy of items.
func Shuffle[T any](items []T, seed int64) []T {
	out := make([]T, len(items))
	copy(out, items)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// OrderMechanics arranges the candidates according to the strategy. load
// reports the mechanic's count of blocking bookings overlapping the window
// and is consulted only by the least-busy strategy.
func OrderMechanics(mechanics []domain.Mechanic, strategy Strategy, seed int64, load func(mechanicID int64) int) []domain.Mechanic {
	out := make([]domain.Mechanic, len(mechanics))
	copy(out, mechanics)
	if len(out) == 0 {
		return out
	}

	switch strategy {
	case StrategyRandom:
		return Shuffle(out, seed)
	case StrategyRoundRobin:
		idx := int(((seed % int64(len(out))) + int64(len(out))) % int64(len(out)))
		return append(out[idx:], out[:idx]...)
	case StrategyLeastBusy:
		sort.SliceStable(out, func(i, j int) bool {
			li, lj := load(out[i].ID), load(out[j].ID)
			if li != lj {
				return li < lj
			}
			return out[i].ID < out[j].ID
		})
		return out
	default:
		return out
	}
}

// OrderBays permutes the bays deterministically for one slot.
func OrderBays(bays []domain.Bay, seed int64) []domain.Bay {
	return Shuffle(bays, seed)
}

// Score rates a mechanic for a window: 50 base, a bonus falling with the
// booking load, a fixed bonus for the caller's preferred mechanic, clamped
// to [0, 100]. The returned reasons mirror the score for diagnostics.
func Score(load int, mechanicID int64, preferredID *int64) (int, []string) {
	var reasons []string
	score := 50

	switch {
	case load <= 0:
		score += 30
		reasons = append(reasons, "least_busy:0")
	case load == 1:
		score += 20
		reasons = append(reasons, "least_busy:1")
	case load == 2:
		score += 10
		reasons = append(reasons, "least_busy:2")
	default:
		reasons = append(reasons, fmt.Sprintf("busy:%d", load))
	}

	if preferredID != nil && mechanicID == *preferredID {
		score += 10
		reasons = append(reasons, "preference")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasons
}
