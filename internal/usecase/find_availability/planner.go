package find_availability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/assign"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/calendar"
	"github.com/autonexo/ANX-SchedulingService/internal/scheduling/conflict"
)

// planSnapshot is the read snapshot one search plans against. It is loaded
// once per request, so the forward scan never touches storage.
type planSnapshot struct {
	workshopID int64
	bays       []domain.Bay // sorted by id, vehicle-compatible only
	occupancy  map[int64]calendar.BayOccupancy
	mechanics  []domain.Mechanic
	schedules  map[int64]calendar.MechanicSchedule
}

// planParams are the resolved knobs of one search.
type planParams struct {
	duration             time.Duration
	window               domain.TimeInterval // rounded scan start .. latest end
	stepMin              int
	strategy             assign.Strategy
	preferredMechanicID  *int64
	maxProposals         int
	maxCandidatesPerSlot int
	returnCandidates     bool
	allowFragmented      bool
}

// planner runs the forward scan over a snapshot. A proposal is never emitted
// without full staff cover.
type planner struct {
	builder  *calendar.Builder
	detector *conflict.Detector
	newToken func() string
}

// pairKey identifies one (bay, mechanic) assignment pair within a response.
type pairKey struct {
	bayID      int64
	mechanicID int64
}

// emittedIndex records the intervals already proposed per pair. Two
// proposals for the same pair never overlap within one response.
type emittedIndex map[pairKey][]domain.TimeInterval

func (e emittedIndex) conflicts(bayID, mechanicID int64, parts []domain.ProposalPart) bool {
	for _, iv := range e[pairKey{bayID: bayID, mechanicID: mechanicID}] {
		for _, part := range parts {
			if iv.Overlaps(domain.TimeInterval{Start: part.StartAt, End: part.EndAt}) {
				return true
			}
		}
	}
	return false
}

func (e emittedIndex) record(bayID, mechanicID int64, parts []domain.ProposalPart) {
	k := pairKey{bayID: bayID, mechanicID: mechanicID}
	for _, part := range parts {
		e[k] = append(e[k], domain.TimeInterval{Start: part.StartAt, End: part.EndAt})
	}
}

type scoredMechanic struct {
	mechanicID int64
	score      int
	reasons    []string
}

func (p *planner) plan(snap planSnapshot, params planParams) []domain.AvailabilityProposal {
	proposals := make([]domain.AvailabilityProposal, 0, params.maxProposals)
	seen := make(emittedIndex)

	step := time.Duration(params.stepMin) * time.Minute
	current := params.window.Start

	for !current.Add(params.duration).After(params.window.End) && len(proposals) < params.maxProposals {
		slot := domain.TimeInterval{Start: current, End: current.Add(params.duration)}

		// Coarse prefilter: jump to the next instant where some shift hosts
		// the duration and some bay is structurally free.
		if !p.anyMechanicCovers(snap, slot) || !p.anyBayFree(snap, slot) {
			next, ok := p.nextCoverStart(snap, params, current)
			if !ok {
				break
			}
			current = next
			slot = domain.TimeInterval{Start: current, End: current.Add(params.duration)}
		}

		slotSeed := assign.SlotSeed(current, snap.workshopID)

		coverers := p.coveringMechanics(snap, slot)
		if len(coverers) == 0 {
			next, ok := p.nextCoverStart(snap, params, p.builder.RoundUpLocal(current.Add(step), params.stepMin))
			if !ok {
				break
			}
			current = next
			continue
		}

		// Bays are tried in slot-seeded order so equivalent bays share the
		// load across slots.
		bays := assign.OrderBays(snap.bays, slotSeed)
		for i := range bays {
			bay := &bays[i]

			if p.tryContiguous(snap, params, bay, slot, slotSeed, coverers, seen, &proposals) {
				break
			}
			if params.allowFragmented && p.tryFragmented(snap, params, bay, current, slotSeed, seen, &proposals) {
				break
			}
		}

		current = p.builder.RoundUpLocal(current.Add(step), params.stepMin)
	}

	return proposals
}

// tryContiguous emits one proposal per qualifying mechanic for a single
// uninterrupted slot on the bay. Disqualified mechanics are reported with
// their reason tags.
func (p *planner) tryContiguous(
	snap planSnapshot,
	params planParams,
	bay *domain.Bay,
	slot domain.TimeInterval,
	slotSeed int64,
	coverers []domain.Mechanic,
	seen emittedIndex,
	proposals *[]domain.AvailabilityProposal,
) bool {
	if !p.detector.BayIsFree(snap.occupancy[bay.ID], slot) {
		return false
	}

	ordered := assign.OrderMechanics(coverers, params.strategy, slotSeed^bay.ID, p.loadFunc(snap, slot))

	var eligible []scoredMechanic
	var disqualified []domain.CandidateDiagnostic
	for _, m := range ordered {
		reasons := p.detector.MechanicReasons(snap.schedules[m.ID], slot)
		if len(reasons) > 0 {
			disqualified = append(disqualified, domain.CandidateDiagnostic{MechanicID: m.ID, Reasons: reasons})
			continue
		}
		score, why := assign.Score(p.load(snap, m.ID, slot), m.ID, params.preferredMechanicID)
		eligible = append(eligible, scoredMechanic{mechanicID: m.ID, score: score, reasons: why})
	}
	if len(eligible) == 0 {
		return false
	}

	// Shuffle so repeated searches do not pin the same mechanic first.
	eligible = assign.Shuffle(eligible, assign.EligibleSeed(slotSeed, bay.ID))

	limit := params.maxCandidatesPerSlot
	if limit < 1 {
		limit = 1
	}

	added := false
	for i, c := range eligible {
		if i >= limit {
			break
		}
		parts := []domain.ProposalPart{{StartAt: slot.Start, EndAt: slot.End}}
		if seen.conflicts(bay.ID, c.mechanicID, parts) {
			continue
		}
		seen.record(bay.ID, c.mechanicID, parts)

		prop := domain.AvailabilityProposal{
			BayID:        bay.ID,
			MechanicID:   c.mechanicID,
			Parts:        parts,
			Score:        c.score,
			Note:         bay.Name,
			Disqualified: disqualified,
		}
		if params.returnCandidates {
			prop.Candidates = []domain.CandidateDiagnostic{{MechanicID: c.mechanicID, Score: c.score, Reasons: c.reasons}}
		}
		*proposals = append(*proposals, prop)
		added = true
		if len(*proposals) >= params.maxProposals {
			break
		}
	}
	return added
}

// tryFragmented splits the job over the intersection of bay-free and
// mechanic-free segments within the fragment day ceiling. The proposal
// carries a fresh chain token so the parts can be booked as one chain.
func (p *planner) tryFragmented(
	snap planSnapshot,
	params planParams,
	bay *domain.Bay,
	current time.Time,
	slotSeed int64,
	seen emittedIndex,
	proposals *[]domain.AvailabilityProposal,
) bool {
	endLimit := current.Add(domain.MaxFragmentDays * 24 * time.Hour)
	if endLimit.After(params.window.End) {
		endLimit = params.window.End
	}
	span := domain.TimeInterval{Start: current, End: endLimit}

	bayFree := p.builder.BayFreeSegments(snap.occupancy[bay.ID], span)
	if len(bayFree) == 0 {
		return false
	}

	minPart := domain.MinFragmentPartMinutes * time.Minute
	ordered := assign.OrderMechanics(snap.mechanics, params.strategy, (slotSeed*31)^bay.ID, p.loadFunc(snap, span))

	type coverage struct {
		mechanicID int64
		parts      []domain.ProposalPart
	}
	var covering []coverage
	disqReasons := make(map[int64][]string)
	var disqOrder []int64
	addDisq := func(id int64, reason string) {
		if _, ok := disqReasons[id]; !ok {
			disqOrder = append(disqOrder, id)
		}
		disqReasons[id] = append(disqReasons[id], reason)
	}

	for _, m := range ordered {
		mechanicFree := p.builder.MechanicFreeSegments(snap.schedules[m.ID], span)
		if len(mechanicFree) == 0 {
			addDisq(m.ID, domain.ReasonNotAvailable)
			continue
		}

		var candidates []domain.TimeInterval
		for _, seg := range domain.IntersectSegments(bayFree, mechanicFree) {
			if seg.Duration() >= minPart {
				candidates = append(candidates, seg)
			}
		}
		if len(candidates) == 0 {
			addDisq(m.ID, domain.ReasonTooShortPart)
			continue
		}

		// Greedy fill up to the duration, every part at least the minimum.
		remaining := params.duration
		var parts []domain.ProposalPart
		for _, seg := range candidates {
			if remaining <= 0 || len(parts) >= domain.MaxFragmentParts {
				break
			}
			take := seg.Duration()
			if take > remaining {
				take = remaining
			}
			if take >= minPart {
				parts = append(parts, domain.ProposalPart{StartAt: seg.Start, EndAt: seg.Start.Add(take)})
				remaining -= take
			}
		}
		if remaining <= 0 && len(parts) >= 1 {
			covering = append(covering, coverage{mechanicID: m.ID, parts: parts})
		} else {
			addDisq(m.ID, domain.ReasonInsufficientCover)
		}
	}
	if len(covering) == 0 {
		return false
	}

	firstStart := covering[0].parts[0].StartAt
	lastEnd := covering[0].parts[len(covering[0].parts)-1].EndAt
	for _, c := range covering[1:] {
		if c.parts[0].StartAt.Before(firstStart) {
			firstStart = c.parts[0].StartAt
		}
		if e := c.parts[len(c.parts)-1].EndAt; e.After(lastEnd) {
			lastEnd = e
		}
	}

	window := domain.TimeInterval{Start: firstStart, End: lastEnd}
	ranked := make([]scoredMechanic, 0, len(covering))
	for _, c := range covering {
		score, why := assign.Score(p.load(snap, c.mechanicID, window), c.mechanicID, params.preferredMechanicID)
		ranked = append(ranked, scoredMechanic{mechanicID: c.mechanicID, score: score, reasons: why})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].mechanicID < ranked[j].mechanicID
	})

	// Parts shown are the first covering mechanic's in strategy order; the
	// recommended mechanic is the best-scored one.
	parts := covering[0].parts
	if seen.conflicts(bay.ID, ranked[0].mechanicID, parts) {
		return false
	}
	seen.record(bay.ID, ranked[0].mechanicID, parts)
	token := p.newToken()
	prop := domain.AvailabilityProposal{
		BayID:               bay.ID,
		MechanicID:          ranked[0].mechanicID,
		Parts:               parts,
		Score:               ranked[0].score,
		Note:                bay.Name + formatGaps(parts, p.builder.Location()),
		SuggestedChainToken: &token,
	}
	if params.returnCandidates {
		limit := params.maxCandidatesPerSlot
		if limit < 1 {
			limit = 1
		}
		for i, rc := range ranked {
			if i >= limit {
				break
			}
			prop.Candidates = append(prop.Candidates, domain.CandidateDiagnostic{
				MechanicID: rc.mechanicID,
				Score:      rc.score,
				Reasons:    rc.reasons,
			})
		}
	}
	for _, id := range disqOrder {
		prop.Disqualified = append(prop.Disqualified, domain.CandidateDiagnostic{
			MechanicID: id,
			Reasons:    sortedUnique(disqReasons[id]),
		})
	}

	*proposals = append(*proposals, prop)
	return true
}

// nextCoverStart finds the next slot start hosted by at least one shift
// with at least one structurally free bay.
func (p *planner) nextCoverStart(snap planSnapshot, params planParams, from time.Time) (time.Time, bool) {
	step := time.Duration(params.stepMin) * time.Minute
	t := from
	for !t.Add(params.duration).After(params.window.End) {
		candidate, ok := p.nextShiftCover(snap, params, t)
		if !ok {
			return time.Time{}, false
		}
		t = candidate
		slot := domain.TimeInterval{Start: t, End: t.Add(params.duration)}
		if p.anyBayFree(snap, slot) {
			return t, true
		}
		t = p.builder.RoundUpLocal(t.Add(step), params.stepMin)
	}
	return time.Time{}, false
}

// nextShiftCover finds the earliest rounded start at or after from whose
// whole duration fits inside some mechanic's merged shift. Local days
// without any hosting shift are skipped whole.
func (p *planner) nextShiftCover(snap planSnapshot, params planParams, from time.Time) (time.Time, bool) {
	cursor := from
	for !cursor.Add(params.duration).After(params.window.End) {
		day := p.localDayWindow(cursor)

		var best time.Time
		found := false
		for _, m := range snap.mechanics {
			for _, win := range p.builder.WorkingSegments(snap.schedules[m.ID].Rules, day) {
				start := win.Start
				if cursor.After(start) {
					start = cursor
				}
				candidate := p.builder.RoundUpLocal(start, params.stepMin)
				end := candidate.Add(params.duration)
				if end.After(win.End) || end.After(params.window.End) {
					continue
				}
				if !found || candidate.Before(best) {
					best = candidate
					found = true
				}
			}
		}
		if found {
			return best, true
		}
		cursor = p.builder.NextLocalMidnight(cursor)
	}
	return time.Time{}, false
}

func (p *planner) localDayWindow(t time.Time) domain.TimeInterval {
	loc := p.builder.Location()
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return domain.TimeInterval{Start: start.UTC(), End: p.builder.NextLocalMidnight(t)}
}

// coveringMechanics returns the mechanics whose merged shift hosts the
// whole slot in a single window.
func (p *planner) coveringMechanics(snap planSnapshot, slot domain.TimeInterval) []domain.Mechanic {
	var out []domain.Mechanic
	for _, m := range snap.mechanics {
		if p.shiftCovers(snap.schedules[m.ID].Rules, slot) {
			out = append(out, m)
		}
	}
	return out
}

func (p *planner) shiftCovers(rules []domain.WorkingHoursRule, slot domain.TimeInterval) bool {
	for _, seg := range p.builder.WorkingSegments(rules, slot) {
		if seg.Contains(slot) {
			return true
		}
	}
	return false
}

func (p *planner) anyMechanicCovers(snap planSnapshot, slot domain.TimeInterval) bool {
	for _, m := range snap.mechanics {
		if p.shiftCovers(snap.schedules[m.ID].Rules, slot) {
			return true
		}
	}
	return false
}

func (p *planner) anyBayFree(snap planSnapshot, slot domain.TimeInterval) bool {
	for i := range snap.bays {
		if p.detector.BayIsFree(snap.occupancy[snap.bays[i].ID], slot) {
			return true
		}
	}
	return false
}

// load counts the mechanic's bookings overlapping the window, raw intervals
// without buffers.
func (p *planner) load(snap planSnapshot, mechanicID int64, window domain.TimeInterval) int {
	count := 0
	s := snap.schedules[mechanicID]
	for i := range s.Bookings {
		if s.Bookings[i].Interval().Overlaps(window) {
			count++
		}
	}
	return count
}

func (p *planner) loadFunc(snap planSnapshot, window domain.TimeInterval) func(int64) int {
	return func(mechanicID int64) int {
		return p.load(snap, mechanicID, window)
	}
}

func formatGaps(parts []domain.ProposalPart, loc *time.Location) string {
	if len(parts) < 2 {
		return ""
	}
	gaps := make([]string, 0, len(parts)-1)
	for i := 0; i < len(parts)-1; i++ {
		gaps = append(gaps, fmt.Sprintf("%s-%s",
			parts[i].EndAt.In(loc).Format(domain.TimeFormat),
			parts[i+1].StartAt.In(loc).Format(domain.TimeFormat)))
	}
	return fmt.Sprintf(" (gaps: %s)", strings.Join(gaps, ", "))
}

func sortedUnique(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
