package domain

import (
	"sort"
	"time"
)

// TimeInterval is a half-open interval [Start, End) in absolute time.
// All intervals are kept in UTC internally; conversion to workshop-local
// wall clock happens only at the calendar boundary.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether the interval has positive length.
func (i TimeInterval) IsValid() bool {
	return i.End.After(i.Start)
}

// Duration returns the interval length.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching intervals (a.End == b.Start) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully within i.
func (i TimeInterval) Contains(other TimeInterval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Clip bounds i to the given window. The second return is false when
// nothing remains.
func (i TimeInterval) Clip(bounds TimeInterval) (TimeInterval, bool) {
	out := i
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if !out.IsValid() {
		return TimeInterval{}, false
	}
	return out, true
}

// BufferedInterval is a TimeInterval expanded by setup and teardown buffers
// for conflict purposes.
type BufferedInterval struct {
	TimeInterval
	BufferBefore time.Duration
	BufferAfter  time.Duration
}

// Effective returns the interval expanded by its buffers. Every overlap test
// involving a booking runs against the effective interval.
func (b BufferedInterval) Effective() TimeInterval {
	return TimeInterval{
		Start: b.Start.Add(-b.BufferBefore),
		End:   b.End.Add(b.BufferAfter),
	}
}

// MergeSegments unions a set of intervals into sorted, non-overlapping
// segments. Adjacent segments are coalesced. Invalid segments are dropped.
func MergeSegments(segments []TimeInterval) []TimeInterval {
	valid := make([]TimeInterval, 0, len(segments))
	for _, s := range segments {
		if s.IsValid() {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Start.Before(valid[j].Start) })

	out := []TimeInterval{valid[0]}
	for _, s := range valid[1:] {
		last := &out[len(out)-1]
		if !s.Start.After(last.End) {
			if s.End.After(last.End) {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// SubtractSegments cuts the blocking intervals out of the base segments and
// returns the free remainder. Base segments must be sorted and
// non-overlapping; blocks may arrive in any order. Zero-length remainders
// are dropped.
func SubtractSegments(base []TimeInterval, blocks []TimeInterval) []TimeInterval {
	if len(blocks) == 0 {
		out := make([]TimeInterval, 0, len(base))
		for _, b := range base {
			if b.IsValid() {
				out = append(out, b)
			}
		}
		return out
	}

	sorted := make([]TimeInterval, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var out []TimeInterval
	for _, seg := range base {
		if !seg.IsValid() {
			continue
		}
		cursor := seg.Start
		for _, blk := range sorted {
			if !blk.End.After(cursor) {
				continue
			}
			if !blk.Start.Before(seg.End) {
				break
			}
			if blk.Start.After(cursor) {
				out = append(out, TimeInterval{Start: cursor, End: minTime(blk.Start, seg.End)})
			}
			if blk.End.After(cursor) {
				cursor = blk.End
			}
			if !cursor.Before(seg.End) {
				break
			}
		}
		if cursor.Before(seg.End) {
			out = append(out, TimeInterval{Start: cursor, End: seg.End})
		}
	}
	return out
}

// IntersectSegments intersects two sorted, non-overlapping segment lists
// with a two-pointer sweep. Used to combine bay-free and mechanic-free
// calendars.
func IntersectSegments(a, b []TimeInterval) []TimeInterval {
	var out []TimeInterval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := maxTime(a[i].Start, b[j].Start)
		end := minTime(a[i].End, b[j].End)
		if start.Before(end) {
			out = append(out, TimeInterval{Start: start, End: end})
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
