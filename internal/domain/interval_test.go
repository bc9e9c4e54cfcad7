package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func iv(startHour, startMin, endHour, endMin int) TimeInterval {
	return TimeInterval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeInterval
		want bool
	}{
		{"disjoint", iv(9, 0, 10, 0), iv(11, 0, 12, 0), false},
		{"touching does not overlap", iv(9, 0, 10, 0), iv(10, 0, 11, 0), false},
		{"partial overlap", iv(9, 0, 10, 30), iv(10, 0, 11, 0), true},
		{"containment", iv(9, 0, 12, 0), iv(10, 0, 11, 0), true},
		{"identical", iv(9, 0, 10, 0), iv(9, 0, 10, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// symmetry
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestOverlaps_SelfOverlap(t *testing.T) {
	a := iv(9, 0, 10, 0)
	assert.True(t, a.Overlaps(a))

	empty := TimeInterval{Start: at(9, 0), End: at(9, 0)}
	assert.False(t, empty.Overlaps(empty))
}

func TestBufferedInterval_Effective(t *testing.T) {
	b := BufferedInterval{
		TimeInterval: iv(10, 0, 11, 0),
		BufferBefore: 10 * time.Minute,
		BufferAfter:  15 * time.Minute,
	}

	eff := b.Effective()
	assert.Equal(t, at(9, 50), eff.Start)
	assert.Equal(t, at(11, 15), eff.End)
}

func TestBufferedInterval_EffectiveNoBuffers(t *testing.T) {
	b := BufferedInterval{TimeInterval: iv(10, 0, 11, 0)}
	assert.Equal(t, b.TimeInterval, b.Effective())
}

func TestMergeSegments(t *testing.T) {
	got := MergeSegments([]TimeInterval{
		iv(13, 0, 14, 0),
		iv(9, 0, 10, 0),
		iv(9, 30, 11, 0),
		iv(11, 0, 12, 0), // adjacent, coalesced
	})

	require.Len(t, got, 2)
	assert.Equal(t, iv(9, 0, 12, 0), got[0])
	assert.Equal(t, iv(13, 0, 14, 0), got[1])
}

func TestMergeSegments_DropsInvalid(t *testing.T) {
	got := MergeSegments([]TimeInterval{
		{Start: at(10, 0), End: at(10, 0)},
		{Start: at(11, 0), End: at(10, 0)},
	})
	assert.Empty(t, got)
}

func TestSubtractSegments(t *testing.T) {
	base := []TimeInterval{iv(8, 0, 17, 0)}
	blocks := []TimeInterval{
		iv(12, 0, 13, 0),
		iv(9, 0, 9, 30),
	}

	got := SubtractSegments(base, blocks)

	require.Len(t, got, 3)
	assert.Equal(t, iv(8, 0, 9, 0), got[0])
	assert.Equal(t, iv(9, 30, 12, 0), got[1])
	assert.Equal(t, iv(13, 0, 17, 0), got[2])
}

func TestSubtractSegments_NoZeroLengthOutput(t *testing.T) {
	base := []TimeInterval{iv(8, 0, 17, 0)}
	blocks := []TimeInterval{
		iv(8, 0, 9, 0),   // flush with base start
		iv(16, 0, 17, 0), // flush with base end
		iv(9, 0, 10, 0),  // adjacent to first block
	}

	got := SubtractSegments(base, blocks)

	require.Len(t, got, 1)
	assert.Equal(t, iv(10, 0, 16, 0), got[0])
	for _, seg := range got {
		assert.True(t, seg.End.After(seg.Start))
	}
}

func TestSubtractSegments_BlockSpansSegmentBoundary(t *testing.T) {
	base := []TimeInterval{iv(8, 0, 12, 0), iv(13, 0, 17, 0)}
	blocks := []TimeInterval{iv(11, 0, 14, 0)}

	got := SubtractSegments(base, blocks)

	require.Len(t, got, 2)
	assert.Equal(t, iv(8, 0, 11, 0), got[0])
	assert.Equal(t, iv(14, 0, 17, 0), got[1])
}

func TestSubtractSegments_PartitionProperty(t *testing.T) {
	// Free remainder plus clipped blocks must cover the base exactly.
	base := []TimeInterval{iv(8, 0, 17, 0)}
	blocks := []TimeInterval{iv(7, 0, 9, 0), iv(12, 0, 13, 0), iv(16, 30, 18, 0)}

	free := SubtractSegments(base, blocks)

	var clipped []TimeInterval
	for _, b := range blocks {
		if c, ok := b.Clip(base[0]); ok {
			clipped = append(clipped, c)
		}
	}
	merged := MergeSegments(append(free, clipped...))

	require.Len(t, merged, 1)
	assert.Equal(t, base[0], merged[0])
}

func TestIntersectSegments(t *testing.T) {
	a := []TimeInterval{iv(8, 0, 12, 0), iv(13, 0, 17, 0)}
	b := []TimeInterval{iv(10, 0, 14, 0), iv(16, 0, 18, 0)}

	got := IntersectSegments(a, b)

	require.Len(t, got, 3)
	assert.Equal(t, iv(10, 0, 12, 0), got[0])
	assert.Equal(t, iv(13, 0, 14, 0), got[1])
	assert.Equal(t, iv(16, 0, 17, 0), got[2])
}

func TestIntersectSegments_Commutative(t *testing.T) {
	a := []TimeInterval{iv(8, 0, 12, 0), iv(13, 0, 17, 0)}
	b := []TimeInterval{iv(9, 0, 9, 30), iv(11, 0, 15, 0)}

	assert.Equal(t, IntersectSegments(a, b), IntersectSegments(b, a))
}

func TestIntersectSegments_Associative(t *testing.T) {
	a := []TimeInterval{iv(8, 0, 17, 0)}
	b := []TimeInterval{iv(9, 0, 12, 0), iv(14, 0, 16, 0)}
	c := []TimeInterval{iv(10, 0, 15, 0)}

	left := IntersectSegments(IntersectSegments(a, b), c)
	right := IntersectSegments(a, IntersectSegments(b, c))
	assert.Equal(t, left, right)
}

func TestIntersectSegments_TouchingProducesNothing(t *testing.T) {
	a := []TimeInterval{iv(8, 0, 10, 0)}
	b := []TimeInterval{iv(10, 0, 12, 0)}
	assert.Empty(t, IntersectSegments(a, b))
}

func TestClip(t *testing.T) {
	bounds := iv(9, 0, 17, 0)

	clipped, ok := iv(8, 0, 10, 0).Clip(bounds)
	require.True(t, ok)
	assert.Equal(t, iv(9, 0, 10, 0), clipped)

	_, ok = iv(7, 0, 8, 0).Clip(bounds)
	assert.False(t, ok)

	_, ok = iv(7, 0, 9, 0).Clip(bounds)
	assert.False(t, ok)
}
