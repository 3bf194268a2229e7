package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertPartition checks the partition invariant: segments cover
// [0, durationMs] with no gaps and no overlaps.
func assertPartition(t *testing.T, segs []Segment, durationMs int) {
	t.Helper()
	require.NotEmpty(t, segs)
	assert.Equal(t, 0.0, segs[0].StartSec)
	assert.Equal(t, float64(durationMs)/1000.0, segs[len(segs)-1].EndSec)
	for i := 0; i+1 < len(segs); i++ {
		assert.Equal(t, segs[i].EndSec, segs[i+1].StartSec,
			"gap or overlap between segments %d and %d", i, i+1)
		assert.Less(t, segs[i].StartSec, segs[i].EndSec)
	}
}

func countSilence(segs []Segment) int {
	n := 0
	for _, s := range segs {
		if s.IsSilence {
			n++
		}
	}
	return n
}

func TestProcess_TwoBurstScenario(t *testing.T) {
	// 10s waveform, two speech bursts, padding 100, no hold, tolerance 50.
	raw := []Interval{{1000, 2000}, {3000, 4000}}
	opts := Options{PaddingMs: 100, HoldMs: 0, MergeToleranceMs: 50, FPS: 1000}

	segs := Process(raw, 10000, opts)
	require.Len(t, segs, 5)
	assertPartition(t, segs, 10000)

	expected := []Segment{
		{StartSec: 0.0, EndSec: 0.9, IsSilence: true},
		{StartSec: 0.9, EndSec: 2.1, IsSilence: false},
		{StartSec: 2.1, EndSec: 2.9, IsSilence: true},
		{StartSec: 2.9, EndSec: 4.1, IsSilence: false},
		{StartSec: 4.1, EndSec: 10.0, IsSilence: true},
	}
	assert.Equal(t, expected, segs)
}

func TestProcess_MergeUsesPostPadEnds(t *testing.T) {
	// Same bursts with padding 150: the merge test is 2850 <= 2150+50,
	// still false. Tolerance applies to the already-padded end, it is not
	// re-padded.
	raw := []Interval{{1000, 2000}, {3000, 4000}}
	opts := Options{PaddingMs: 150, HoldMs: 0, MergeToleranceMs: 50, FPS: 1000}

	segs := Process(raw, 10000, opts)
	require.Len(t, segs, 5)
	assertPartition(t, segs, 10000)
	assert.Equal(t, 0.85, segs[1].StartSec)
	assert.Equal(t, 2.15, segs[1].EndSec)
	assert.Equal(t, 2.85, segs[3].StartSec)
	assert.Equal(t, 4.15, segs[3].EndSec)
}

func TestProcess_MergesWithinTolerance(t *testing.T) {
	raw := []Interval{{1000, 2000}, {2100, 3000}}
	opts := Options{MergeToleranceMs: 100, FPS: 1000}

	segs := Process(raw, 5000, opts)
	assertPartition(t, segs, 5000)
	// The 100ms gap is swallowed: one speech segment remains.
	require.Len(t, segs, 3)
	assert.False(t, segs[1].IsSilence)
	assert.Equal(t, 1.0, segs[1].StartSec)
	assert.Equal(t, 3.0, segs[1].EndSec)
}

func TestProcess_FrameGapCoalescing(t *testing.T) {
	// Gap of 30ms survives the merge pass (tolerance 10) but is shorter
	// than one frame at 30fps (33ms) and is coalesced away.
	raw := []Interval{{1000, 2000}, {2030, 3000}}
	opts := Options{MergeToleranceMs: 10, FPS: 30}

	segs := Process(raw, 5000, opts)
	assertPartition(t, segs, 5000)
	require.Len(t, segs, 3)
	assert.False(t, segs[1].IsSilence)

	// At a high frame rate the same gap is kept as a silence segment.
	opts.FPS = 1000
	segs = Process(raw, 5000, opts)
	assertPartition(t, segs, 5000)
	require.Len(t, segs, 5)
	assert.True(t, segs[2].IsSilence)
}

func TestProcess_WhollySilent(t *testing.T) {
	segs := Process(nil, 8000, DefaultOptions())
	require.Len(t, segs, 1)
	assert.True(t, segs[0].IsSilence)
	assert.Equal(t, 0.0, segs[0].StartSec)
	assert.Equal(t, 8.0, segs[0].EndSec)
}

func TestProcess_WhollySpeech(t *testing.T) {
	segs := Process([]Interval{{0, 8000}}, 8000, Options{FPS: 30})
	require.Len(t, segs, 1)
	assert.False(t, segs[0].IsSilence)
	assert.Equal(t, 0.0, segs[0].StartSec)
	assert.Equal(t, 8.0, segs[0].EndSec)
}

func TestProcess_BoundaryClamp(t *testing.T) {
	// Padding larger than the whole input degenerates to a single speech
	// segment with no negative timestamps.
	raw := []Interval{{2000, 2500}}
	opts := Options{PaddingMs: 60000, HoldMs: 60000, MergeToleranceMs: 50, FPS: 30}

	segs := Process(raw, 5000, opts)
	require.Len(t, segs, 1)
	assert.False(t, segs[0].IsSilence)
	assert.Equal(t, 0.0, segs[0].StartSec)
	assert.Equal(t, 5.0, segs[0].EndSec)
	assert.Zero(t, countSilence(segs))
}

func TestProcess_EdgeTouchingIntervalDropsBoundarySegment(t *testing.T) {
	// An interval starting at 0 drops the zero-length leading silence
	// segment, so the sequence starts with speech. Inherited positional
	// behavior, kept deliberately.
	segs := Process([]Interval{{0, 1000}}, 10000, Options{FPS: 1000})
	require.Len(t, segs, 2)
	assert.False(t, segs[0].IsSilence)
	assert.True(t, segs[1].IsSilence)
	assertPartition(t, segs, 10000)
}

func TestProcess_MonotonicPadding(t *testing.T) {
	raw := []Interval{{1000, 2000}, {3000, 4000}, {6000, 7000}}
	base := Options{HoldMs: 0, MergeToleranceMs: 50, FPS: 1000}

	prevSilences := -1
	prevSpeech := -1.0
	for _, pad := range []int{0, 50, 100, 200, 400, 800, 1600} {
		opts := base
		opts.PaddingMs = pad
		segs := Process(raw, 10000, opts)
		assertPartition(t, segs, 10000)

		speech := 0.0
		for _, s := range segs {
			if !s.IsSilence {
				speech += s.EndSec - s.StartSec
			}
		}
		if prevSilences >= 0 {
			assert.LessOrEqual(t, countSilence(segs), prevSilences,
				"padding %d increased silence segment count", pad)
			assert.GreaterOrEqual(t, speech, prevSpeech,
				"padding %d decreased speech coverage", pad)
		}
		prevSilences = countSilence(segs)
		prevSpeech = speech
	}
}

func TestProcess_Alternation(t *testing.T) {
	raw := []Interval{{500, 1500}, {4000, 4800}, {7000, 9000}}
	segs := Process(raw, 10000, Options{PaddingMs: 100, MergeToleranceMs: 50, FPS: 1000})
	assertPartition(t, segs, 10000)
	for i := 0; i+1 < len(segs); i++ {
		assert.NotEqual(t, segs[i].IsSilence, segs[i+1].IsSilence,
			"segments %d and %d share classification", i, i+1)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	raw := []Interval{{1000, 2000}, {3000, 4000}}
	opts := DefaultOptions()
	first := Process(raw, 10000, opts)
	second := Process(raw, 10000, opts)
	assert.Equal(t, first, second)
}

func TestMerge_DropsNothingWhenSeparated(t *testing.T) {
	tests := []struct {
		name      string
		intervals []Interval
		tolerance int
		want      []Interval
	}{
		{
			name:      "empty",
			intervals: nil,
			tolerance: 100,
			want:      nil,
		},
		{
			name:      "overlapping pair",
			intervals: []Interval{{0, 500}, {400, 900}},
			tolerance: 0,
			want:      []Interval{{0, 900}},
		},
		{
			name:      "contained interval keeps outer end",
			intervals: []Interval{{0, 1000}, {200, 300}},
			tolerance: 0,
			want:      []Interval{{0, 1000}},
		},
		{
			name:      "gap equal to tolerance merges",
			intervals: []Interval{{0, 500}, {600, 900}},
			tolerance: 100,
			want:      []Interval{{0, 900}},
		},
		{
			name:      "gap above tolerance kept",
			intervals: []Interval{{0, 500}, {601, 900}},
			tolerance: 100,
			want:      []Interval{{0, 500}, {601, 900}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, merge(tt.intervals, tt.tolerance))
		})
	}
}

func TestExpand_ClampsAndDrops(t *testing.T) {
	got := expand([]Interval{{50, 200}, {9950, 9990}}, 10000, 100, 50)
	assert.Equal(t, []Interval{{0, 350}, {9850, 10000}}, got)

	// Inverted or zero-length results never survive.
	got = expand([]Interval{{100, 100}}, 10000, 0, 0)
	assert.Empty(t, got)
}

func TestFrameGapMs(t *testing.T) {
	assert.Equal(t, 33, frameGapMs(30))
	assert.Equal(t, 42, frameGapMs(24))
	assert.Equal(t, 17, frameGapMs(60))
	// Non-positive fps falls back to the default rate.
	assert.Equal(t, 33, frameGapMs(0))
}
