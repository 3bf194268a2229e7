package segment

import (
	"math"
	"sort"
)

// Run executes the full pipeline on a decoded waveform: non-silence
// detection followed by Process. The result is deterministic for a given
// waveform and options.
func Run(samples []float64, sampleRate int, opts Options) []Segment {
	raw := Detect(samples, sampleRate, opts)
	return Process(raw, durationMs(len(samples), sampleRate), opts)
}

// Process turns raw non-silent intervals into the final alternating
// partition of [0, durationMs]: padding/hold expansion, overlap merge,
// micro-gap coalescing, then partition construction. Raw intervals must be
// within [0, durationMs]; the stages re-establish sortedness and
// non-overlap after every transform.
func Process(raw []Interval, durationMs int, opts Options) []Segment {
	expanded := expand(raw, durationMs, opts.PaddingMs, opts.HoldMs)
	merged := merge(expanded, opts.MergeToleranceMs)
	// Second fold with the frame-derived tolerance. This is a separate,
	// independently tunable pass from the merge-tolerance fold: one is
	// acoustic merge slack, the other a display-frame quantization floor.
	coalesced := merge(merged, frameGapMs(opts.FPS))
	return partition(coalesced, durationMs)
}

// expand grows each interval by PaddingMs on both sides plus HoldMs on the
// trailing edge only, clamped to [0, durationMs]. Degenerate results are
// dropped. Expansion may produce overlapping intervals; overlap resolution
// is left to the merge stage.
func expand(intervals []Interval, durationMs, paddingMs, holdMs int) []Interval {
	out := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		s := iv.StartMs - paddingMs
		if s < 0 {
			s = 0
		}
		e := iv.EndMs + paddingMs + holdMs
		if e > durationMs {
			e = durationMs
		}
		if e > s {
			out = append(out, Interval{StartMs: s, EndMs: e})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMs < out[j].StartMs })
	return out
}

// merge folds sorted intervals left to right, unifying an interval with the
// last kept one when its start is within toleranceMs of that interval's
// end. The result is sorted and pairwise separated by gaps strictly greater
// than toleranceMs.
func merge(intervals []Interval, toleranceMs int) []Interval {
	var out []Interval
	for _, iv := range intervals {
		if n := len(out); n > 0 && iv.StartMs <= out[n-1].EndMs+toleranceMs {
			if iv.EndMs > out[n-1].EndMs {
				out[n-1].EndMs = iv.EndMs
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// frameGapMs returns the duration of one displayed frame in milliseconds,
// rounded. Silence gaps shorter than this are imperceptible at the target
// frame rate and not worth materializing as separate segments.
func frameGapMs(fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return int(math.Round(1000 / float64(fps)))
}

// partition interleaves the non-silent interval boundaries with 0 and
// durationMs into cut points and emits a classified segment for every
// consecutive pair with non-zero length.
//
// Classification is by cut-point parity, not by re-inspecting the
// waveform: even indices are silence, odd are speech. When an interval
// touches 0 or durationMs exactly, the zero-length boundary segment is
// dropped, which makes two adjacent survivors share a classification at
// that edge. The quirk is inherited intentionally; downstream consumers
// rely on the positional semantics, not strict alternation at the edges.
func partition(speech []Interval, durationMs int) []Segment {
	pts := make([]int, 0, 2*len(speech)+2)
	pts = append(pts, 0)
	for _, iv := range speech {
		pts = append(pts, iv.StartMs, iv.EndMs)
	}
	pts = append(pts, durationMs)

	segs := make([]Segment, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		s, e := pts[i], pts[i+1]
		if e <= s {
			continue
		}
		segs = append(segs, Segment{
			StartSec:  float64(s) / 1000.0,
			EndSec:    float64(e) / 1000.0,
			IsSilence: i%2 == 0,
		})
	}
	return segs
}
