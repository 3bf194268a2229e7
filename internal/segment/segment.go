// Package segment implements the silence/speech segmentation pipeline.
// Given a decoded waveform (or a precomputed list of non-silent intervals)
// and a set of tunable thresholds, it produces a gapless, non-overlapping,
// alternating partition of the timeline into speech and silence segments
// suitable for downstream clip splitting and muting.
//
// The pipeline is a pure function over value-type interval lists: no stage
// mutates anything outside its own locals, so independent invocations can
// run concurrently without synchronization.
package segment

// Interval is a candidate non-silent time range in milliseconds,
// before padding and merge adjustments. StartMs < EndMs always; interval
// lists are kept sorted by start and non-overlapping after each stage.
type Interval struct {
	// StartMs is the inclusive start of the interval in milliseconds.
	StartMs int
	// EndMs is the exclusive end of the interval in milliseconds.
	EndMs int
}

// Segment is a final, classified partition unit of the timeline.
// The full segment sequence covers [0, duration] with no gaps and no
// overlaps, and classification alternates along the sequence.
type Segment struct {
	// StartSec is the segment start in seconds.
	StartSec float64 `json:"start_sec"`
	// EndSec is the segment end in seconds.
	EndSec float64 `json:"end_sec"`
	// IsSilence is true for silence segments, false for speech.
	IsSilence bool `json:"is_silence"`
}

// Default tuning values, matching the podcast gating profile.
const (
	// DefaultSilenceThresholdDB is the amplitude floor in dBFS below which
	// audio counts as silence.
	DefaultSilenceThresholdDB = -50.0
	// DefaultMinSilenceMs is the minimum below-floor run duration that
	// qualifies as silence.
	DefaultMinSilenceMs = 1000
	// DefaultPaddingMs is the symmetric context added around detected
	// speech to avoid clipping onset/offset transients.
	DefaultPaddingMs = 400
	// DefaultHoldMs is the extra trailing-edge allowance added after
	// padding to avoid truncating trailing breaths and consonants.
	DefaultHoldMs = 100
	// DefaultMergeToleranceMs is the maximum gap between two intervals
	// that still causes them to be unified.
	DefaultMergeToleranceMs = 100
	// DefaultSeekStepMs is the detector scan granularity. Coarser steps
	// trade boundary precision for throughput.
	DefaultSeekStepMs = 20
	// DefaultFPS drives the frame-quantization coalescing pass.
	DefaultFPS = 30
)

// Options holds the segmentation thresholds. All fields are independent;
// FPS only controls the quantization unit of the coalescing stage.
// Options is passed by value into the pipeline and never mutated.
type Options struct {
	// SilenceThresholdDB is the silence floor in dBFS (negative).
	SilenceThresholdDB float64
	// MinSilenceMs is the minimum contiguous below-floor duration to
	// count as silence.
	MinSilenceMs int
	// PaddingMs is symmetric padding around non-silent intervals.
	PaddingMs int
	// HoldMs is extra trailing-edge-only margin added after padding.
	HoldMs int
	// MergeToleranceMs is the acoustic merge slack between intervals.
	MergeToleranceMs int
	// SeekStepMs is the detector scan step.
	SeekStepMs int
	// FPS is the target frame rate used to swallow silence gaps shorter
	// than one displayed frame.
	FPS int
}

// DefaultOptions returns the default podcast gating options.
func DefaultOptions() Options {
	return Options{
		SilenceThresholdDB: DefaultSilenceThresholdDB,
		MinSilenceMs:       DefaultMinSilenceMs,
		PaddingMs:          DefaultPaddingMs,
		HoldMs:             DefaultHoldMs,
		MergeToleranceMs:   DefaultMergeToleranceMs,
		SeekStepMs:         DefaultSeekStepMs,
		FPS:                DefaultFPS,
	}
}

// durationMs converts a sample count at the given rate to whole milliseconds.
func durationMs(samples, sampleRate int) int {
	return samples * 1000 / sampleRate
}
