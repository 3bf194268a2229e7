package segment

import "math"

// Detect scans the waveform and returns the maximal list of non-silent
// intervals. Every sample inside a returned interval is either above the
// silence floor or part of a below-floor run shorter than MinSilenceMs;
// extending any boundary by one scan step would break that property.
//
// The scan classifies windows of SeekStepMs by peak amplitude rather than
// comparing sample-by-sample, trading boundary precision for throughput.
// The result may be empty (wholly silent input) or a single interval
// spanning the whole waveform (wholly non-silent input). Intervals are
// sorted ascending by start and never overlap.
func Detect(samples []float64, sampleRate int, opts Options) []Interval {
	if len(samples) == 0 || sampleRate <= 0 {
		return nil
	}

	total := durationMs(len(samples), sampleRate)
	floor := dbToAmplitude(opts.SilenceThresholdDB)

	step := opts.SeekStepMs
	if step <= 0 {
		step = DefaultSeekStepMs
	}
	stepSamples := sampleRate * step / 1000
	if stepSamples < 1 {
		stepSamples = 1
	}

	// Collect below-floor runs that are long enough to qualify as silence.
	var silences []Interval
	runStart := -1 // sample index where the current below-floor run began
	for i := 0; i < len(samples); i += stepSamples {
		end := i + stepSamples
		if end > len(samples) {
			end = len(samples)
		}
		if peak(samples[i:end]) < floor {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			silences = appendQualifyingRun(silences, runStart, i, sampleRate, opts.MinSilenceMs)
			runStart = -1
		}
	}
	if runStart >= 0 {
		silences = appendQualifyingRun(silences, runStart, len(samples), sampleRate, opts.MinSilenceMs)
	}

	return complement(silences, total)
}

// appendQualifyingRun converts a sample-index run to milliseconds and keeps
// it only if it meets the minimum silence duration.
func appendQualifyingRun(silences []Interval, startSample, endSample, sampleRate, minSilenceMs int) []Interval {
	startMs := durationMs(startSample, sampleRate)
	endMs := durationMs(endSample, sampleRate)
	if endMs-startMs < minSilenceMs {
		return silences
	}
	return append(silences, Interval{StartMs: startMs, EndMs: endMs})
}

// complement returns the non-silent regions between qualifying silence runs.
// Zero-length regions are dropped at construction.
func complement(silences []Interval, totalMs int) []Interval {
	var out []Interval
	cursor := 0
	for _, sil := range silences {
		if sil.StartMs > cursor {
			out = append(out, Interval{StartMs: cursor, EndMs: sil.StartMs})
		}
		if sil.EndMs > cursor {
			cursor = sil.EndMs
		}
	}
	if cursor < totalMs {
		out = append(out, Interval{StartMs: cursor, EndMs: totalMs})
	}
	return out
}

// peak returns the largest absolute sample value in the window.
func peak(window []float64) float64 {
	var max float64
	for _, s := range window {
		if s < 0 {
			s = -s
		}
		if s > max {
			max = s
		}
	}
	return max
}

// dbToAmplitude converts a dBFS level to a linear amplitude in [0, 1],
// relative to full scale 1.0.
func dbToAmplitude(db float64) float64 {
	return math.Pow(10, db/20)
}
