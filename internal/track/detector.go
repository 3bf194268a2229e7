package track

import (
	"context"
	"fmt"

	"github.com/audiogate/audiogate/internal/audio"
	"github.com/audiogate/audiogate/internal/segment"
)

// Detector produces raw non-silent intervals and the total duration in
// milliseconds for a source audio file.
type Detector interface {
	Intervals(ctx context.Context, path string) ([]segment.Interval, int, error)
}

// WaveformDetector decodes the source to a waveform and scans it in
// process with the native energy detector.
type WaveformDetector struct {
	Decoder audio.Decoder
	Opts    segment.Options
}

// Intervals implements Detector.
func (d WaveformDetector) Intervals(ctx context.Context, path string) ([]segment.Interval, int, error) {
	w, err := d.Decoder.Decode(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("decode waveform: %w", err)
	}
	return segment.Detect(w.Samples, w.SampleRate, d.Opts), w.DurationMs(), nil
}

// FilterDetector delegates detection to ffmpeg's silencedetect filter,
// avoiding an in-process decode of the whole waveform.
type FilterDetector struct {
	FFmpeg *audio.FFmpegDetector
	Opts   segment.Options
}

// Intervals implements Detector.
func (d FilterDetector) Intervals(ctx context.Context, path string) ([]segment.Interval, int, error) {
	spans, durationMs, err := d.FFmpeg.NonSilentSpans(ctx, path, d.Opts.SilenceThresholdDB, d.Opts.MinSilenceMs)
	if err != nil {
		return nil, 0, fmt.Errorf("silencedetect: %w", err)
	}

	intervals := make([]segment.Interval, 0, len(spans))
	for _, s := range spans {
		intervals = append(intervals, segment.Interval{StartMs: s.StartMs, EndMs: s.EndMs})
	}
	return intervals, durationMs, nil
}

// Compile-time interface checks.
var (
	_ Detector = WaveformDetector{}
	_ Detector = FilterDetector{}
)
