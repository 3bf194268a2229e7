// Package audio provides the waveform source boundary. Source media of any
// container or codec is decoded to a mono analysis waveform through the
// ffmpeg CLI; the segmentation core never touches file formats itself.
package audio

import "context"

// DefaultAnalysisRate is the sample rate used for silence analysis.
// Speech energy detection does not need more resolution than 16kHz mono.
const DefaultAnalysisRate = 16000

// Waveform is an immutable decoded amplitude signal. Samples are
// normalized to [-1, 1] relative to full scale.
type Waveform struct {
	// Samples holds the mono amplitude samples.
	Samples []float64
	// SampleRate is the number of samples per second.
	SampleRate int
}

// DurationMs returns the total waveform duration in whole milliseconds.
func (w *Waveform) DurationMs() int {
	if w.SampleRate <= 0 {
		return 0
	}
	return len(w.Samples) * 1000 / w.SampleRate
}

// Decoder produces analysis waveforms from source media files.
type Decoder interface {
	// Decode reads the file at path and returns its mono waveform.
	// It fails fast on missing or unreadable input and produces no
	// partial output.
	Decode(ctx context.Context, path string) (*Waveform, error)
}
