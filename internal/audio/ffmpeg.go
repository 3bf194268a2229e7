package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// FFmpegDecoder implements Decoder using the ffmpeg CLI.
type FFmpegDecoder struct {
	ffmpegPath string
	sampleRate int
}

// NewFFmpegDecoder creates a new FFmpegDecoder.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found in PATH).
// If sampleRate is not positive, DefaultAnalysisRate is used.
func NewFFmpegDecoder(ffmpegPath string, sampleRate int) *FFmpegDecoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if sampleRate <= 0 {
		sampleRate = DefaultAnalysisRate
	}
	return &FFmpegDecoder{ffmpegPath: ffmpegPath, sampleRate: sampleRate}
}

// Decode implements Decoder.Decode by converting the input to raw mono
// s16le PCM on stdout and normalizing it to float samples.
func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (*Waveform, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not readable: %w", err)
	}

	cmd := exec.CommandContext(ctx, d.ffmpegPath,
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(d.sampleRate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-hide_banner",
		"-loglevel", "error",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("decode audio: %w, stderr: %s", err, stderr.String())
	}

	return &Waveform{
		Samples:    pcmToSamples(stdout.Bytes()),
		SampleRate: d.sampleRate,
	}, nil
}

// pcmToSamples converts little-endian signed 16-bit PCM to normalized
// float samples. A trailing odd byte is ignored.
func pcmToSamples(pcm []byte) []float64 {
	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		samples[i] = float64(v) / 32768.0
	}
	return samples
}

// Verify interface implementation at compile time.
var _ Decoder = (*FFmpegDecoder)(nil)

// Span is a contiguous time range in milliseconds.
type Span struct {
	StartMs int
	EndMs   int
}

// FFmpegDetector finds non-silent spans using ffmpeg's silencedetect
// filter instead of an in-process waveform scan. It avoids holding the
// whole decoded waveform in memory, at the cost of ffmpeg-side boundary
// placement.
type FFmpegDetector struct {
	ffmpegPath string
}

// NewFFmpegDetector creates a new FFmpegDetector.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found in PATH).
func NewFFmpegDetector(ffmpegPath string) *FFmpegDetector {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegDetector{ffmpegPath: ffmpegPath}
}

// NonSilentSpans runs silencedetect over the input and returns the
// complement of the detected silences within [0, duration], along with the
// total duration in milliseconds. A silence still open at end of stream is
// closed at the total duration.
func (f *FFmpegDetector) NonSilentSpans(ctx context.Context, path string, thresholdDB float64, minSilenceMs int) ([]Span, int, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, 0, fmt.Errorf("input file not readable: %w", err)
	}

	filter := fmt.Sprintf("silencedetect=noise=%ddB:d=%f",
		int(thresholdDB),
		float64(minSilenceMs)/1000.0,
	)

	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-i", path,
		"-af", filter,
		"-f", "null",
		"-hide_banner",
		"-",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// ffmpeg exits non-zero with the null muxer; the detection output on
	// stderr is still complete.
	_ = cmd.Run()

	output := stderr.String()
	durationMs, err := parseDurationMs(output)
	if err != nil {
		return nil, 0, err
	}

	silences := parseSilences(output, durationMs)
	return complementSpans(silences, durationMs), durationMs, nil
}

var durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)

// parseDurationMs extracts the stream duration from ffmpeg stderr output,
// which reports "Duration: HH:MM:SS.cc".
func parseDurationMs(output string) (int, error) {
	matches := durationRe.FindStringSubmatch(output)
	if len(matches) < 5 {
		return 0, fmt.Errorf("could not parse duration from ffmpeg output: %s", output)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])

	// Fractional part precision varies between builds.
	frac, _ := strconv.ParseFloat("0."+matches[4], 64)
	ms := int(frac * 1000)

	return ((hours*60+minutes)*60+seconds)*1000 + ms, nil
}

var (
	silenceStartRe = regexp.MustCompile(`silence_start:\s*(-?[\d.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end:\s*([\d.]+)`)
)

// parseSilences pairs silence_start/silence_end lines from silencedetect
// output into spans. An unmatched trailing start closes at durationMs.
func parseSilences(output string, durationMs int) []Span {
	var spans []Span
	currentStart := 0
	hasStart := false

	for _, line := range strings.Split(output, "\n") {
		if m := silenceStartRe.FindStringSubmatch(line); len(m) > 1 {
			val, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if val < 0 {
				val = 0
			}
			currentStart = int(val * 1000)
			hasStart = true
		}

		if m := silenceEndRe.FindStringSubmatch(line); len(m) > 1 && hasStart {
			val, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			spans = append(spans, Span{StartMs: currentStart, EndMs: int(val * 1000)})
			hasStart = false
		}
	}

	if hasStart && durationMs > currentStart {
		spans = append(spans, Span{StartMs: currentStart, EndMs: durationMs})
	}

	return spans
}

// complementSpans returns the regions of [0, durationMs] not covered by
// the given sorted silence spans. Zero-length regions are dropped.
func complementSpans(silences []Span, durationMs int) []Span {
	var out []Span
	cursor := 0
	for _, sil := range silences {
		if sil.StartMs > cursor {
			out = append(out, Span{StartMs: cursor, EndMs: sil.StartMs})
		}
		if sil.EndMs > cursor {
			cursor = sil.EndMs
		}
	}
	if cursor < durationMs {
		out = append(out, Span{StartMs: cursor, EndMs: durationMs})
	}
	return out
}
