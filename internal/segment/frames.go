package segment

import (
	"encoding/json"
	"fmt"
	"io"
)

// FrameSpan is a segment expressed in timeline frames for clip assembly.
type FrameSpan struct {
	// StartF is the inclusive start frame.
	StartF int
	// EndF is the exclusive end frame.
	EndF int
	// IsSilence carries the segment classification.
	IsSilence bool
}

// SecondsToFrames converts seconds to a frame count at the given rate.
func SecondsToFrames(sec float64, fps int) int {
	return int(sec * float64(fps))
}

// FramesToSeconds converts a frame count to seconds at the given rate.
func FramesToSeconds(frames, fps int) float64 {
	return float64(frames) / float64(fps)
}

// ToFrameSpans converts segments to frame spans at the given frame rate.
// Spans that collapse to zero frames after quantization are dropped.
func ToFrameSpans(segs []Segment, fps int) []FrameSpan {
	out := make([]FrameSpan, 0, len(segs))
	for _, s := range segs {
		sF := SecondsToFrames(s.StartSec, fps)
		eF := SecondsToFrames(s.EndSec, fps)
		if eF <= sF {
			continue
		}
		out = append(out, FrameSpan{StartF: sF, EndF: eF, IsSilence: s.IsSilence})
	}
	return out
}

// frameSpanJSON accepts both the frame-keyed and the seconds-keyed artifact
// shapes; frame keys win when present.
type frameSpanJSON struct {
	StartF    *int    `json:"startF"`
	EndF      *int    `json:"endF"`
	StartSec  float64 `json:"start_sec"`
	EndSec    float64 `json:"end_sec"`
	IsSilence bool    `json:"is_silence"`
}

// LoadFrameSpans reads a segment artifact and converts it to frame spans,
// tolerating records keyed either by frames (startF/endF) or by seconds.
// Non-positive spans are dropped.
func LoadFrameSpans(r io.Reader, fps int) ([]FrameSpan, error) {
	var records []frameSpanJSON
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode frame spans: %w", err)
	}

	out := make([]FrameSpan, 0, len(records))
	for _, rec := range records {
		sF := SecondsToFrames(rec.StartSec, fps)
		if rec.StartF != nil {
			sF = *rec.StartF
		}
		eF := SecondsToFrames(rec.EndSec, fps)
		if rec.EndF != nil {
			eF = *rec.EndF
		}
		if eF <= sF {
			continue
		}
		out = append(out, FrameSpan{StartF: sF, EndF: eF, IsSilence: rec.IsSilence})
	}
	return out, nil
}
