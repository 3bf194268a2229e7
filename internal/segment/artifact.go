package segment

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeSegments writes the segment list as an indented JSON array in
// ascending time order. A nil list encodes as an empty array, never null.
func EncodeSegments(w io.Writer, segs []Segment) error {
	if segs == nil {
		segs = []Segment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(segs); err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	return nil
}

// DecodeSegments reads a segment artifact written by EncodeSegments.
func DecodeSegments(r io.Reader) ([]Segment, error) {
	var segs []Segment
	if err := json.NewDecoder(r).Decode(&segs); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	return segs, nil
}
