package segment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSegments(t *testing.T) {
	segs := []Segment{
		{StartSec: 0, EndSec: 0.9, IsSilence: true},
		{StartSec: 0.9, EndSec: 2.1, IsSilence: false},
		{StartSec: 2.1, EndSec: 10, IsSilence: true},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeSegments(&buf, segs))

	// Consumer-facing field names, not Go names.
	out := buf.String()
	assert.Contains(t, out, `"start_sec"`)
	assert.Contains(t, out, `"end_sec"`)
	assert.Contains(t, out, `"is_silence"`)

	got, err := DecodeSegments(&buf)
	require.NoError(t, err)
	assert.Equal(t, segs, got)
}

func TestEncodeSegments_NilEncodesEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSegments(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestDecodeSegments_Invalid(t *testing.T) {
	_, err := DecodeSegments(strings.NewReader("{not json"))
	require.Error(t, err)
}
