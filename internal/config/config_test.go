package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, -50.0, cfg.SilenceThresholdDB)
	assert.Equal(t, 1000, cfg.MinSilenceMs)
	assert.Equal(t, 400, cfg.PaddingMs)
	assert.Equal(t, 100, cfg.HoldMs)
	assert.Equal(t, 100, cfg.MergeToleranceMs)
	assert.Equal(t, 20, cfg.SeekStepMs)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, DetectorNative, cfg.Detector)
	assert.Equal(t, 16000, cfg.AnalysisSampleRate)
	assert.Equal(t, "/tmp/audiogate", cfg.OutputDir)
	assert.Equal(t, 3, cfg.MaxConcurrentTracks)
	assert.Equal(t, 86400, cfg.MaxArtifactAgeSec)
	assert.True(t, cfg.NormalizeTrackNames)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SILENCE_THRESHOLD_DB", "-40.0")
	t.Setenv("MIN_SILENCE_MS", "600")
	t.Setenv("PADDING_MS", "120")
	t.Setenv("HOLD_MS", "500")
	t.Setenv("FPS_HINT", "24")
	t.Setenv("DETECTOR", "ffmpeg")
	t.Setenv("OUTPUT_DIR", "/custom/out")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, -40.0, cfg.SilenceThresholdDB)
	assert.Equal(t, 600, cfg.MinSilenceMs)
	assert.Equal(t, 120, cfg.PaddingMs)
	assert.Equal(t, 500, cfg.HoldMs)
	assert.Equal(t, 24, cfg.FPS)
	assert.Equal(t, DetectorFFmpeg, cfg.Detector)
	assert.Equal(t, "/custom/out", cfg.OutputDir)
	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"positive threshold", "SILENCE_THRESHOLD_DB", "3.0"},
		{"zero min silence", "MIN_SILENCE_MS", "0"},
		{"negative padding", "PADDING_MS", "-10"},
		{"zero fps", "FPS_HINT", "0"},
		{"unknown detector", "DETECTOR", "psychic"},
		{"zero concurrency", "MAX_CONCURRENT_TRACKS", "0"},
		{"non-numeric", "MIN_SILENCE_MS", "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestConfig_S3Enabled(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		region   string
		expected bool
	}{
		{"both set", "bucket", "region", true},
		{"only bucket", "bucket", "", false},
		{"only region", "", "region", false},
		{"neither", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{S3Bucket: tt.bucket, S3Region: tt.region}
			assert.Equal(t, tt.expected, cfg.S3Enabled())
		})
	}
}

func TestConfig_SegmentOptions(t *testing.T) {
	cfg := &Config{
		SilenceThresholdDB: -45.0,
		MinSilenceMs:       800,
		PaddingMs:          200,
		HoldMs:             300,
		MergeToleranceMs:   50,
		SeekStepMs:         10,
		FPS:                24,
	}

	opts := cfg.SegmentOptions()
	assert.Equal(t, -45.0, opts.SilenceThresholdDB)
	assert.Equal(t, 800, opts.MinSilenceMs)
	assert.Equal(t, 200, opts.PaddingMs)
	assert.Equal(t, 300, opts.HoldMs)
	assert.Equal(t, 50, opts.MergeToleranceMs)
	assert.Equal(t, 10, opts.SeekStepMs)
	assert.Equal(t, 24, opts.FPS)
}

func TestConfig_StringMasksCredentials(t *testing.T) {
	cfg := &Config{
		AWSAccessKeyID:     "AKIA-SECRET",
		AWSSecretAccessKey: "very-secret",
		S3Bucket:           "bucket",
	}

	s := cfg.String()
	assert.NotContains(t, s, "AKIA-SECRET")
	assert.NotContains(t, s, "very-secret")
	assert.Contains(t, s, "bucket")
}
