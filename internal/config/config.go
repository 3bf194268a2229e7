// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/audiogate/audiogate/internal/segment"
)

// Detector backend names.
const (
	// DetectorNative scans the decoded waveform in process.
	DetectorNative = "native"
	// DetectorFFmpeg delegates detection to ffmpeg's silencedetect filter.
	DetectorFFmpeg = "ffmpeg"
)

// Config holds all configuration for the application.
type Config struct {
	// Silence detection settings
	SilenceThresholdDB float64 `env:"SILENCE_THRESHOLD_DB, default=-50.0" json:"silence_threshold_db" validate:"lt=0"`
	MinSilenceMs       int     `env:"MIN_SILENCE_MS, default=1000" json:"min_silence_ms" validate:"gt=0"`
	PaddingMs          int     `env:"PADDING_MS, default=400" json:"padding_ms" validate:"gte=0"`
	HoldMs             int     `env:"HOLD_MS, default=100" json:"hold_ms" validate:"gte=0"`
	MergeToleranceMs   int     `env:"MERGE_TOLERANCE_MS, default=100" json:"merge_tolerance_ms" validate:"gte=0"`
	SeekStepMs         int     `env:"SEEK_STEP_MS, default=20" json:"seek_step_ms" validate:"gt=0"`
	FPS                int     `env:"FPS_HINT, default=30" json:"fps" validate:"gt=0"`

	// Detector backend: "native" decodes and scans in process, "ffmpeg"
	// uses the silencedetect filter without a full decode.
	Detector string `env:"DETECTOR, default=native" json:"detector" validate:"oneof=native ffmpeg"`

	// Decoding settings
	AnalysisSampleRate int    `env:"ANALYSIS_SAMPLE_RATE, default=16000" json:"analysis_sample_rate" validate:"gt=0"`
	FFmpegPath         string `env:"FFMPEG_PATH" json:"ffmpeg_path,omitempty"`

	// Processing settings
	OutputDir           string `env:"OUTPUT_DIR, default=/tmp/audiogate" json:"output_dir"`
	MaxConcurrentTracks int    `env:"MAX_CONCURRENT_TRACKS, default=3" json:"max_concurrent_tracks" validate:"gt=0"`
	MaxArtifactAgeSec   int    `env:"MAX_ARTIFACT_AGE_SEC, default=86400" json:"max_artifact_age_sec" validate:"gte=0"`
	NormalizeTrackNames bool   `env:"NORMALIZE_TRACK_NAMES, default=true" json:"normalize_track_names"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"` // For S3-compatible stores
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

var validate = validator.New()

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints declared on the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// SegmentOptions maps the configuration to pipeline options.
func (c *Config) SegmentOptions() segment.Options {
	return segment.Options{
		SilenceThresholdDB: c.SilenceThresholdDB,
		MinSilenceMs:       c.MinSilenceMs,
		PaddingMs:          c.PaddingMs,
		HoldMs:             c.HoldMs,
		MergeToleranceMs:   c.MergeToleranceMs,
		SeekStepMs:         c.SeekStepMs,
		FPS:                c.FPS,
	}
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{SilenceThresholdDB: %.1f, MinSilenceMs: %d, PaddingMs: %d, HoldMs: %d, MergeToleranceMs: %d, SeekStepMs: %d, FPS: %d, Detector: %s, OutputDir: %s, MaxConcurrentTracks: %d, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.SilenceThresholdDB,
		c.MinSilenceMs,
		c.PaddingMs,
		c.HoldMs,
		c.MergeToleranceMs,
		c.SeekStepMs,
		c.FPS,
		c.Detector,
		c.OutputDir,
		c.MaxConcurrentTracks,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
