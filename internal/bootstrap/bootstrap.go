// Package bootstrap provides dependency initialization for audiogate.
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/audiogate/audiogate/internal/audio"
	"github.com/audiogate/audiogate/internal/config"
	"github.com/audiogate/audiogate/internal/storage"
	"github.com/audiogate/audiogate/internal/track"
)

// Dependencies holds all initialized dependencies for the application.
type Dependencies struct {
	TrackService *track.Service
	Storage      storage.Storage
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	detector, err := initDetector(cfg)
	if err != nil {
		return nil, err
	}

	repo := track.NewMemoryRepository()

	svc := track.NewService(
		repo,
		detector,
		store,
		cfg.SegmentOptions(),
		logger,
		track.WithMaxConcurrent(cfg.MaxConcurrentTracks),
		track.WithMaxArtifactAge(time.Duration(cfg.MaxArtifactAgeSec)*time.Second),
		track.WithUpload(cfg.S3Enabled()),
	)

	return &Dependencies{
		TrackService: svc,
		Storage:      store,
	}, nil
}

// initDetector selects the detection backend based on configuration.
func initDetector(cfg *config.Config) (track.Detector, error) {
	opts := cfg.SegmentOptions()

	switch cfg.Detector {
	case config.DetectorNative:
		decoder := audio.NewFFmpegDecoder(cfg.FFmpegPath, cfg.AnalysisSampleRate)
		return track.WaveformDetector{Decoder: decoder, Opts: opts}, nil
	case config.DetectorFFmpeg:
		return track.FilterDetector{FFmpeg: audio.NewFFmpegDetector(cfg.FFmpegPath), Opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown detector backend: %s", cfg.Detector)
	}
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.OutputDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("output_dir", localStore.OutDir()),
	)
	return localStore, nil
}
