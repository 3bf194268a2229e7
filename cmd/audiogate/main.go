// Package main provides the audiogate command line entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/audiogate/audiogate/internal/bootstrap"
	"github.com/audiogate/audiogate/internal/config"
	"github.com/audiogate/audiogate/internal/track"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: audiogate <audio-file> [<audio-file>...]")
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting audiogate",
		slog.String("detector", cfg.Detector),
		slog.Float64("silence_threshold_db", cfg.SilenceThresholdDB),
		slog.Int("min_silence_ms", cfg.MinSilenceMs),
		slog.Int("padding_ms", cfg.PaddingMs),
		slog.String("output_dir", cfg.OutputDir),
		slog.Int("tracks", len(args)),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	// Cancel in-flight work on interrupt; partially written artifacts are
	// never published.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracks := make([]*track.Track, 0, len(args))
	for _, path := range args {
		name := track.NameFromPath(path, cfg.NormalizeTrackNames)
		tracks = append(tracks, track.New(name, path))
	}

	err = deps.TrackService.ProcessAll(ctx, tracks)

	var completed, skipped, failed int
	for _, tr := range tracks {
		switch tr.GetStatus() {
		case track.StatusCompleted:
			completed++
		case track.StatusSkipped:
			skipped++
		case track.StatusFailed:
			failed++
		}
	}

	logger.Info("run finished",
		slog.Int("completed", completed),
		slog.Int("skipped", skipped),
		slog.Int("failed", failed),
	)

	if err != nil {
		return fmt.Errorf("process tracks: %w", err)
	}
	return nil
}
