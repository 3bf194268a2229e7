package track

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/audiogate/audiogate/internal/segment"
	"github.com/audiogate/audiogate/internal/storage"
)

// Service orchestrates gating for named audio tracks: detection, the
// segmentation pipeline, artifact persistence and optional upload.
type Service struct {
	repo     Repository
	detector Detector
	store    storage.Storage
	opts     segment.Options
	logger   *slog.Logger

	// maxConcurrent limits how many tracks are segmented in parallel.
	// Each track is an independent pipeline invocation, so no shared
	// state needs guarding.
	maxConcurrent int
	// maxArtifactAge bounds artifact reuse; zero disables reuse.
	maxArtifactAge time.Duration
	// upload controls whether completed artifacts are pushed to remote
	// storage.
	upload bool
}

// Option configures a Service.
type Option func(*Service)

// WithMaxConcurrent sets the number of tracks processed in parallel.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithMaxArtifactAge enables reuse of artifacts younger than age that are
// also newer than their source file.
func WithMaxArtifactAge(age time.Duration) Option {
	return func(s *Service) {
		s.maxArtifactAge = age
	}
}

// WithUpload enables pushing completed artifacts to remote storage.
func WithUpload(enabled bool) Option {
	return func(s *Service) {
		s.upload = enabled
	}
}

// NewService creates a new gating Service.
func NewService(repo Repository, detector Detector, store storage.Storage, opts segment.Options, logger *slog.Logger, options ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:          repo,
		detector:      detector,
		store:         store,
		opts:          opts,
		logger:        logger,
		maxConcurrent: 3,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Process segments a single track and writes its artifact. A fresh
// existing artifact short-circuits processing and marks the track SKIPPED.
// Failures are recorded on the track and returned.
func (s *Service) Process(ctx context.Context, tr *Track) error {
	if err := s.repo.Save(ctx, tr); err != nil {
		return fmt.Errorf("save track: %w", err)
	}

	if s.artifactFresh(tr) {
		s.logger.Info("artifact is fresh, skipping track",
			slog.String("track_id", tr.ID),
			slog.String("track", tr.Name),
		)
		tr.SetResult(s.store.ArtifactPath(tr.Name), "", 0)
		if err := tr.Skip(); err != nil {
			return err
		}
		return s.repo.Save(ctx, tr)
	}

	if err := tr.Start(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, tr); err != nil {
		return fmt.Errorf("save track: %w", err)
	}

	s.logger.Info("segmenting track",
		slog.String("track_id", tr.ID),
		slog.String("track", tr.Name),
		slog.String("source", tr.SourcePath),
	)

	segs, err := s.segmentTrack(ctx, tr)
	if err != nil {
		_ = tr.Fail(err.Error())
		_ = s.repo.Save(ctx, tr)
		s.logger.Error("track failed",
			slog.String("track_id", tr.ID),
			slog.String("track", tr.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("track %s: %w", tr.Name, err)
	}

	if err := tr.Complete(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, tr); err != nil {
		return fmt.Errorf("save track: %w", err)
	}

	s.logger.Info("track completed",
		slog.String("track_id", tr.ID),
		slog.String("track", tr.Name),
		slog.Int("segments", len(segs)),
		slog.String("artifact", tr.ArtifactPath),
	)
	return nil
}

// segmentTrack runs detection and the pipeline, then persists the result.
func (s *Service) segmentTrack(ctx context.Context, tr *Track) ([]segment.Segment, error) {
	intervals, durationMs, err := s.detector.Intervals(ctx, tr.SourcePath)
	if err != nil {
		return nil, err
	}

	segs := segment.Process(intervals, durationMs, s.opts)

	var buf bytes.Buffer
	if err := segment.EncodeSegments(&buf, segs); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	path, err := s.store.SaveArtifact(ctx, tr.Name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	url := ""
	if s.upload {
		url, err = s.store.Upload(ctx, tr.Name, bytes.NewReader(data))
		if err != nil && !errors.Is(err, storage.ErrS3NotConfigured) {
			return nil, fmt.Errorf("upload artifact: %w", err)
		}
	}

	tr.SetResult(path, url, len(segs))
	return segs, nil
}

// ProcessAll segments tracks concurrently under the configured limit and
// returns the combined errors of all failed tracks.
func (s *Service) ProcessAll(ctx context.Context, tracks []*Track) error {
	sem := make(chan struct{}, s.maxConcurrent)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, tr := range tracks {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(tr *Track) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.Process(ctx, tr); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(tr)
	}

	wg.Wait()
	return errors.Join(errs...)
}

// artifactFresh reports whether the track's artifact can be reused: it
// exists, is newer than the source file, and is younger than the
// configured maximum age.
func (s *Service) artifactFresh(tr *Track) bool {
	if s.maxArtifactAge <= 0 {
		return false
	}

	art, err := os.Stat(s.store.ArtifactPath(tr.Name))
	if err != nil {
		return false
	}
	src, err := os.Stat(tr.SourcePath)
	if err != nil {
		return false
	}

	return !art.ModTime().Before(src.ModTime()) &&
		time.Since(art.ModTime()) < s.maxArtifactAge
}
