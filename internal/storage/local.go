package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrS3NotConfigured is returned when remote upload is attempted without
// S3 configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// LocalStorage implements the Storage interface using local disk.
// Artifacts are written to a temp file in the output directory and renamed
// into place, so readers never observe a partially written artifact.
type LocalStorage struct {
	outDir string
}

// NewLocalStorage creates a new LocalStorage instance.
// If outDir is empty, a directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(outDir string) (*LocalStorage, error) {
	if outDir == "" {
		outDir = filepath.Join(os.TempDir(), "audiogate")
	}

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &LocalStorage{outDir: outDir}, nil
}

// OutDir returns the artifact output directory.
func (s *LocalStorage) OutDir() string {
	return s.outDir
}

// ArtifactPath returns the path where the artifact for name lives.
func (s *LocalStorage) ArtifactPath(name string) string {
	return filepath.Join(s.outDir, name+".json")
}

// SaveArtifact writes the artifact through a temp file in the same
// directory and renames it into place on success.
func (s *LocalStorage) SaveArtifact(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.CreateTemp(s.outDir, name+".json.tmp_*")
	if err != nil {
		return "", fmt.Errorf("create temp artifact: %w", err)
	}

	tmpName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close artifact: %w", err)
	}

	final := s.ArtifactPath(name)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("publish artifact: %w", err)
	}

	return final, nil
}

// LoadArtifact opens an existing artifact for reading.
func (s *LocalStorage) LoadArtifact(ctx context.Context, name string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.Open(s.ArtifactPath(name)) // #nosec G304 - path is derived from trusted config
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}

	return f, nil
}

// Upload is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) Upload(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
