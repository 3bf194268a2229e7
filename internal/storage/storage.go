// Package storage persists segment artifacts. It defines the Storage
// interface (port) for hexagonal architecture and implementations for
// local disk and S3-backed storage.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for segment artifact persistence.
// Artifacts are written atomically: a failed write never leaves a partial
// artifact behind.
type Storage interface {
	// ArtifactPath returns the local path of the artifact for name.
	// The file may not exist yet.
	ArtifactPath(name string) string

	// SaveArtifact writes an artifact atomically and returns its path.
	// The artifact only becomes visible at its final path on full success.
	SaveArtifact(ctx context.Context, name string, data io.Reader) (path string, err error)

	// LoadArtifact opens an existing artifact for reading.
	// The caller is responsible for closing the returned ReadCloser.
	LoadArtifact(ctx context.Context, name string) (io.ReadCloser, error)

	// Upload pushes an artifact to remote storage and returns its URL.
	// Returns ErrS3NotConfigured if no remote backend is configured.
	Upload(ctx context.Context, name string, data io.Reader) (url string, err error)
}
