// Package track provides the Track aggregate for gating named audio
// tracks. It includes the Track entity with state machine transitions,
// repository interfaces for persistence, and the gating service that runs
// the segmentation pipeline per track.
package track

import (
	"errors"
	"sync"
	"time"

	"github.com/audiogate/audiogate/internal/track/id"
)

// Status represents the current state of a Track.
type Status string

const (
	// StatusPending indicates the track is waiting to be processed.
	StatusPending Status = "PENDING"
	// StatusRunning indicates the track is being segmented.
	StatusRunning Status = "RUNNING"
	// StatusCompleted indicates segmentation finished and the artifact
	// was written.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed indicates the track encountered an error.
	StatusFailed Status = "FAILED"
	// StatusSkipped indicates a fresh artifact already existed and was
	// reused without reprocessing.
	StatusSkipped Status = "SKIPPED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusRunning, StatusSkipped},
	StatusRunning:   {StatusCompleted, StatusFailed},
	StatusCompleted: {},
	StatusFailed:    {},
	StatusSkipped:   {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Track represents one named audio track being gated.
type Track struct {
	mu sync.RWMutex

	// ID is the unique identifier for this track run.
	ID string
	// Name is the display name used for the artifact.
	Name string
	// SourcePath is the path to the source audio file.
	SourcePath string
	// Status is the current processing state.
	Status Status
	// SegmentCount is the number of segments in the artifact.
	SegmentCount int
	// ArtifactPath is the local path of the written artifact.
	ArtifactPath string
	// ArtifactURL is the remote URL if the artifact was uploaded.
	ArtifactURL string
	// Error contains any error message if processing failed.
	Error string
	// CreatedAt is when the track run was created.
	CreatedAt time.Time
	// UpdatedAt is when the track was last updated.
	UpdatedAt time.Time
	// StartedAt is when processing started.
	StartedAt time.Time
	// CompletedAt is when processing finished.
	CompletedAt time.Time
}

// New creates a new Track with a generated ID and initial PENDING status.
func New(name, sourcePath string) *Track {
	now := time.Now()
	return &Track{
		ID:         id.Generate(),
		Name:       name,
		SourcePath: sourcePath,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TransitionTo attempts to change the track status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (t *Track) TransitionTo(status Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !canTransition(t.Status, status) {
		return ErrInvalidTransition
	}

	t.Status = status
	t.UpdatedAt = time.Now()

	switch status {
	case StatusRunning:
		t.StartedAt = t.UpdatedAt
	case StatusCompleted, StatusFailed, StatusSkipped:
		t.CompletedAt = t.UpdatedAt
	}

	return nil
}

// Start transitions the track from PENDING to RUNNING.
func (t *Track) Start() error {
	return t.TransitionTo(StatusRunning)
}

// Complete transitions the track to COMPLETED state.
func (t *Track) Complete() error {
	return t.TransitionTo(StatusCompleted)
}

// Fail transitions the track to FAILED state with an error message.
func (t *Track) Fail(errMsg string) error {
	t.mu.Lock()
	t.Error = errMsg
	t.mu.Unlock()
	return t.TransitionTo(StatusFailed)
}

// Skip transitions the track to SKIPPED state.
func (t *Track) Skip() error {
	return t.TransitionTo(StatusSkipped)
}

// GetStatus returns the current track status (thread-safe).
func (t *Track) GetStatus() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Status
}

// SetResult records the artifact location and segment count.
func (t *Track) SetResult(artifactPath, artifactURL string, segmentCount int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ArtifactPath = artifactPath
	t.ArtifactURL = artifactURL
	t.SegmentCount = segmentCount
	t.UpdatedAt = time.Now()
}

// IsTerminal returns true if the track is in a terminal state.
func (t *Track) IsTerminal() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Status == StatusCompleted ||
		t.Status == StatusFailed ||
		t.Status == StatusSkipped
}

// Clone creates a deep copy of the track for safe reads.
func (t *Track) Clone() *Track {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return &Track{
		ID:           t.ID,
		Name:         t.Name,
		SourcePath:   t.SourcePath,
		Status:       t.Status,
		SegmentCount: t.SegmentCount,
		ArtifactPath: t.ArtifactPath,
		ArtifactURL:  t.ArtifactURL,
		Error:        t.Error,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		StartedAt:    t.StartedAt,
		CompletedAt:  t.CompletedAt,
	}
}
