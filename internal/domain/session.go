// Package domain implements the coverage aggregation pipeline.
package domain

import (
	"log/slog"

	"gooze.dev/pkg/covfold/internal/adapter"
	m "gooze.dev/pkg/covfold/internal/model"
)

// CaptureOptions configures a capture run.
type CaptureOptions struct {
	// TrackDead asks the runtime to also classify never-executable lines.
	TrackDead bool
}

// CaptureCapability abstracts the runtime's line-coverage capture facility.
// A process whose runtime has no such facility simply wires a nil
// capability and the session degrades to a no-op.
type CaptureCapability interface {
	Start(opts CaptureOptions) error
	Stop() (map[m.Path]m.FileLines, error)
}

// WriterConfig carries everything a capture session needs, threaded
// explicitly through the session's lifecycle instead of ambient globals.
type WriterConfig struct {
	FragmentsDir m.Path
	Store        adapter.FragmentStore
	Capability   CaptureCapability
}

// CaptureSession records one process's line coverage and persists it as a
// single immutable fragment. Acquire with Begin, release with Finish;
// Finish is safe on every exit path and idempotent, and it never lets a
// capture or write failure disturb the host process's shutdown.
type CaptureSession struct {
	config   WriterConfig
	active   bool
	finished bool
}

// NewCaptureSession constructs a session from an explicit configuration.
func NewCaptureSession(config WriterConfig) *CaptureSession {
	return &CaptureSession{config: config}
}

// Begin starts coverage capture, recording both used and dead code
// classifications. Without a capability this is a no-op, not an error.
func (s *CaptureSession) Begin() {
	if s.config.Capability == nil {
		slog.Debug("coverage capture capability unavailable, session inactive")
		return
	}

	if err := s.config.Capability.Start(CaptureOptions{TrackDead: true}); err != nil {
		slog.Error("failed to start coverage capture", "error", err)
		return
	}

	s.active = true
}

// Active reports whether capture is currently recording.
func (s *CaptureSession) Active() bool {
	return s.active && !s.finished
}

// Finish stops capture and writes the fragment. An empty capture writes
// nothing. Failures are logged and swallowed: the write attempt dies, the
// host process's shutdown does not.
func (s *CaptureSession) Finish() {
	if !s.active || s.finished {
		return
	}

	s.finished = true

	files, err := s.config.Capability.Stop()
	if err != nil {
		slog.Error("failed to stop coverage capture", "error", err)
		return
	}

	fragment := m.Fragment{Files: files}
	if fragment.Empty() {
		slog.Debug("coverage capture empty, writing no fragment")
		return
	}

	path, err := s.config.Store.Write(s.config.FragmentsDir, fragment)
	if err != nil {
		slog.Error("failed to write coverage fragment", "dir", s.config.FragmentsDir, "error", err)
		return
	}

	slog.Info("wrote coverage fragment", "path", path, "files", len(fragment.Files))
}
