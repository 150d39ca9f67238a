// Package adapter contains infrastructure adapters for the covfold CLI.
package adapter

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	m "gooze.dev/pkg/covfold/internal/model"
)

// fragmentFilePattern matches fragment files inside a store directory.
// The name embeds a nanosecond timestamp and the writing process's PID, so
// concurrently running processes never collide without any shared lock.
const fragmentFilePattern = "cov-*.json"

// FragmentStore abstracts the write-many/read-once collection of fragment
// files so the domain layer can be tested without touching the disk.
type FragmentStore interface {
	// Write persists a fragment into dir exactly once and returns the
	// resulting file path. The directory is created on first use.
	Write(dir m.Path, fragment m.Fragment) (m.Path, error)

	// List enumerates the fragment files under dir in sorted order. A
	// missing directory is reported with an error wrapping fs.ErrNotExist
	// so callers can treat it as a valid empty outcome.
	List(dir m.Path) ([]m.Path, error)

	// Read parses a single fragment file. The fragment is never mutated;
	// the same file may be re-read across pipeline invocations.
	Read(path m.Path) (m.Fragment, error)
}

// LocalFragmentStore is the disk-backed FragmentStore implementation.
type LocalFragmentStore struct{}

// NewLocalFragmentStore constructs a LocalFragmentStore ready to be wired
// into the workflow.
func NewLocalFragmentStore() *LocalFragmentStore {
	return &LocalFragmentStore{}
}

// Write serializes the fragment's raw path -> line-status mapping to a
// uniquely named file under dir. O_EXCL enforces write-once semantics.
func (s *LocalFragmentStore) Write(dir m.Path, fragment m.Fragment) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create fragment directory: %w", err)
	}

	name := fmt.Sprintf("cov-%d-%d.json", time.Now().UnixNano(), os.Getpid())
	path := filepath.Join(string(dir), name)

	data, err := json.Marshal(fragment.Files)
	if err != nil {
		return "", fmt.Errorf("encode fragment: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create fragment file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write fragment file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close fragment file: %w", err)
	}

	return m.Path(path), nil
}

// List globs the fragment files under dir.
func (s *LocalFragmentStore) List(dir m.Path) ([]m.Path, error) {
	if _, err := os.Stat(string(dir)); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("fragment directory %s: %w", dir, fs.ErrNotExist)
		}

		return nil, fmt.Errorf("stat fragment directory: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(string(dir), fragmentFilePattern))
	if err != nil {
		return nil, fmt.Errorf("enumerate fragments: %w", err)
	}

	sort.Strings(matches)

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, m.Path(match))
	}

	return paths, nil
}

// Read loads and decodes one fragment file. The fragment ID is the file's
// base name, which already carries the timestamp + PID pair.
func (s *LocalFragmentStore) Read(path m.Path) (m.Fragment, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Fragment{}, fmt.Errorf("read fragment: %w", err)
	}

	var files map[m.Path]m.FileLines
	if err := json.Unmarshal(data, &files); err != nil {
		return m.Fragment{}, fmt.Errorf("decode fragment %s: %w", path, err)
	}

	return m.Fragment{
		ID:    filepath.Base(string(path)),
		Files: files,
	}, nil
}
