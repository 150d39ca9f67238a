package model

import (
	"sort"
	"strings"
)

// InclusionScope is the set of directory prefixes eligible for reporting.
// Coverage for paths outside the scope is discarded, not an error.
// An empty scope admits every path (filtering disabled).
type InclusionScope []Path

// Contains reports whether the path falls under any scope prefix.
func (s InclusionScope) Contains(path Path) bool {
	if len(s) == 0 {
		return true
	}

	for _, prefix := range s {
		if strings.HasPrefix(string(path), string(prefix)) {
			return true
		}
	}

	return false
}

// Model is the unified per-file, per-line coverage view built by merging
// fragments. It is transient: rebuilt from scratch on every aggregation run.
type Model struct {
	files map[Path]FileLines
}

// NewModel returns an empty unified coverage model.
func NewModel() *Model {
	return &Model{files: map[Path]FileLines{}}
}

// MergeLine folds one observed line status into the model using the
// OR-merge rule: a hit from any fragment wins permanently, an executable
// classification outranks dead code. The numeric status ordering
// (hit > miss > dead) encodes exactly that lattice.
func (m *Model) MergeLine(path Path, line int, status LineStatus) {
	lines, ok := m.files[path]
	if !ok {
		lines = FileLines{}
		m.files[path] = lines
	}

	current, seen := lines[line]
	if !seen || status > current {
		lines[line] = status
	}
}

// MergeFile folds a whole per-file line map into the model.
func (m *Model) MergeFile(path Path, lines FileLines) {
	for line, status := range lines {
		m.MergeLine(path, line, status)
	}
}

// MergeFragment folds a fragment into the model, restricted to the scope.
// Merging is commutative and associative, so fragment order is irrelevant
// and duplicate observations are idempotent.
func (m *Model) MergeFragment(fragment Fragment, scope InclusionScope) {
	for path, lines := range fragment.Files {
		if !scope.Contains(path) {
			continue
		}

		m.MergeFile(path, lines)
	}
}

// Files returns the covered paths in sorted order for deterministic output.
func (m *Model) Files() []Path {
	paths := make([]Path, 0, len(m.files))
	for path := range m.files {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}

// Lines returns the recorded line numbers for a path in ascending order.
func (m *Model) Lines(path Path) []int {
	lines := make([]int, 0, len(m.files[path]))
	for line := range m.files[path] {
		lines = append(lines, line)
	}

	sort.Ints(lines)

	return lines
}

// Status returns the aggregated status for a (path, line) pair.
func (m *Model) Status(path Path, line int) (LineStatus, bool) {
	status, ok := m.files[path][line]
	return status, ok
}

// Len returns the number of files in the model.
func (m *Model) Len() int {
	return len(m.files)
}

// Statements counts the executable lines recorded for a path.
func (m *Model) Statements(path Path) int {
	count := 0

	for _, status := range m.files[path] {
		if status != StatusDead {
			count++
		}
	}

	return count
}

// Covered counts the executed lines recorded for a path.
func (m *Model) Covered(path Path) int {
	count := 0

	for _, status := range m.files[path] {
		if status == StatusHit {
			count++
		}
	}

	return count
}
