// Package model defines the data structures for coverage aggregation.
package model

// Path represents a file system path.
type Path string

// LineStatus classifies a single source line in a coverage capture.
//
// The numeric values follow the raw capture convention of the backend
// runtime: positive means executed, negative means not executed, with a
// dedicated value for lines the runtime proved can never execute.
type LineStatus int

const (
	// StatusDead marks a line that is not executable (dead code).
	StatusDead LineStatus = -2
	// StatusMiss marks an executable line that was never executed.
	StatusMiss LineStatus = -1
	// StatusHit marks a line that executed at least once.
	StatusHit LineStatus = 1
)

// FileLines maps line numbers to their capture status for one source file.
type FileLines map[int]LineStatus

// Fragment is one process's raw, unmerged coverage capture.
//
// A fragment is immutable once written: the store owns it from creation
// until the aggregator reads it, and nothing ever updates it in place.
// The ID is derived from the fragment file name, which embeds the capture
// timestamp and the writing process's identifier.
type Fragment struct {
	ID    string
	Files map[Path]FileLines
}

// Empty reports whether the fragment carries no line data at all.
func (f Fragment) Empty() bool {
	for _, lines := range f.Files {
		if len(lines) > 0 {
			return false
		}
	}

	return true
}
