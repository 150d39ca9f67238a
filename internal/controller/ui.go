// Package controller provides output adapters for displaying pipeline progress.
package controller

import (
	"context"

	m "gooze.dev/pkg/covfold/internal/model"
)

// FileSummary is one row of the per-file coverage summary.
type FileSummary struct {
	Path       string
	Statements int
	Covered    int
}

// Percent returns the covered-statement percentage for the row.
func (f FileSummary) Percent() float64 {
	if f.Statements == 0 {
		return 0
	}

	return 100 * float64(f.Covered) / float64(f.Statements)
}

// UI defines the interface for the pipeline's progress trace and summary
// output. Implementations can use different output methods.
type UI interface {
	DisplayMissingStore(ctx context.Context, dir m.Path)
	DisplayFragments(ctx context.Context, dir m.Path, names []m.Path)
	DisplayAggregated(ctx context.Context, merged int, skipped int)
	DisplayRemapCount(ctx context.Context, target m.Path, entries int)
	DisplayReportWritten(ctx context.Context, path m.Path, files int)
	DisplaySummary(ctx context.Context, rows []FileSummary) error
}
