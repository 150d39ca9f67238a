package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"gooze.dev/pkg/covfold/internal/adapter"
	"gooze.dev/pkg/covfold/internal/controller"
	m "gooze.dev/pkg/covfold/internal/model"
)

// MergeArgs contains the arguments for an aggregation run.
type MergeArgs struct {
	Fragments m.Path
	Output    m.Path
	Include   m.InclusionScope
	Workers   int
}

// SummaryArgs contains the arguments for the summary view.
type SummaryArgs struct {
	Report m.Path
}

// Workflow is the pipeline facade the CLI drives.
type Workflow interface {
	// Merge discovers fragments, aggregates them and emits the report.
	// An absent fragment directory is a clean no-op; zero fragments in an
	// existing directory still produce a valid empty report.
	Merge(ctx context.Context, args MergeArgs) error

	// Remap runs one idempotent canonicalization pass over the JS tool's
	// aggregate coverage file and the coverage tool configuration.
	Remap(ctx context.Context, args RemapArgs) error

	// Summary prints a per-file coverage table from an emitted report.
	Summary(ctx context.Context, args SummaryArgs) error
}

type workflow struct {
	fragments adapter.FragmentStore
	reports   adapter.ReportWriter
	ui        controller.UI
	Aggregator
	Canonicalizer
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fragments adapter.FragmentStore,
	reports adapter.ReportWriter,
	ui controller.UI,
	aggregator Aggregator,
	canonicalizer Canonicalizer,
) Workflow {
	return &workflow{
		fragments:     fragments,
		reports:       reports,
		ui:            ui,
		Aggregator:    aggregator,
		Canonicalizer: canonicalizer,
	}
}

func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	paths, err := w.fragments.List(args.Fragments)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("fragment directory absent, nothing to merge", "dir", args.Fragments)
			w.ui.DisplayMissingStore(ctx, args.Fragments)

			return nil
		}

		return fmt.Errorf("enumerate fragments: %w", err)
	}

	w.ui.DisplayFragments(ctx, args.Fragments, paths)

	model, skipped, err := w.Aggregate(ctx, paths, args.Include, args.Workers)
	if err != nil {
		return fmt.Errorf("aggregate fragments: %w", err)
	}

	w.ui.DisplayAggregated(ctx, len(paths)-skipped, skipped)

	report := m.BuildClover(model, time.Now())

	if err := w.reports.Write(args.Output, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	w.ui.DisplayReportWritten(ctx, args.Output, model.Len())

	return nil
}

func (w *workflow) Remap(ctx context.Context, args RemapArgs) error {
	result, err := w.Canonicalize(ctx, args)

	w.ui.DisplayRemapCount(ctx, args.CoverageFile, result.Entries)

	if err != nil {
		return fmt.Errorf("canonicalize paths: %w", err)
	}

	return nil
}

func (w *workflow) Summary(ctx context.Context, args SummaryArgs) error {
	report, err := w.reports.Load(args.Report)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	rows := make([]controller.FileSummary, 0, len(report.Project.Files))
	for _, file := range report.Project.Files {
		rows = append(rows, controller.FileSummary{
			Path:       file.Name,
			Statements: file.Metrics.Statements,
			Covered:    file.Metrics.CoveredStatements,
		})
	}

	return w.ui.DisplaySummary(ctx, rows)
}
