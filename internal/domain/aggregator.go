package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/covfold/internal/adapter"
	m "gooze.dev/pkg/covfold/internal/model"
	"gooze.dev/pkg/covfold/pkg"
)

// Aggregator folds fragment files into one unified coverage model.
type Aggregator interface {
	// Aggregate parses the listed fragment files and merges them,
	// restricted to the inclusion scope. It returns the model and the
	// number of fragments that were skipped (unreadable or empty).
	Aggregate(ctx context.Context, paths []m.Path, scope m.InclusionScope, workers int) (*m.Model, int, error)
}

type aggregator struct {
	store adapter.FragmentStore
}

// NewAggregator creates an Aggregator reading from the given store.
func NewAggregator(store adapter.FragmentStore) Aggregator {
	return &aggregator{store: store}
}

// Aggregate parses fragments concurrently and spills them to disk, then
// folds the spill sequentially so large runs stay bounded in memory. The
// OR-merge is commutative and associative, so parse completion order does
// not affect the resulting model. A corrupt fragment is skipped with a log
// line; it never aborts the run.
func (a *aggregator) Aggregate(ctx context.Context, paths []m.Path, scope m.InclusionScope, workers int) (*m.Model, int, error) {
	model := m.NewModel()
	if len(paths) == 0 {
		return model, 0, nil
	}

	spill, err := pkg.NewSpill[m.Fragment]("covfold-fragments")
	if err != nil {
		return nil, 0, fmt.Errorf("create fragment spill: %w", err)
	}

	defer func() {
		if err := spill.Discard(); err != nil {
			slog.Warn("failed to discard fragment spill", "error", err)
		}
	}()

	var skipped atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		group.SetLimit(workers)
	}

	for _, path := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			fragment, err := a.store.Read(path)
			if err != nil {
				slog.Warn("skipping unreadable fragment", "path", path, "error", err)
				skipped.Add(1)

				return nil
			}

			if fragment.Empty() {
				slog.Debug("skipping empty fragment", "path", path)
				skipped.Add(1)

				return nil
			}

			return spill.Append(fragment)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, 0, fmt.Errorf("parse fragments: %w", err)
	}

	err = spill.Range(func(_ uint64, fragment m.Fragment) error {
		model.MergeFragment(fragment, scope)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("fold fragments: %w", err)
	}

	slog.Info("aggregated fragments",
		"found", len(paths),
		"merged", int64(len(paths))-skipped.Load(),
		"skipped", skipped.Load(),
		"files", model.Len(),
	)

	return model, int(skipped.Load()), nil
}
