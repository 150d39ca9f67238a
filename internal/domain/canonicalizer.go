package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gooze.dev/pkg/covfold/internal/adapter"
	m "gooze.dev/pkg/covfold/internal/model"
)

// RemapArgs contains the arguments for a canonicalization pass.
type RemapArgs struct {
	// CoverageFile is the JS tool's aggregate coverage data file.
	// Empty skips that target.
	CoverageFile m.Path
	// ConfigFile is the coverage tool's own configuration artifact.
	// Empty skips that target.
	ConfigFile m.Path
	Rules      m.RuleSet
}

// RemapResult reports what a canonicalization pass changed.
type RemapResult struct {
	// Entries is the number of coverage entries whose key or embedded
	// path was rewritten. Zero is a valid outcome on already-canonical
	// data.
	Entries int
	// ConfigRewritten reports whether the config artifact was updated.
	ConfigRewritten bool
}

// Canonicalizer rewrites execution-environment paths into canonical
// workspace paths. One idempotent pass serves both call sites: the
// defensive after-each-test-unit invocation and the end-of-run pass.
type Canonicalizer interface {
	Canonicalize(ctx context.Context, args RemapArgs) (RemapResult, error)
}

type canonicalizer struct {
	coverage adapter.IstanbulFile
	config   adapter.CoverageConfigStore
}

// NewCanonicalizer creates a Canonicalizer over the provided adapters.
func NewCanonicalizer(coverage adapter.IstanbulFile, config adapter.CoverageConfigStore) Canonicalizer {
	return &canonicalizer{coverage: coverage, config: config}
}

// Canonicalize remaps the coverage data file and adjusts the coverage tool
// configuration. The two targets are independent: a failure on one is
// logged and surfaced while the other still runs. Re-running over already
// canonical data is a no-op because the canonical prefix never matches a
// rule's From side.
func (c *canonicalizer) Canonicalize(ctx context.Context, args RemapArgs) (RemapResult, error) {
	if err := ctx.Err(); err != nil {
		return RemapResult{}, err
	}

	var (
		result RemapResult
		errs   []error
	)

	if args.CoverageFile != "" {
		count, err := c.remapCoverageFile(args.CoverageFile, args.Rules)
		if err != nil {
			slog.Error("failed to remap coverage data", "path", args.CoverageFile, "error", err)
			errs = append(errs, err)
		}

		result.Entries = count
	}

	if args.ConfigFile != "" {
		rewritten, err := c.rewriteConfig(args.ConfigFile, args.Rules)
		if err != nil {
			slog.Error("failed to rewrite coverage config", "path", args.ConfigFile, "error", err)
			errs = append(errs, err)
		}

		result.ConfigRewritten = rewritten
	}

	return result, errors.Join(errs...)
}

func (c *canonicalizer) remapCoverageFile(path m.Path, rules m.RuleSet) (int, error) {
	data, err := c.coverage.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("coverage data file absent, nothing to remap", "path", path)
			return 0, nil
		}

		return 0, err
	}

	remapped := make(adapter.IstanbulData, len(data))
	count := 0

	for key, entry := range data {
		newKey, keyChanged := rules.Apply(key)

		newEntry, entryChanged, err := adapter.RemapEntry(entry, rules)
		if err != nil {
			return 0, fmt.Errorf("entry %s: %w", key, err)
		}

		if _, exists := remapped[newKey]; exists {
			slog.Warn("duplicate coverage entry after remap, keeping first", "path", newKey)
			continue
		}

		remapped[newKey] = newEntry

		if keyChanged || entryChanged {
			count++
		}
	}

	if count == 0 {
		return 0, nil
	}

	if err := c.coverage.Save(path, remapped); err != nil {
		return 0, err
	}

	slog.Info("remapped coverage entries", "path", path, "entries", count)

	return count, nil
}

func (c *canonicalizer) rewriteConfig(path m.Path, rules m.RuleSet) (bool, error) {
	cfg, err := c.config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("coverage config absent, nothing to rewrite", "path", path)
			return false, nil
		}

		return false, err
	}

	pairs := make([][2]string, 0, len(rules))
	for _, rule := range rules {
		pairs = append(pairs, [2]string{rule.From, rule.To})
	}

	cfg.Remap = pairs

	if err := c.config.Save(path, cfg); err != nil {
		return false, err
	}

	slog.Info("rewrote coverage config remap pairs", "path", path, "pairs", len(pairs))

	return true, nil
}
