package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/covfold/internal/adapter"
	m "gooze.dev/pkg/covfold/internal/model"
)

func writeFragment(t *testing.T, store adapter.FragmentStore, dir m.Path, files map[m.Path]m.FileLines) {
	t.Helper()

	_, err := store.Write(dir, m.Fragment{Files: files})
	require.NoError(t, err)
}

func TestAggregator_MergesFragments(t *testing.T) {
	store := adapter.NewLocalFragmentStore()
	dir := m.Path(t.TempDir())

	writeFragment(t, store, dir, map[m.Path]m.FileLines{
		"a.php": {10: m.StatusHit, 11: m.StatusMiss},
	})
	writeFragment(t, store, dir, map[m.Path]m.FileLines{
		"a.php": {10: m.StatusMiss, 12: m.StatusHit},
	})

	paths, err := store.List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	model, skipped, err := NewAggregator(store).Aggregate(context.Background(), paths, nil, 2)
	require.NoError(t, err)
	assert.Zero(t, skipped)

	status, _ := model.Status("a.php", 10)
	assert.Equal(t, m.StatusHit, status)
	status, _ = model.Status("a.php", 11)
	assert.Equal(t, m.StatusMiss, status)
	status, _ = model.Status("a.php", 12)
	assert.Equal(t, m.StatusHit, status)
}

func TestAggregator_CorruptFragmentIsIsolated(t *testing.T) {
	store := adapter.NewLocalFragmentStore()
	dir := m.Path(t.TempDir())

	writeFragment(t, store, dir, map[m.Path]m.FileLines{
		"a.php": {10: m.StatusHit},
	})
	require.NoError(t, os.WriteFile(filepath.Join(string(dir), "cov-0-0.json"), []byte("{corrupt"), 0o600))

	paths, err := store.List(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	model, skipped, err := NewAggregator(store).Aggregate(context.Background(), paths, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)

	status, ok := model.Status("a.php", 10)
	require.True(t, ok)
	assert.Equal(t, m.StatusHit, status)
}

func TestAggregator_ZeroFragments(t *testing.T) {
	store := adapter.NewLocalFragmentStore()

	model, skipped, err := NewAggregator(store).Aggregate(context.Background(), nil, nil, 2)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Zero(t, model.Len())
}

func TestAggregator_AppliesInclusionScope(t *testing.T) {
	store := adapter.NewLocalFragmentStore()
	dir := m.Path(t.TempDir())

	writeFragment(t, store, dir, map[m.Path]m.FileLines{
		"/workspace/src/a.php": {1: m.StatusHit},
		"/usr/lib/vendor.php":  {1: m.StatusHit},
	})

	paths, err := store.List(dir)
	require.NoError(t, err)

	scope := m.InclusionScope{"/workspace/"}

	model, _, err := NewAggregator(store).Aggregate(context.Background(), paths, scope, 1)
	require.NoError(t, err)
	assert.Equal(t, []m.Path{"/workspace/src/a.php"}, model.Files())
}

func TestAggregator_EmptyFragmentIsSkipped(t *testing.T) {
	store := adapter.NewLocalFragmentStore()
	dir := m.Path(t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(string(dir), "cov-1-1.json"), []byte("{}"), 0o600))

	paths, err := store.List(dir)
	require.NoError(t, err)

	model, skipped, err := NewAggregator(store).Aggregate(context.Background(), paths, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Zero(t, model.Len())
}
