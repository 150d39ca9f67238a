package domain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/covfold/internal/adapter"
	"gooze.dev/pkg/covfold/internal/controller"
	m "gooze.dev/pkg/covfold/internal/model"
)

func newTestWorkflow(t *testing.T) (Workflow, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	store := adapter.NewLocalFragmentStore()
	reports := adapter.NewLocalReportWriter()
	ui := controller.NewSimpleUI(cmd)

	workflow := NewWorkflow(
		store,
		reports,
		ui,
		NewAggregator(store),
		NewCanonicalizer(adapter.NewLocalIstanbulFile(), adapter.NewLocalCoverageConfigStore()),
	)

	return workflow, &buf
}

func TestWorkflow_MergeMissingFragmentDir(t *testing.T) {
	workflow, buf := newTestWorkflow(t)
	output := filepath.Join(t.TempDir(), "coverage.xml")

	err := workflow.Merge(context.Background(), MergeArgs{
		Fragments: m.Path(filepath.Join(t.TempDir(), "absent")),
		Output:    m.Path(output),
		Workers:   1,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "does not exist")

	// Nothing to merge: no report is emitted and any previous one is untouched.
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWorkflow_MergeEmptyDirEmitsEmptyReport(t *testing.T) {
	workflow, buf := newTestWorkflow(t)
	output := m.Path(filepath.Join(t.TempDir(), "coverage.xml"))

	err := workflow.Merge(context.Background(), MergeArgs{
		Fragments: m.Path(t.TempDir()),
		Output:    output,
		Workers:   1,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Found 0 fragment(s)")

	report, err := adapter.NewLocalReportWriter().Load(output)
	require.NoError(t, err)
	assert.Empty(t, report.Project.Files)
}

func TestWorkflow_MergeEndToEnd(t *testing.T) {
	workflow, buf := newTestWorkflow(t)

	store := adapter.NewLocalFragmentStore()
	fragments := m.Path(t.TempDir())

	_, err := store.Write(fragments, m.Fragment{Files: map[m.Path]m.FileLines{
		"/workspace/src/a.php": {10: m.StatusHit, 11: m.StatusMiss},
	}})
	require.NoError(t, err)

	_, err = store.Write(fragments, m.Fragment{Files: map[m.Path]m.FileLines{
		"/workspace/src/a.php": {10: m.StatusMiss, 12: m.StatusHit},
		"/tmp/outside.php":     {1: m.StatusHit},
	}})
	require.NoError(t, err)

	output := m.Path(filepath.Join(t.TempDir(), "coverage.xml"))

	err = workflow.Merge(context.Background(), MergeArgs{
		Fragments: fragments,
		Output:    output,
		Include:   m.InclusionScope{"/workspace/"},
		Workers:   2,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Found 2 fragment(s)")
	assert.Contains(t, out, "Merged 2 fragment(s)")
	assert.Contains(t, out, "Wrote report for 1 file(s)")

	report, err := adapter.NewLocalReportWriter().Load(output)
	require.NoError(t, err)
	require.Len(t, report.Project.Files, 1)

	file := report.Project.Files[0]
	assert.Equal(t, "/workspace/src/a.php", file.Name)
	assert.Equal(t, 3, file.Metrics.Statements)
	assert.Equal(t, 2, file.Metrics.CoveredStatements)
}

func TestWorkflow_MergeReportWriteFailure(t *testing.T) {
	workflow, _ := newTestWorkflow(t)

	fragments := m.Path(t.TempDir())
	_, err := adapter.NewLocalFragmentStore().Write(fragments, m.Fragment{Files: map[m.Path]m.FileLines{
		"a.php": {1: m.StatusHit},
	}})
	require.NoError(t, err)

	// Parent of the output path is a regular file, so the write must fail.
	blocker := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err = workflow.Merge(context.Background(), MergeArgs{
		Fragments: fragments,
		Output:    m.Path(filepath.Join(blocker, "coverage.xml")),
		Workers:   1,
	})
	assert.Error(t, err)
}

func TestWorkflow_RemapReportsEntryCount(t *testing.T) {
	t.Setenv(adapter.RemapEnvKey, "")

	workflow, buf := newTestWorkflow(t)

	coveragePath := writeCoverageFixture(t, t.TempDir())

	err := workflow.Remap(context.Background(), RemapArgs{
		CoverageFile: coveragePath,
		Rules:        testRules,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Remapped 1 entry")
}

func TestWorkflow_RemapNoChangesIsSilent(t *testing.T) {
	t.Setenv(adapter.RemapEnvKey, "")

	workflow, buf := newTestWorkflow(t)

	err := workflow.Remap(context.Background(), RemapArgs{Rules: testRules})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestWorkflow_Summary(t *testing.T) {
	workflow, buf := newTestWorkflow(t)

	model := m.NewModel()
	model.MergeLine("/workspace/src/a.php", 1, m.StatusHit)
	model.MergeLine("/workspace/src/a.php", 2, m.StatusMiss)

	output := m.Path(filepath.Join(t.TempDir(), "coverage.xml"))
	require.NoError(t, adapter.NewLocalReportWriter().Write(output, m.BuildClover(model, time.Now())))

	err := workflow.Summary(context.Background(), SummaryArgs{Report: output})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "/workspace/src/a.php")
	assert.Contains(t, out, "TOTAL FILES 1")
}

func TestWorkflow_SummaryMissingReport(t *testing.T) {
	workflow, _ := newTestWorkflow(t)

	err := workflow.Summary(context.Background(), SummaryArgs{
		Report: m.Path(filepath.Join(t.TempDir(), "absent.xml")),
	})
	assert.Error(t, err)
}
