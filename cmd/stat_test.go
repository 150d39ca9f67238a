package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/covfold/internal/model"
)

func TestStatCmd_ReadsReportFromOutputFlag(t *testing.T) {
	fake := swapWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newStatCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"--output", "./reports/coverage.xml", "stat"})
	err := cmd.Execute()
	require.NoError(t, err)

	require.NotNil(t, fake.summaryArgs)
	assert.Equal(t, m.Path("./reports/coverage.xml"), fake.summaryArgs.Report)
}

func TestStatCmd_PropagatesWorkflowError(t *testing.T) {
	fake := swapWorkflow(t)
	fake.err = assert.AnError

	cmd := newRootCmd()
	cmd.AddCommand(newStatCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"stat"})
	err := cmd.Execute()
	assert.ErrorIs(t, err, assert.AnError)
}
