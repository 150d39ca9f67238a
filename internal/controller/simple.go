package controller

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/covfold/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayMissingStore reports an absent fragment directory. This is a
// valid empty outcome, not an error.
func (s *SimpleUI) DisplayMissingStore(ctx context.Context, dir m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Fragment directory %s does not exist, nothing to merge\n", dir)
}

// DisplayFragments lists the discovered fragment files.
func (s *SimpleUI) DisplayFragments(ctx context.Context, dir m.Path, names []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Found %d fragment(s) in %s\n", len(names), dir)

	for _, name := range names {
		s.printf("  %s\n", filepath.Base(string(name)))
	}
}

// DisplayAggregated reports merge progress counts.
func (s *SimpleUI) DisplayAggregated(ctx context.Context, merged int, skipped int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if skipped > 0 {
		s.printf("Merged %d fragment(s), skipped %d\n", merged, skipped)
		return
	}

	s.printf("Merged %d fragment(s)\n", merged)
}

// DisplayRemapCount reports how many coverage entries were rewritten.
// Zero remapped entries is a valid, silent outcome.
func (s *SimpleUI) DisplayRemapCount(ctx context.Context, target m.Path, entries int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if entries == 0 {
		return
	}

	s.printf("Remapped %d entr%s in %s\n", entries, pluralY(entries), target)
}

// DisplayReportWritten reports the emitted report artifact.
func (s *SimpleUI) DisplayReportWritten(ctx context.Context, path m.Path, files int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Wrote report for %d file(s) to %s\n", files, path)
}

var (
	percentHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	percentMidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	percentLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// DisplaySummary renders the per-file coverage table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, rows []FileSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Statements", "Covered", "%"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	totalStatements := 0
	totalCovered := 0

	for _, row := range rows {
		table.Append([]string{
			row.Path,
			fmt.Sprintf("%d", row.Statements),
			fmt.Sprintf("%d", row.Covered),
			formatPercent(row.Percent()),
		})

		totalStatements += row.Statements
		totalCovered += row.Covered
	}

	total := FileSummary{Statements: totalStatements, Covered: totalCovered}
	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(rows)),
		fmt.Sprintf("%d", totalStatements),
		fmt.Sprintf("%d", totalCovered),
		formatPercent(total.Percent()),
	})

	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

func formatPercent(percent float64) string {
	text := fmt.Sprintf("%.1f", percent)

	switch {
	case percent >= 80:
		return percentHighStyle.Render(text)
	case percent >= 50:
		return percentMidStyle.Render(text)
	default:
		return percentLowStyle.Render(text)
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}

	return "ies"
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
