package adapter

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	m "gooze.dev/pkg/covfold/internal/model"
)

// ReportWriter serializes the final report artifact. The previous report is
// fully replaced on every run; a half-written report is never observable
// because the document is marshaled in memory first and lands at the final
// path through a rename.
type ReportWriter interface {
	Write(path m.Path, report m.CloverReport) error
	Load(path m.Path) (m.CloverReport, error)
}

// LocalReportWriter is the disk-backed ReportWriter implementation.
type LocalReportWriter struct{}

// NewLocalReportWriter constructs a LocalReportWriter.
func NewLocalReportWriter() *LocalReportWriter {
	return &LocalReportWriter{}
}

// Write emits the report to path, creating parent directories as needed.
func (w *LocalReportWriter) Write(path m.Path, report m.CloverReport) error {
	body, err := xml.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	document := append([]byte(xml.Header), body...)
	document = append(document, '\n')

	dir := filepath.Dir(string(path))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".covfold-report-*.xml")
	if err != nil {
		return fmt.Errorf("create temp report file: %w", err)
	}

	if _, err := tmp.Write(document); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp report file: %w", err)
	}

	if err := os.Rename(tmp.Name(), string(path)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace report: %w", err)
	}

	return nil
}

// Load parses a previously emitted report.
func (w *LocalReportWriter) Load(path m.Path) (m.CloverReport, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return m.CloverReport{}, fmt.Errorf("read report: %w", err)
	}

	var report m.CloverReport
	if err := xml.Unmarshal(raw, &report); err != nil {
		return m.CloverReport{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}
