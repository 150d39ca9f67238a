package model

import (
	"encoding/xml"
	"time"
)

// Clover report document. The schema is the line-level subset consumed by
// CI dashboards: coverage > project > file > line, where count is the
// aggregated hit indicator for each executable line.

// CloverReport is the root element of the emitted report.
type CloverReport struct {
	XMLName   xml.Name      `xml:"coverage"`
	Generated int64         `xml:"generated,attr"`
	Project   CloverProject `xml:"project"`
}

// CloverProject groups all files of one pipeline run.
type CloverProject struct {
	Timestamp int64         `xml:"timestamp,attr"`
	Files     []CloverFile  `xml:"file"`
	Metrics   CloverMetrics `xml:"metrics"`
}

// CloverFile lists the executable lines of one source file.
type CloverFile struct {
	Name    string        `xml:"name,attr"`
	Lines   []CloverLine  `xml:"line"`
	Metrics CloverMetrics `xml:"metrics"`
}

// CloverLine records a single executable line and its hit count.
type CloverLine struct {
	Num   int    `xml:"num,attr"`
	Type  string `xml:"type,attr"`
	Count int    `xml:"count,attr"`
}

// CloverMetrics summarizes statement counts at file or project level.
type CloverMetrics struct {
	Statements        int `xml:"statements,attr"`
	CoveredStatements int `xml:"coveredstatements,attr"`
}

const cloverLineTypeStatement = "stmt"

// BuildClover derives the report document from the unified model. It is a
// pure function of the model: every scope decision already happened during
// aggregation. Dead lines are omitted; an empty model yields a valid empty
// report. File and line ordering is sorted so repeated runs over the same
// model emit byte-identical documents apart from timestamps.
func BuildClover(m *Model, now time.Time) CloverReport {
	report := CloverReport{
		Generated: now.Unix(),
		Project: CloverProject{
			Timestamp: now.Unix(),
			Files:     []CloverFile{},
		},
	}

	for _, path := range m.Files() {
		file := CloverFile{
			Name:  string(path),
			Lines: []CloverLine{},
		}

		for _, line := range m.Lines(path) {
			status, ok := m.Status(path, line)
			if !ok || status == StatusDead {
				continue
			}

			count := 0
			if status == StatusHit {
				count = 1
			}

			file.Lines = append(file.Lines, CloverLine{
				Num:   line,
				Type:  cloverLineTypeStatement,
				Count: count,
			})
		}

		file.Metrics = CloverMetrics{
			Statements:        m.Statements(path),
			CoveredStatements: m.Covered(path),
		}

		report.Project.Files = append(report.Project.Files, file)
		report.Project.Metrics.Statements += file.Metrics.Statements
		report.Project.Metrics.CoveredStatements += file.Metrics.CoveredStatements
	}

	return report
}
