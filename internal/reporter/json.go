package reporter

import (
	"encoding/json"
	"io"

	"github.com/wharflab/rsbridge/internal/rules"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains results grouped by file.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the number of tracked source files.
	FilesScanned int `json:"files_scanned"`
	// RulesEnabled is the number of active rules.
	RulesEnabled int `json:"rules_enabled"`
	// Languages lists the analysed languages.
	Languages []string `json:"languages,omitempty"`
}

// FileResult contains the findings of a single file.
type FileResult struct {
	File     string    `json:"file"`
	Language string    `json:"language"`
	Issues   []Finding `json:"issues"`
}

// Summary contains aggregate statistics about findings.
type Summary struct {
	Total    int `json:"total"`
	Blocker  int `json:"blocker"`
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Info     int `json:"info"`
	Files    int `json:"files"`
}

// JSONReporter formats findings as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(findings []Finding, metadata ReportMetadata) error {
	byFile := make(map[string][]Finding)
	filesOrder := make([]string, 0)

	for _, f := range SortFindings(findings) {
		file := f.File.RelPath
		if _, exists := byFile[file]; !exists {
			filesOrder = append(filesOrder, file)
		}
		byFile[file] = append(byFile[file], f)
	}

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(filesOrder)),
		Summary:      calculateSummary(findings, len(filesOrder)),
		FilesScanned: metadata.FilesScanned,
		RulesEnabled: metadata.RulesEnabled,
		Languages:    metadata.Languages,
	}

	for _, file := range filesOrder {
		issues := byFile[file]
		output.Files = append(output.Files, FileResult{
			File:     file,
			Language: issues[0].File.Language,
			Issues:   issues,
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from findings.
func calculateSummary(findings []Finding, fileCount int) Summary {
	summary := Summary{
		Total: len(findings),
		Files: fileCount,
	}

	for _, f := range findings {
		switch f.Priority {
		case rules.PriorityBlocker:
			summary.Blocker++
		case rules.PriorityCritical:
			summary.Critical++
		case rules.PriorityMajor:
			summary.Major++
		case rules.PriorityMinor:
			summary.Minor++
		case rules.PriorityInfo:
			summary.Info++
		}
	}

	return summary
}
