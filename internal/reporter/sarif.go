package reporter

import (
	"io"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/wharflab/rsbridge/internal/rules"
)

// Default SARIF tool information.
const (
	defaultToolName = "rsbridge"
	defaultToolURI  = "https://github.com/wharflab/rsbridge"
)

// SARIFReporter formats findings as SARIF (Static Analysis Results Interchange Format).
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(findings []Finding, _ ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	ruleSet := make(map[string]Finding)
	fileSet := make(map[string]struct{})
	for _, f := range findings {
		if _, exists := ruleSet[f.RuleKey]; !exists {
			ruleSet[f.RuleKey] = f
		}
		fileSet[f.File.RelPath] = struct{}{}
	}

	ruleKeys := make([]string, 0, len(ruleSet))
	for key := range ruleSet {
		ruleKeys = append(ruleKeys, key)
	}
	sort.Strings(ruleKeys)

	for _, key := range ruleKeys {
		f := ruleSet[key]
		rule := run.AddRule(key)
		if f.Description != "" {
			rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(f.Description))
		}
		if f.WikiLink != "" {
			rule.WithHelpURI(f.WikiLink)
		}
	}

	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	for _, f := range SortFindings(findings) {
		region := sarif.NewRegion().WithStartLine(f.Line)
		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(f.File.RelPath)).
			WithRegion(region)

		result := sarif.NewRuleResult(f.RuleKey).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(priorityToSARIFLevel(f.Priority)).
			WithLocations([]*sarif.Location{
				sarif.NewLocationWithPhysicalLocation(physicalLocation),
			})
		run.AddResult(result)
	}

	report.AddRun(run)

	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// priorityToSARIFLevel maps a host priority to SARIF levels.
func priorityToSARIFLevel(p rules.Priority) string {
	switch p {
	case rules.PriorityBlocker:
		return sarifLevelError
	case rules.PriorityCritical, rules.PriorityMajor:
		return sarifLevelWarning
	case rules.PriorityMinor, rules.PriorityInfo:
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
