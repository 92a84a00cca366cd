// Package reporter provides output formatters for mapped ReSharper issues.
//
// The package supports multiple output formats:
//   - text: Human-readable terminal output with colors
//   - json: Machine-readable JSON output
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
//   - github-actions: Native GitHub Actions workflow annotations
//   - markdown: Concise markdown tables
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/wharflab/rsbridge/internal/mapper"
	"github.com/wharflab/rsbridge/internal/profile"
	"github.com/wharflab/rsbridge/internal/rules"
)

// ReportMetadata contains contextual information about the analysis run.
type ReportMetadata struct {
	// FilesScanned is the number of tracked source files.
	FilesScanned int
	// RulesEnabled is the number of active rules across languages.
	RulesEnabled int
	// Languages lists the analysed language keys.
	Languages []string
}

// Finding is a mapped record together with the rule data a report needs.
type Finding struct {
	mapper.Record

	// Priority is the active rule priority of the quality profile.
	Priority rules.Priority `json:"priority"`
	// Severity is the ReSharper severity matching Priority.
	Severity rules.Severity `json:"severity"`
	// Description is the rule description, or its id when empty.
	Description string `json:"description,omitempty"`
	// WikiLink is the rule documentation link.
	WikiLink string `json:"wikiLink,omitempty"`
}

// NewFindings attaches the profile priority and the repository metadata of
// each record's rule. Records of rules missing from the profile keep the
// catalog priority.
func NewFindings(records []mapper.Record, repo *rules.Repository, prof *profile.Profile) []Finding {
	findings := make([]Finding, 0, len(records))
	for _, rec := range records {
		f := Finding{Record: rec, Priority: rules.PriorityMajor, Severity: rules.SeverityWarning}

		rule, ok := repo.Find(rec.RuleKey)
		if ok {
			f.Description = rule.DescriptionOrID()
			f.WikiLink = rule.WikiLink
			f.Priority = rule.Priority()
			f.Severity = rule.Severity
		}
		if prof != nil {
			if active, found := prof.ActiveRule(rec.RepositoryKey, rec.RuleKey); found {
				f.Priority = active.Priority
				if sev, err := active.Priority.Severity(); err == nil {
					f.Severity = sev
				}
			}
		}
		findings = append(findings, f)
	}
	return findings
}

// SortFindings sorts findings by file, line and rule key for stable output.
func SortFindings(findings []Finding) []Finding {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File.RelPath != sorted[j].File.RelPath {
			return sorted[i].File.RelPath < sorted[j].File.RelPath
		}
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].RuleKey < sorted[j].RuleKey
	})
	return sorted
}

// Reporter formats and outputs findings.
type Reporter interface {
	// Report writes findings to the configured output.
	Report(findings []Finding, metadata ReportMetadata) error
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
	// FormatGitHubActions is GitHub Actions workflow command output.
	FormatGitHubActions Format = "github-actions"
	// FormatMarkdown is concise markdown tables.
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a format string into a Format type.
// Returns an error if the format is unknown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif, github-actions, markdown)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// HideSource disables source snippets (text format only).
	HideSource bool

	// ToolVersion is included in SARIF output.
	ToolVersion string

	// ToolName is the tool name for SARIF output.
	ToolName string

	// ToolURI is the tool information URI for SARIF output.
	ToolURI string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		ToolName:    defaultToolName,
		ToolURI:     defaultToolURI,
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts.Writer, TextOptions{Color: opts.Color, HideSource: opts.HideSource}), nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil
	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil
	case FormatMarkdown:
		return NewMarkdownReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
