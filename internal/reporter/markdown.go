package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wharflab/rsbridge/internal/rules"
)

// MarkdownReporter formats findings as concise markdown tables, most severe
// first.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(findings []Finding, _ ReportMetadata) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(r.writer, "**No issues found**")
		return err
	}

	sorted := SortFindingsByPriority(findings)

	fileSet := make(map[string]struct{})
	for _, f := range sorted {
		fileSet[f.File.RelPath] = struct{}{}
	}

	var b strings.Builder
	if len(fileSet) == 1 {
		fmt.Fprintf(&b, "**%d %s** in `%s`\n\n", len(sorted), pluralize(len(sorted), "issue", "issues"), sorted[0].File.RelPath)
		b.WriteString("| Line | Rule | Issue |\n")
		b.WriteString("|------|------|-------|\n")
		for _, f := range sorted {
			fmt.Fprintf(&b, "| %d | `%s` | %s %s |\n", f.Line, f.RuleKey, priorityEmoji(f.Priority), escapeMarkdown(f.Message))
		}
	} else {
		fmt.Fprintf(&b, "**%d %s** across %d files\n\n", len(sorted), pluralize(len(sorted), "issue", "issues"), len(fileSet))
		b.WriteString("| File | Line | Rule | Issue |\n")
		b.WriteString("|------|------|------|-------|\n")
		for _, f := range sorted {
			fmt.Fprintf(&b, "| %s | %d | `%s` | %s %s |\n",
				escapeMarkdown(f.File.RelPath), f.Line, f.RuleKey, priorityEmoji(f.Priority), escapeMarkdown(f.Message))
		}
	}

	_, err := io.WriteString(r.writer, b.String())
	return err
}

// SortFindingsByPriority sorts findings by priority (blockers first), then by
// file and line.
func SortFindingsByPriority(findings []Finding) []Finding {
	sorted := SortFindings(findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// priorityEmoji returns an emoji indicator for the priority.
func priorityEmoji(p rules.Priority) string {
	switch p {
	case rules.PriorityBlocker:
		return "❌"
	case rules.PriorityCritical, rules.PriorityMajor:
		return "⚠️"
	case rules.PriorityMinor:
		return "💡"
	default:
		return "ℹ️"
	}
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
