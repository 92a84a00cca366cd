package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/rsbridge/internal/rules"
)

// GitHubActionsReporter formats findings as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},title={title}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(findings []Finding, _ ReportMetadata) error {
	for _, f := range SortFindings(findings) {
		parts := []string{
			"file=" + escapeGitHubProperty(f.File.RelPath),
			fmt.Sprintf("line=%d", f.Line),
			"title=" + escapeGitHubProperty(f.RuleKey),
		}

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			priorityToGitHubLevel(f.Priority),
			strings.Join(parts, ","),
			escapeGitHubMessage(f.Message),
		); err != nil {
			return err
		}
	}

	return nil
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

// priorityToGitHubLevel maps a host priority to GitHub Actions levels.
func priorityToGitHubLevel(p rules.Priority) string {
	switch p {
	case rules.PriorityBlocker:
		return ghLevelError
	case rules.PriorityCritical, rules.PriorityMajor:
		return ghLevelWarning
	case rules.PriorityMinor, rules.PriorityInfo:
		return ghLevelNotice
	default:
		return ghLevelWarning
	}
}

// escapeGitHubMessage escapes "%", "\r" and "\n" in workflow command messages.
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes workflow command properties, which also
// reserve ":" and ",".
func escapeGitHubProperty(s string) string {
	s = escapeGitHubMessage(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
