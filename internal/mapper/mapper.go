// Package mapper turns parsed report issues into host issue records for one
// language, dropping the issues that cannot be attached.
package mapper

import (
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/report"
)

// TrackedFile is a source file known to the analysis.
type TrackedFile struct {
	// Path is the absolute path.
	Path string `json:"path"`
	// RelPath is Path relative to the solution directory, slash separated.
	RelPath string `json:"relPath"`
	// Language is the host language key of the file.
	Language string `json:"language"`
}

// FileResolver resolves report paths against the analysed project.
type FileResolver interface {
	// Locate turns a report path into an absolute path.
	Locate(reportPath string) string
	// Lookup returns the tracked file at an absolute path.
	Lookup(path string) (TrackedFile, bool)
}

// Record is an issue ready for the host.
type Record struct {
	RepositoryKey string      `json:"repository"`
	RuleKey       string      `json:"rule"`
	File          TrackedFile `json:"file"`
	Line          int         `json:"line"`
	Message       string      `json:"message"`
}

// Mapper maps the issues of one language.
type Mapper struct {
	Language        string
	RepositoryKey   string
	EnabledRuleKeys map[string]struct{}
	Files           FileResolver
	Messages        *diag.Messages
}

// Map returns the records of the issues that have a file and a line, whose
// file is tracked with the mapper's language and whose rule is active.
// Records keep report order. Issues of tracked files in another language are
// dropped without a message.
func (m *Mapper) Map(issues []report.Issue) []Record {
	msgs := m.Messages
	if msgs == nil {
		msgs = diag.Discard()
	}

	var records []Record
	for _, issue := range issues {
		if !issue.HasFileAndLine() {
			skipped(msgs, issue, "which has no associated file.")
			continue
		}

		path := m.Files.Locate(issue.File)
		file, ok := m.Files.Lookup(path)
		if !ok {
			skipped(msgs, issue, `whose file "`+path+`" is not tracked.`)
			continue
		}
		if file.Language != m.Language {
			continue
		}

		if _, ok := m.EnabledRuleKeys[issue.TypeID]; !ok {
			skipped(msgs, issue, `because the rule "`+issue.TypeID+`" is either missing or inactive in the quality profile.`)
			continue
		}

		records = append(records, Record{
			RepositoryKey: m.RepositoryKey,
			RuleKey:       issue.TypeID,
			File:          file,
			Line:          issue.Line,
			Message:       issue.Message,
		})
	}
	return records
}

func skipped(msgs *diag.Messages, issue report.Issue, reason string) {
	msgs.Infof("Skipping the ReSharper issue at line %d %s", issue.ReportLine, reason)
}
