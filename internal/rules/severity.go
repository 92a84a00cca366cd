// Package rules provides the ReSharper rule model: severities, host priorities,
// rule records, the IssueType catalog parser and per-language rule repositories.
package rules

import (
	"encoding/json"
	"fmt"

	"github.com/wharflab/rsbridge/internal/diag"
)

// Severity is a ReSharper inspection severity as it appears in IssueType
// catalogs, inspection reports and exported settings.
//
// See https://www.jetbrains.com/help/resharper/Code_Analysis__Configuring_Warnings.html
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Severity int

const (
	// SeverityError prevents the code from compiling.
	SeverityError Severity = iota
	// SeverityWarning does not break the build but is likely a real problem.
	SeverityWarning
	// SeveritySuggestion points at code structure worth knowing about.
	SeveritySuggestion
	// SeverityInfo is undocumented but used by a few issue types (InvocationIsSkipped).
	SeverityInfo
	// SeverityHint is the lowest visible severity.
	SeverityHint
	// SeverityDoNotShow hides the inspection.
	SeverityDoNotShow
)

var severityNames = [...]string{
	SeverityError:      "ERROR",
	SeverityWarning:    "WARNING",
	SeveritySuggestion: "SUGGESTION",
	SeverityInfo:       "INFO",
	SeverityHint:       "HINT",
	SeverityDoNotShow:  "DO_NOT_SHOW",
}

// Severities returns every known severity in declaration order.
func Severities() []Severity {
	return []Severity{
		SeverityError,
		SeverityWarning,
		SeveritySuggestion,
		SeverityInfo,
		SeverityHint,
		SeverityDoNotShow,
	}
}

// String returns the ReSharper name of the severity.
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// Priority translates s to the host priority scale. The mapping is total.
func (s Severity) Priority() Priority {
	switch s {
	case SeverityError:
		return PriorityBlocker
	case SeverityWarning:
		return PriorityCritical
	case SeveritySuggestion:
		return PriorityMinor
	default:
		// HINT, INFO and DO_NOT_SHOW all land on INFO.
		return PriorityInfo
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := LookupSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// LookupSeverity returns the severity with the exact ReSharper name text.
// Matching is case sensitive, like the enum names inspectcode writes.
func LookupSeverity(text string) (Severity, error) {
	for i, name := range severityNames {
		if name == text {
			return Severity(i), nil
		}
	}
	return SeverityWarning, fmt.Errorf("unknown severity: %q", text)
}

// ParseSeverity parses severity text found in an external document.
// Unknown or malformed text never fails the caller: it yields SeverityWarning
// and a warning is recorded in msgs.
func ParseSeverity(text string, msgs *diag.Messages) Severity {
	s, err := LookupSeverity(text)
	if err != nil {
		msgs.Warnf("invalid ReSharper severity %q, using %s: %v", text, SeverityWarning, err)
		return SeverityWarning
	}
	return s
}
