package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnmappedPriority is returned when a host priority has no ReSharper severity.
var ErrUnmappedPriority = errors.New("priority has no ReSharper severity")

// Priority is the host's rule priority.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Priority int

const (
	PriorityBlocker Priority = iota
	PriorityCritical
	// PriorityMajor is never produced from a ReSharper severity but profiles
	// edited on the host side may carry it.
	PriorityMajor
	PriorityMinor
	PriorityInfo
)

// String returns the host name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityBlocker:
		return "BLOCKER"
	case PriorityCritical:
		return "CRITICAL"
	case PriorityMajor:
		return "MAJOR"
	case PriorityMinor:
		return "MINOR"
	case PriorityInfo:
		return "INFO"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Severity translates p back to a ReSharper severity. The inverse mapping is
// partial; callers must treat ErrUnmappedPriority as a data error.
func (p Priority) Severity() (Severity, error) {
	switch p {
	case PriorityBlocker:
		return SeverityError, nil
	case PriorityCritical, PriorityMajor:
		return SeverityWarning, nil
	case PriorityMinor:
		return SeveritySuggestion, nil
	case PriorityInfo:
		return SeverityHint, nil
	default:
		return SeverityWarning, fmt.Errorf("%w: %s", ErrUnmappedPriority, p)
	}
}

// MarshalJSON implements json.Marshaler.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePriority(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePriority parses a host priority name, case insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BLOCKER":
		return PriorityBlocker, nil
	case "CRITICAL":
		return PriorityCritical, nil
	case "MAJOR":
		return PriorityMajor, nil
	case "MINOR":
		return PriorityMinor, nil
	case "INFO":
		return PriorityInfo, nil
	default:
		return PriorityInfo, fmt.Errorf("unknown priority: %q", s)
	}
}
