package rules

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/wharflab/rsbridge/internal/diag"
)

func TestSeverity_Priority(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s    Severity
		want Priority
	}{
		{SeverityError, PriorityBlocker},
		{SeverityWarning, PriorityCritical},
		{SeveritySuggestion, PriorityMinor},
		{SeverityInfo, PriorityInfo},
		{SeverityHint, PriorityInfo},
		{SeverityDoNotShow, PriorityInfo},
	}

	if len(tests) != len(Severities()) {
		t.Fatalf("table covers %d severities, want %d", len(tests), len(Severities()))
	}
	for _, tc := range tests {
		t.Run(tc.s.String(), func(t *testing.T) {
			t.Parallel()
			if got := tc.s.Priority(); got != tc.want {
				t.Errorf("Priority() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestPriority_Severity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p       Priority
		want    Severity
		wantErr bool
	}{
		{PriorityBlocker, SeverityError, false},
		{PriorityCritical, SeverityWarning, false},
		{PriorityMajor, SeverityWarning, false},
		{PriorityMinor, SeveritySuggestion, false},
		{PriorityInfo, SeverityHint, false},
		{Priority(42), SeverityWarning, true},
		{Priority(-1), SeverityWarning, true},
	}

	for _, tc := range tests {
		t.Run(tc.p.String(), func(t *testing.T) {
			t.Parallel()
			got, err := tc.p.Severity()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Severity() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrUnmappedPriority) {
					t.Errorf("error %v is not ErrUnmappedPriority", err)
				}
				return
			}
			if got != tc.want {
				t.Errorf("Severity() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input        string
		want         Severity
		wantWarnings int
	}{
		{"ERROR", SeverityError, 0},
		{"WARNING", SeverityWarning, 0},
		{"SUGGESTION", SeveritySuggestion, 0},
		{"INFO", SeverityInfo, 0},
		{"HINT", SeverityHint, 0},
		{"DO_NOT_SHOW", SeverityDoNotShow, 0},
		{"error", SeverityWarning, 1}, // enum names are case sensitive
		{"", SeverityWarning, 1},
		{"CRITICAL", SeverityWarning, 1},
		{" HINT", SeverityWarning, 1},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			msgs := diag.Discard()
			if got := ParseSeverity(tc.input, msgs); got != tc.want {
				t.Errorf("ParseSeverity(%q) = %s, want %s", tc.input, got, tc.want)
			}
			if n := len(msgs.Warnings()); n != tc.wantWarnings {
				t.Errorf("warnings = %d, want %d", n, tc.wantWarnings)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"blocker", "CRITICAL", "Major", "minor", " info "} {
		if _, err := ParsePriority(name); err != nil {
			t.Errorf("ParsePriority(%q) error = %v", name, err)
		}
	}
	if _, err := ParsePriority("trivial"); err == nil {
		t.Error("ParsePriority(trivial) expected error")
	}
}

func TestSeverity_JSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(SeverityDoNotShow)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"DO_NOT_SHOW"` {
		t.Errorf("Marshal = %s", data)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"SUGGESTION"`), &s); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if s != SeveritySuggestion {
		t.Errorf("Unmarshal = %s", s)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &s); err == nil {
		t.Error("Unmarshal(bogus) expected error")
	}
}

func TestSeverity_String_Unknown(t *testing.T) {
	t.Parallel()
	if got := Severity(99).String(); got != "UNKNOWN" {
		t.Errorf("String() = %q", got)
	}
}
