// Package report reads the issues of an inspectcode XML report.
package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wharflab/rsbridge/internal/rules"
)

// ParseError reports a malformed report or an Issue element that breaks the
// report schema.
type ParseError = rules.ParseError

const (
	rootElement  = "Report"
	issueElement = "Issue"
)

// Issue is one finding of the report.
type Issue struct {
	// TypeID is the rule key.
	TypeID string `json:"typeId"`
	// File is the path as written by inspectcode, relative to the solution
	// directory with Windows separators. Empty when the issue has no file.
	File string `json:"file,omitempty"`
	// Line is the 1-based line in File, valid when HasLine is set.
	Line    int  `json:"line,omitempty"`
	HasLine bool `json:"-"`
	// Message is the issue text.
	Message string `json:"message"`
	// ReportLine is the line of the Issue element in the report.
	ReportLine int `json:"reportLine"`
}

// HasFileAndLine reports whether the issue can be attached to a source line.
func (i Issue) HasFileAndLine() bool {
	return i.File != "" && i.HasLine
}

// Parse reads every Issue element of the report in document order. The root
// element must be Report. TypeId and Message are required; Line, when
// present, must be an integer.
func Parse(r io.Reader, name string) ([]Issue, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "utf-8", "utf8", "us-ascii", "ascii":
			return input, nil
		default:
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
	}

	var (
		issues   []Issue
		seenRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(dec, name, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !seenRoot {
			if start.Name.Local != rootElement {
				return nil, newParseError(dec, name, fmt.Errorf("root element is <%s>, want <%s>", start.Name.Local, rootElement))
			}
			seenRoot = true
			continue
		}
		if start.Name.Local != issueElement {
			continue
		}

		issue, err := issueFromElement(start)
		if err != nil {
			return nil, newParseError(dec, name, err)
		}
		issue.ReportLine, _ = dec.InputPos()
		issues = append(issues, issue)
	}

	if !seenRoot {
		return nil, &ParseError{Source: name, Err: errors.New("empty document")}
	}
	return issues, nil
}

func issueFromElement(el xml.StartElement) (Issue, error) {
	var (
		issue Issue
		seen  = map[string]bool{}
	)
	for _, a := range el.Attr {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case "TypeId":
			issue.TypeID = a.Value
		case "File":
			issue.File = a.Value
		case "Line":
			line, err := strconv.Atoi(strings.TrimSpace(a.Value))
			if err != nil {
				return Issue{}, fmt.Errorf("attribute Line of <%s>: %q is not an integer", issueElement, a.Value)
			}
			issue.Line = line
			issue.HasLine = true
		case "Message":
			issue.Message = a.Value
		default:
			continue
		}
		seen[a.Name.Local] = true
	}

	for _, required := range []string{"TypeId", "Message"} {
		if !seen[required] {
			return Issue{}, fmt.Errorf("missing required attribute %s of <%s>", required, issueElement)
		}
	}
	return issue, nil
}

func newParseError(dec *xml.Decoder, name string, err error) error {
	line, _ := dec.InputPos()
	return &ParseError{Source: name, Line: line, Err: err}
}
