package rules

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/rsbridge/internal/diag"
)

// IssueTypeElement is the element name of a rule in a catalog.
const IssueTypeElement = "IssueType"

// ParseError reports a document that is not well-formed XML. It is fatal for
// that document only.
type ParseError struct {
	// Source names the document (file path or a description).
	Source string
	// Line is the input line where decoding stopped, 0 if unknown.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseCatalog reads every IssueType element of the document, at any depth,
// in document order. A document without IssueType elements yields an empty
// result and a warning. A malformed document yields a *ParseError and no rules.
func ParseCatalog(r io.Reader, source string, msgs *diag.Messages) ([]Rule, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = passthroughCharset

	var result []Rule
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, _ := dec.InputPos()
			return nil, &ParseError{Source: source, Line: line, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != IssueTypeElement {
			continue
		}
		result = append(result, ruleFromElement(start, msgs))
	}

	if len(result) == 0 {
		msgs.Warnf("No IssueType nodes found in %s", source)
		return nil, nil
	}
	msgs.Debugf("Found %d IssueType nodes (rules) in %s", len(result), source)
	return result, nil
}

func ruleFromElement(el xml.StartElement, msgs *diag.Messages) Rule {
	return Rule{
		ID:          attr(el, "Id"),
		Enabled:     strings.Contains(strings.ToLower(attr(el, "Enabled")), "true"),
		Category:    attr(el, "Category"),
		Description: attr(el, "Description"),
		WikiLink:    attr(el, "WikiUrl"),
		Severity:    ParseSeverity(attr(el, "Severity"), msgs),
	}
}

// attr returns the value of the unqualified attribute name, or "".
func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// passthroughCharset accepts the encodings inspectcode declares. Its output
// is UTF-8 in practice even when the prolog says otherwise.
func passthroughCharset(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "us-ascii", "ascii", "":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
}
