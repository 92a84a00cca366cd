package customseverity

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
)

// KeyPrefix selects the settings entries that carry inspection severities.
const KeyPrefix = "/Default/CodeInspection/Highlighting/InspectionSeverities"

const stringElement = "String"

// Parse collects the severity overrides of a settings document. Entries are
// String elements at any depth whose Key attribute (in any namespace) starts
// with KeyPrefix; other String elements are ignored. An entry with a bad key
// is reported as an error diagnostic and skipped. A malformed document yields
// a *rules.ParseError and no overrides.
func Parse(r io.Reader, source string, msgs *diag.Messages) (*Overrides, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = decodedCharset

	result := NewOverrides()
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(dec, source, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != stringElement {
			continue
		}

		key := keyAttr(start)
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return nil, parseError(dec, source, err)
		}

		ruleKey, err := RuleKey(key)
		if err != nil {
			msgs.Errorf("Failed to add custom severity from %s: %v", source, err)
			continue
		}
		result.Add(ruleKey, rules.ParseSeverity(text, msgs), msgs)
	}
	return result, nil
}

func parseError(dec *xml.Decoder, source string, err error) error {
	line, _ := dec.InputPos()
	return &rules.ParseError{Source: source, Line: line, Err: err}
}

func keyAttr(el xml.StartElement) string {
	for _, a := range el.Attr {
		if a.Name.Local == "Key" {
			return a.Value
		}
	}
	return ""
}

// RuleKey extracts the rule key from a settings key such as
// "/Default/CodeInspection/Highlighting/InspectionSeverities/=InvertIf/@EntryIndexedValue".
// The key is split on '/' and '=' with trailing empty segments dropped; it
// must have 8 or 9 segments and the rule key is the second-to-last one.
func RuleKey(key string) (string, error) {
	segments := splitKey(key)
	if len(segments) != 8 && len(segments) != 9 {
		return "", fmt.Errorf("invalid key %q: contains %d segments separated by '/' or '=', want 8 or 9", key, len(segments))
	}
	return segments[len(segments)-2], nil
}

func splitKey(key string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] == '/' || key[i] == '=' {
			segments = append(segments, key[start:i])
			start = i + 1
		}
	}
	segments = append(segments, key[start:])

	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return segments
}

// decodedCharset accepts the declared encoding as-is. Inputs are already
// UTF-8 by the time they reach the decoder: files go through a BOM-aware
// transform and inline fragments are Go strings.
func decodedCharset(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "utf-16", "utf16", "utf-16le", "utf-16be", "us-ascii", "ascii", "":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
}
