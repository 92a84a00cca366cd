package rules

import (
	"strings"
)

// ConfigKeyPrefix prefixes the rule ID in the host's config key.
const ConfigKeyPrefix = "ReSharperInspectCode#"

// Rule is one ReSharper issue type, as found in an IssueType element.
type Rule struct {
	// ID is the stable inspectcode identifier, e.g. "ClassNeverInstantiated.Global".
	ID string `json:"id"`

	// Enabled mirrors the IssueType Enabled attribute.
	Enabled bool `json:"enabled"`

	// Category is the ReSharper inspection category (optional).
	Category string `json:"category,omitempty"`

	// Description is the raw description text. Use HostDescription for display.
	Description string `json:"description"`

	// WikiLink points at the inspection's documentation (optional).
	WikiLink string `json:"wikiLink,omitempty"`

	// Severity is the catalog severity.
	Severity Severity `json:"severity"`
}

// KeyFromID derives a repository key from a ReSharper ID.
func KeyFromID(id string) string {
	return strings.ReplaceAll(id, ":", "_")
}

// Key returns the repository key. It is unique within a repository and two
// rules with the same ID always collide.
func (r Rule) Key() string {
	return KeyFromID(r.ID)
}

// Name returns the display name, which is the ID.
func (r Rule) Name() string {
	return r.ID
}

// ConfigKey returns the host config key for the rule.
func (r Rule) ConfigKey() string {
	return ConfigKeyPrefix + r.ID
}

// Priority returns the catalog severity on the host scale.
func (r Rule) Priority() Priority {
	return r.Severity.Priority()
}

// DescriptionOrID returns the description, or the ID when it is blank. A blank
// description is rejected by the host, hence the fallback.
func (r Rule) DescriptionOrID() string {
	if strings.TrimSpace(r.Description) == "" {
		return r.ID
	}
	return r.Description
}

// HostDescription composes the HTML description shown by the host: the
// description (or ID), then the wiki link and category when present.
func (r Rule) HostDescription() string {
	var b strings.Builder
	b.WriteString(r.DescriptionOrID())
	if strings.TrimSpace(r.WikiLink) != "" {
		b.WriteString("<br /><a href='")
		b.WriteString(r.WikiLink)
		b.WriteString("'>")
		b.WriteString(r.WikiLink)
		b.WriteString("</a>")
	}
	if strings.TrimSpace(r.Category) != "" {
		b.WriteString("<br />(Category: ")
		b.WriteString(r.Category)
		b.WriteString(")")
	}
	return b.String()
}

// String implements fmt.Stringer.
func (r Rule) String() string {
	return "Rule(id=" + r.ID + ")"
}
