package profile

import (
	"fmt"
	"io"
	"strings"
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Export writes activations as an IssueType catalog, one element per line.
// Blank Category and WikiUrl attributes are left out and a blank description
// is replaced by the rule id. Nothing is written when a priority has no
// severity.
func Export(w io.Writer, activations []ActiveRule) error {
	var b strings.Builder
	b.WriteString("<Report>\n")
	b.WriteString("  <IssueTypes>\n")
	for _, a := range activations {
		if err := writeIssueType(&b, a); err != nil {
			return err
		}
	}
	b.WriteString("  </IssueTypes>\n")
	b.WriteString("</Report>")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// ExportProfile exports the activations of repository in p.
func ExportProfile(w io.Writer, p *Profile, repository string) error {
	if err := Export(w, p.ActiveRulesByRepository(repository)); err != nil {
		return fmt.Errorf("error while generating the ReSharper profile %q to export: %w", p.Name, err)
	}
	return nil
}

func writeIssueType(b *strings.Builder, a ActiveRule) error {
	severity, err := a.Priority.Severity()
	if err != nil {
		return fmt.Errorf("rule %s: %w", a.Rule.ID, err)
	}

	b.WriteString("    <IssueType")
	writeAttr(b, "Id", a.Rule.ID)
	writeAttr(b, "Enabled", enabledText(a.Rule.Enabled))
	if strings.TrimSpace(a.Rule.Category) != "" {
		writeAttr(b, "Category", a.Rule.Category)
	}
	if strings.TrimSpace(a.Rule.WikiLink) != "" {
		writeAttr(b, "WikiUrl", a.Rule.WikiLink)
	}
	writeAttr(b, "Description", a.Rule.DescriptionOrID())
	writeAttr(b, "Severity", severity.String())
	b.WriteString("/>\n")
	return nil
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	_, _ = attrEscaper.WriteString(b, value)
	b.WriteString(`"`)
}

func enabledText(enabled bool) string {
	if enabled {
		return "True"
	}
	return "False"
}
