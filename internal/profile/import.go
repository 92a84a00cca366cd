package profile

import (
	"io"

	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
)

// Importer turns an IssueType catalog into a profile of Language, activating
// only rules known to Repository.
type Importer struct {
	Language   string
	Repository *rules.Repository
}

// Import parses r and activates each known rule at the priority translated
// from its severity. Unknown rules are reported as warnings and skipped.
// The returned profile is unnamed. A malformed document is an error.
func (im Importer) Import(r io.Reader, source string, msgs *diag.Messages) (*Profile, error) {
	parsed, err := rules.ParseCatalog(r, source, msgs)
	if err != nil {
		return nil, err
	}

	p := New("", im.Language)
	for _, pr := range parsed {
		rule, ok := im.Repository.Find(pr.Key())
		if !ok {
			msgs.Warnf("Unable to find rule for key '%s' in repository '%s'", pr.ID, im.Repository.Key)
			continue
		}
		priority := pr.Priority()
		p.Activate(im.Repository.Key, rule, priority)
		msgs.Debugf("Activating profile rule %s with priority %s", rule.Key(), priority)
	}
	return p, nil
}
