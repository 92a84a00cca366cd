// Package profile holds quality profiles: ordered sets of active rules with
// host priorities. It imports and exports them in the IssueType catalog
// format and builds the default profile of a language.
package profile

import (
	"github.com/wharflab/rsbridge/internal/rules"
)

// DefaultProfileName names the default profile when none is configured.
const DefaultProfileName = "Sonar way"

// ActiveRule is a rule activated in a profile.
type ActiveRule struct {
	// Repository is the key of the repository the rule belongs to.
	Repository string `json:"repository"`
	// Rule is the repository definition.
	Rule rules.Rule `json:"rule"`
	// Priority is the host priority of the activation.
	Priority rules.Priority `json:"priority"`
}

// Key returns the rule key.
func (a ActiveRule) Key() string {
	return a.Rule.Key()
}

// Profile is a named, ordered set of activations for one language.
type Profile struct {
	Name     string
	Language string

	active []ActiveRule
}

// New returns an empty profile.
func New(name, language string) *Profile {
	return &Profile{Name: name, Language: language}
}

// Activate activates rule of repository at priority. Activating a rule twice
// updates its priority and keeps its position.
func (p *Profile) Activate(repository string, rule rules.Rule, priority rules.Priority) {
	for i := range p.active {
		if p.active[i].Repository == repository && p.active[i].Key() == rule.Key() {
			p.active[i].Priority = priority
			return
		}
	}
	p.active = append(p.active, ActiveRule{Repository: repository, Rule: rule, Priority: priority})
}

// ActiveRules returns every activation in order.
func (p *Profile) ActiveRules() []ActiveRule {
	out := make([]ActiveRule, len(p.active))
	copy(out, p.active)
	return out
}

// ActiveRulesByRepository returns the activations of one repository in order.
func (p *Profile) ActiveRulesByRepository(repository string) []ActiveRule {
	var out []ActiveRule
	for _, a := range p.active {
		if a.Repository == repository {
			out = append(out, a)
		}
	}
	return out
}

// ActiveRule returns the activation of key in repository.
func (p *Profile) ActiveRule(repository, key string) (ActiveRule, bool) {
	for _, a := range p.active {
		if a.Repository == repository && a.Key() == key {
			return a, true
		}
	}
	return ActiveRule{}, false
}

// EnabledRuleKeys returns the set of rule keys active for repository.
func (p *Profile) EnabledRuleKeys(repository string) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, a := range p.active {
		if a.Repository == repository {
			keys[a.Key()] = struct{}{}
		}
	}
	return keys
}

// SetPriority sets the priority of every activation of key. It reports
// whether any activation matched.
func (p *Profile) SetPriority(key string, priority rules.Priority) bool {
	found := false
	for i := range p.active {
		if p.active[i].Key() == key {
			p.active[i].Priority = priority
			found = true
		}
	}
	return found
}

// Len returns the number of activations.
func (p *Profile) Len() int {
	return len(p.active)
}
