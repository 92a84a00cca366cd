// Package customseverity reads ReSharper severity overrides from settings
// documents (.DotSettings files or inline fragments) and applies them to the
// priorities of an active rule set.
package customseverity

import (
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
)

// Overrides maps rule keys to severities. The first value recorded for a key
// wins; iteration follows insertion order.
type Overrides struct {
	order  []string
	values map[string]rules.Severity
}

// NewOverrides returns an empty set.
func NewOverrides() *Overrides {
	return &Overrides{values: make(map[string]rules.Severity)}
}

// Add records sev for key unless the key is already present, in which case a
// duplicate warning is emitted and false returned.
func (o *Overrides) Add(key string, sev rules.Severity, msgs *diag.Messages) bool {
	if _, exists := o.values[key]; exists {
		msgs.Warnf("duplicate entry for %s", key)
		return false
	}
	o.values[key] = sev
	o.order = append(o.order, key)
	return true
}

// Merge adds every entry of other, in order, with the same first-wins policy.
func (o *Overrides) Merge(other *Overrides, msgs *diag.Messages) {
	for _, key := range other.order {
		o.Add(key, other.values[key], msgs)
	}
}

// Get returns the override for key.
func (o *Overrides) Get(key string) (rules.Severity, bool) {
	sev, ok := o.values[key]
	return sev, ok
}

// Priority returns the host priority of the override for key.
func (o *Overrides) Priority(key string) (rules.Priority, bool) {
	sev, ok := o.values[key]
	if !ok {
		return 0, false
	}
	return sev.Priority(), true
}

// Keys returns the rule keys in insertion order.
func (o *Overrides) Keys() []string {
	keys := make([]string, len(o.order))
	copy(keys, o.order)
	return keys
}

// Len returns the number of overrides.
func (o *Overrides) Len() int {
	return len(o.order)
}
