package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wharflab/rsbridge/internal/diag"
)

// RepositoryName is the display name shared by every ReSharper repository.
const RepositoryName = "ReSharper"

// Repository is the set of rules known for one language, keyed by rule key.
// Rules keep their registration order.
type Repository struct {
	// Key identifies the repository, e.g. "resharper-cs".
	Key string
	// Language is the host language key, e.g. "cs".
	Language string
	// Name is the display name.
	Name string

	mu    sync.RWMutex
	order []string
	rules map[string]Rule
}

// NewRepository returns an empty repository.
func NewRepository(key, language string) *Repository {
	return &Repository{
		Key:      key,
		Language: language,
		Name:     RepositoryName,
		rules:    make(map[string]Rule),
	}
}

// Register adds a rule. A rule whose key is already registered is rejected.
func (r *Repository) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rule.Key()
	if key == "" {
		return fmt.Errorf("rule without id in repository %q", r.Key)
	}
	if _, exists := r.rules[key]; exists {
		return fmt.Errorf("rule %q already registered in repository %q", key, r.Key)
	}
	r.rules[key] = rule
	r.order = append(r.order, key)
	return nil
}

// RegisterAll registers rules in order. Rejected rules are reported as
// warnings and the first registration is kept.
func (r *Repository) RegisterAll(rules []Rule, msgs *diag.Messages) int {
	added := 0
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			msgs.Warnf("skipping rule: %v", err)
			continue
		}
		added++
	}
	return added
}

// Find returns the rule with the given key.
func (r *Repository) Find(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[key]
	return rule, ok
}

// Has reports whether a rule with the given key is registered.
func (r *Repository) Has(key string) bool {
	_, ok := r.Find(key)
	return ok
}

// All returns every rule in registration order.
func (r *Repository) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.rules[key])
	}
	return result
}

// Keys returns all rule keys sorted alphabetically.
func (r *Repository) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	sort.Strings(keys)
	return keys
}

// ByCategory returns rules of the given category in registration order.
func (r *Repository) ByCategory(category string) []Rule {
	var result []Rule
	for _, rule := range r.All() {
		if strings.EqualFold(rule.Category, category) {
			result = append(result, rule)
		}
	}
	return result
}

// Len returns the number of registered rules.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
