package customseverity

import (
	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
)

// Target receives resolved priorities. SetPriority reports whether key
// named an active rule.
type Target interface {
	SetPriority(key string, p rules.Priority) bool
}

// Resolver merges the overrides of its providers in order. Because the first
// value for a key wins, earlier providers take precedence.
type Resolver struct {
	providers []Provider
	msgs      *diag.Messages
}

// NewResolver returns a resolver over the file provider followed by the inline
// provider.
func NewResolver(msgs *diag.Messages) *Resolver {
	return NewResolverWith(msgs, FileProvider{}, InlineProvider{})
}

// NewResolverWith returns a resolver over the given providers.
func NewResolverWith(msgs *diag.Messages, providers ...Provider) *Resolver {
	if msgs == nil {
		msgs = diag.Discard()
	}
	return &Resolver{providers: providers, msgs: msgs}
}

// Providers returns the providers in resolution order.
func (r *Resolver) Providers() []Provider {
	return r.providers
}

// Resolve reads every configured provider. Unreadable or malformed documents
// are reported and contribute nothing; resolution always completes.
func (r *Resolver) Resolve(cfg *config.Config) *Overrides {
	merged := NewOverrides()
	for _, p := range r.providers {
		overrides := r.read(p, cfg)
		if overrides == nil {
			continue
		}
		r.msgs.Debugf("%s: %d custom severities", p.Name(), overrides.Len())
		merged.Merge(overrides, r.msgs)
	}
	return merged
}

func (r *Resolver) read(p Provider, cfg *config.Config) *Overrides {
	src, ok, err := p.Source(cfg)
	if !ok {
		return nil
	}
	if err != nil {
		r.msgs.Errorf("%v", err)
		return nil
	}
	defer src.Close()

	overrides, err := Parse(src, src.Name, r.msgs)
	if err != nil {
		r.msgs.Errorf("Error parsing custom severities from %s: %v", src.Name, err)
		return nil
	}
	return overrides
}

// Merge resolves the overrides and applies them to target. It returns the
// number of active rules whose priority was set.
func (r *Resolver) Merge(cfg *config.Config, target Target) int {
	return Apply(r.Resolve(cfg), target, r.msgs)
}

// Apply sets the priority of every active rule that has an override.
// Applying the same overrides twice gives the same result.
func Apply(overrides *Overrides, target Target, msgs *diag.Messages) int {
	changed := 0
	for _, key := range overrides.Keys() {
		p, _ := overrides.Priority(key)
		if target.SetPriority(key, p) {
			msgs.Debugf("overriding priority for %s with %s", key, p)
			changed++
		}
	}
	return changed
}
