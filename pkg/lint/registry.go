package lint

import (
	"cmp"
	"slices"
	"sync"
)

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = NewRegistry()

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule // keyed by name
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule, replacing any rule with the same name.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.Name] = rule
}

// Get returns a rule by name.
func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// All returns all registered rules sorted by name.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	slices.SortFunc(rules, func(a, b Rule) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return rules
}

// Names returns all registered rule names, sorted.
func (r *Registry) Names() []string {
	rules := r.All()
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return names
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Clear removes all registered rules. Used for testing.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = make(map[string]Rule)
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule Rule) {
	globalRegistry.Register(rule)
}

// Get returns a rule from the global registry.
func Get(name string) (Rule, bool) {
	return globalRegistry.Get(name)
}

// All returns all globally registered rules sorted by name.
func All() []Rule {
	return globalRegistry.All()
}

// Names returns the names of all globally registered rules.
func Names() []string {
	return globalRegistry.Names()
}

// Count returns the number of globally registered rules.
func Count() int {
	return globalRegistry.Count()
}

// Clear empties the global registry. Used for testing.
func Clear() {
	globalRegistry.Clear()
}
