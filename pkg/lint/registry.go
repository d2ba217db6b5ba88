package lint

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/tsfang/pkg/suggest"
)

// Registry errors.
var (
	ErrUnknownRule   = errors.New("unknown rule")
	ErrDuplicateRule = errors.New("duplicate rule")
)

// Registry holds the available rules by name.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates a registry holding rules.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{rules: make(map[string]Rule, len(rules))}

	for _, rule := range rules {
		err := r.Register(rule)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds a rule. Names must be unique.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := rule.Meta().Name
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, name)
	}

	r.rules[name] = rule

	return nil
}

// Get returns the named rule.
func (r *Registry) Get(name string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[name]
	if !ok {
		names := make([]string, 0, len(r.rules))
		for known := range r.rules {
			names = append(names, known)
		}

		slices.Sort(names)

		return nil, fmt.Errorf("%w: %s%s", ErrUnknownRule, name, suggest.Hint(name, names))
	}

	return rule, nil
}

// Names returns the registered rule names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// All returns the registered rules sorted by name.
func (r *Registry) All() []Rule {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rule, 0, len(names))
	for _, name := range names {
		out = append(out, r.rules[name])
	}

	return out
}
