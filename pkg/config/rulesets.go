package config

import (
	"fmt"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules/readonlyreturn"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules/ternaryformat"
	"github.com/Sumatoshi-tech/tsfang/pkg/suggest"
)

// Rule set names accepted by extends.
const (
	RuleSetRecommended = "recommended"
	RuleSetStandard    = "standard"
	RuleSetNone        = "none"
)

// RuleSetNames lists the rule sets in documentation order.
func RuleSetNames() []string {
	return []string{RuleSetRecommended, RuleSetStandard, RuleSetNone}
}

// RuleSet returns a fresh copy of the named rule set. An empty name means
// the default set.
func RuleSet(name string) (map[string]lint.RuleConfig, error) {
	readonly := lint.RuleConfig{Enabled: true, Options: []any{"include-type-arguments", "deep"}}

	switch name {
	case "", RuleSetRecommended:
		return map[string]lint.RuleConfig{
			readonlyreturn.Name: readonly,
			ternaryformat.Name:  {Enabled: true, Options: map[string]any{"allow-single-line": true}},
		}, nil
	case RuleSetStandard:
		return map[string]lint.RuleConfig{
			readonlyreturn.Name: readonly,
			ternaryformat.Name:  {Enabled: true, Options: map[string]any{"allow-single-line": false}},
		}, nil
	case RuleSetNone:
		return map[string]lint.RuleConfig{}, nil
	default:
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownRuleSet, name, suggest.Hint(name, RuleSetNames()))
	}
}
