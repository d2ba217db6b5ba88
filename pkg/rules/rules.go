// Package rules lists the built-in rules.
package rules

import (
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules/readonlyreturn"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules/ternaryformat"
)

// All returns every built-in rule.
func All() []lint.Rule {
	return []lint.Rule{
		readonlyreturn.Rule{},
		ternaryformat.Rule{},
	}
}

// NewRegistry returns a registry holding the built-in rules.
func NewRegistry() *lint.Registry {
	reg, err := lint.NewRegistry(All()...)
	if err != nil {
		panic(err)
	}

	return reg
}
