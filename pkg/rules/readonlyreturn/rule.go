package readonlyreturn

import (
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// Name is the rule name used in configuration.
const Name = "no-return-readonly-array"

// Rule is the lint rule wrapping Inspector.
type Rule struct{}

var _ lint.Rule = Rule{}

// Meta describes the rule and its options.
func (Rule) Meta() lint.Meta {
	return lint.Meta{
		Name:        Name,
		Description: "Disallows returning a read-only array type from functions.",
		Severity:    lint.SeverityError,
		Fixable:     true,
		Options: []lint.Option{
			{
				Name:        "include-type-arguments",
				Type:        lint.BoolOption,
				Default:     false,
				Description: "Also flag the type when it is a generic argument of the return type.",
			},
			{
				Name:        "deep",
				Type:        lint.BoolOption,
				Default:     false,
				Description: "Also flag the type inside object types, tuples and type aliases.",
			},
			{
				Name:        "forbidden-type",
				Type:        lint.StringOption,
				Default:     DefaultForbiddenType,
				Description: "Name of the forbidden generic type.",
			},
			{
				Name:        "replacement-type",
				Type:        lint.StringOption,
				Default:     DefaultReplacementType,
				Description: "Name the fix rewrites the forbidden type to.",
			},
		},
	}
}

// Configure reads the rule options.
func (Rule) Configure(opts lint.Options) (lint.Check, error) {
	return check{settings: Settings{
		IncludeTypeArguments: opts.Bool("includeTypeArguments", false),
		Deep:                 opts.Bool("deep", false),
		ForbiddenType:        opts.String("forbiddenType", DefaultForbiddenType),
		ReplacementType:      opts.String("replacementType", DefaultReplacementType),
	}}, nil
}

type check struct {
	settings Settings
}

// Visitor inspects every function-like node, building the inspector on the
// first one.
func (c check) Visitor(fc *lint.FileContext) lint.Visitor {
	var in *Inspector

	return func(n *syntax.Node) lint.Result {
		if !syntax.IsFunctionLike(n.Kind) {
			return lint.Result{}
		}

		if in == nil {
			in = NewInspector(fc.File, fc.Resolver(), c.settings)
		}

		return lint.Result{Violations: in.Inspect(n)}
	}
}
