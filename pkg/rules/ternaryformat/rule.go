// Package ternaryformat reports ternaries that are not in the canonical
// multi-line layout and fixes them.
package ternaryformat

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
	"github.com/Sumatoshi-tech/tsfang/pkg/ternary"
)

// Name is the rule name used in configuration.
const Name = "ternary-format"

// ErrInvalidIndent is returned for an indent option below 1.
var ErrInvalidIndent = errors.New("indent must be at least 1")

// Rule is the lint rule wrapping ternary.Normalizer.
type Rule struct{}

var _ lint.Rule = Rule{}

// Meta describes the rule and its options.
func (Rule) Meta() lint.Meta {
	return lint.Meta{
		Name:        Name,
		Description: "Enforces the canonical multi-line layout of ternary expressions.",
		Severity:    lint.SeverityWarning,
		Fixable:     true,
		Options: []lint.Option{
			{
				Name:        "allow-single-line",
				Type:        lint.BoolOption,
				Default:     false,
				Description: "Leave ternaries written on a single line alone.",
			},
			{
				Name:        "indent",
				Type:        lint.IntOption,
				Default:     ternary.DefaultIndent,
				Description: "Indentation unit in columns.",
			},
		},
	}
}

// Configure reads the rule options.
func (Rule) Configure(opts lint.Options) (lint.Check, error) {
	indent := opts.Int("indent", ternary.DefaultIndent)
	if indent < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndent, indent)
	}

	return check{settings: ternary.Settings{
		AllowSingleLine: opts.Bool("allowSingleLine", false),
		Indent:          indent,
	}}, nil
}

type check struct {
	settings ternary.Settings
}

// Visitor handles every outermost ternary and skips its subtree, which the
// normalizer has covered.
func (c check) Visitor(fc *lint.FileContext) lint.Visitor {
	var nz *ternary.Normalizer

	return func(n *syntax.Node) lint.Result {
		if n.Kind != syntax.KindTernary {
			return lint.Result{}
		}

		if nz == nil {
			nz = ternary.NewNormalizer(fc.File, c.settings)
		}

		violations, err := nz.Check(n)
		if err != nil {
			pos := fc.File.Lines.PositionOf(n.Start)
			fc.Logger.Error("ternary layout skipped",
				"path", fc.File.Path, "line", pos.Line+1, "column", pos.Character+1, "error", err)
		}

		return lint.Result{Violations: violations, SkipChildren: true}
	}
}
