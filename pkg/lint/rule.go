// Package lint runs configured rules over parsed TypeScript files: a single
// pre-order walk dispatches every node to the rules, violations become
// diagnostics, and fixable diagnostics are applied as text edits.
package lint

import (
	"log/slog"

	"github.com/Sumatoshi-tech/tsfang/pkg/checker"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
	"github.com/Sumatoshi-tech/tsfang/pkg/typeshape"
)

// Meta describes a rule.
type Meta struct {
	Name        string
	Description string
	Severity    Severity
	Options     []Option
	Fixable     bool
}

// Rule is a lint rule that can be configured with options.
type Rule interface {
	Meta() Meta
	// Configure validates opts and returns the configured check.
	Configure(opts Options) (Check, error)
}

// Check is a configured rule.
type Check interface {
	// Visitor returns the per-file callback invoked for every named node.
	Visitor(fc *FileContext) Visitor
}

// Visitor is called once per node in pre-order.
type Visitor func(n *syntax.Node) Result

// FileContext carries what a rule may consult while checking one file.
type FileContext struct {
	File   *syntax.File
	Logger *slog.Logger

	resolver typeshape.Resolver
}

// NewFileContext wraps a parsed file.
func NewFileContext(f *syntax.File, logger *slog.Logger) *FileContext {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileContext{File: f, Logger: logger}
}

// Resolver returns the file's type resolver, building it on first use.
func (fc *FileContext) Resolver() typeshape.Resolver {
	if fc.resolver == nil {
		fc.resolver = checker.New(fc.File)
	}

	return fc.resolver
}
