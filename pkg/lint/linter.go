package lint

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

const tracerName = "tsfang/lint"

// RuleConfig selects and tunes one rule.
type RuleConfig struct {
	Enabled bool
	// Severity overrides the rule default unless it is SeverityOff.
	Severity Severity
	// Options are raw options in any form ParseOptions accepts.
	Options any
}

// Enabled is a configured rule ready to run.
type Enabled struct {
	Name     string
	Severity Severity
	Fixable  bool
	Check    Check
}

// Configure builds the enabled rules named in configs, in name order.
func Configure(reg *Registry, configs map[string]RuleConfig) ([]Enabled, error) {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}

	slices.Sort(names)

	out := make([]Enabled, 0, len(names))

	for _, name := range names {
		cfg := configs[name]
		if !cfg.Enabled {
			continue
		}

		rule, err := reg.Get(name)
		if err != nil {
			return nil, err
		}

		opts, err := ParseOptions(cfg.Options)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}

		check, err := rule.Configure(opts)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}

		meta := rule.Meta()

		severity := cfg.Severity
		if severity == SeverityOff {
			severity = meta.Severity
		}

		out = append(out, Enabled{Name: name, Severity: severity, Fixable: meta.Fixable, Check: check})
	}

	return out, nil
}

// Linter applies a fixed set of configured rules to files. It is safe for
// concurrent use.
type Linter struct {
	rules  []Enabled
	logger *slog.Logger
	tracer trace.Tracer
}

// LinterOption customises a Linter.
type LinterOption func(*Linter)

// WithLogger sets the logger handed to rules.
func WithLogger(logger *slog.Logger) LinterOption {
	return func(l *Linter) { l.logger = logger }
}

// WithTracer sets the tracer used for per-file spans.
func WithTracer(tracer trace.Tracer) LinterOption {
	return func(l *Linter) { l.tracer = tracer }
}

// NewLinter creates a linter over rules.
func NewLinter(rules []Enabled, opts ...LinterOption) *Linter {
	l := &Linter{
		rules:  rules,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Rules returns the configured rules.
func (l *Linter) Rules() []Enabled {
	return l.rules
}

// FileResult is the outcome of linting one source.
type FileResult struct {
	File        *syntax.File
	Diagnostics []Diagnostic
}

// LintSource parses and lints source.
func (l *Linter) LintSource(ctx context.Context, path string, lang syntax.Language, source []byte) (*FileResult, error) {
	ctx, span := l.tracer.Start(ctx, "tsfang.lint.file",
		trace.WithAttributes(attribute.String("file.path", path), attribute.String("file.language", string(lang))))
	defer span.End()

	f, err := syntax.Parse(ctx, path, lang, source)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("lint %s: %w", path, err)
	}

	diags := l.LintFile(ctx, f)
	span.SetAttributes(attribute.Int("lint.diagnostics", len(diags)))

	return &FileResult{File: f, Diagnostics: diags}, nil
}

// LintFile runs every rule over an already parsed file and returns the
// diagnostics ordered by position.
func (l *Linter) LintFile(_ context.Context, f *syntax.File) []Diagnostic {
	fc := NewFileContext(f, l.logger.With("file", f.Path))

	visitors := make([]Visitor, len(l.rules))
	for i, r := range l.rules {
		visitors[i] = r.Check.Visitor(fc)
	}

	findings := Walk(f.Root, visitors)
	diags := make([]Diagnostic, 0, len(findings))

	for _, fd := range findings {
		rule := l.rules[fd.Visitor]
		diags = append(diags, Diagnostic{
			Rule:     rule.Name,
			Severity: rule.Severity,
			Message:  fd.Message,
			Path:     f.Path,
			Span:     f.Span(fd.Node),
			Start:    fd.Node.Start,
			End:      fd.Node.End,
			Fix:      fd.Edits,
		})
	}

	SortDiagnostics(diags)

	return diags
}

// SortDiagnostics orders diagnostics by path, offset, then rule name.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}

		if a.Start != b.Start {
			return a.Start - b.Start
		}

		return strings.Compare(a.Rule, b.Rule)
	})
}
