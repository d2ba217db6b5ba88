package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal       = "tsfang.files.total"
	metricDiagnosticsTotal = "tsfang.diagnostics.total"
	metricFixesTotal       = "tsfang.fixes.total"
	metricErrorsTotal      = "tsfang.errors.total"
	metricFileDuration     = "tsfang.file.duration.seconds"

	attrRule     = "rule"
	attrSeverity = "severity"
	attrLanguage = "language"
)

// durationBucketBoundaries covers 1ms to 10s per file.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// LintMetrics holds the instruments recorded while linting. A nil
// *LintMetrics records nothing.
type LintMetrics struct {
	filesTotal       metric.Int64Counter
	diagnosticsTotal metric.Int64Counter
	fixesTotal       metric.Int64Counter
	errorsTotal      metric.Int64Counter
	fileDuration     metric.Float64Histogram
}

// NewLintMetrics creates the lint instruments from mt.
func NewLintMetrics(mt metric.Meter) (*LintMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files linted"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	diags, err := mt.Int64Counter(metricDiagnosticsTotal,
		metric.WithDescription("Diagnostics reported"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDiagnosticsTotal, err)
	}

	fixes, err := mt.Int64Counter(metricFixesTotal,
		metric.WithDescription("Fixes applied"),
		metric.WithUnit("{fix}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFixesTotal, err)
	}

	errs, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Files that could not be read or parsed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Time spent linting one file"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &LintMetrics{
		filesTotal:       files,
		diagnosticsTotal: diags,
		fixesTotal:       fixes,
		errorsTotal:      errs,
		fileDuration:     duration,
	}, nil
}

// RecordFile records one linted file.
func (lm *LintMetrics) RecordFile(ctx context.Context, language string, duration time.Duration) {
	if lm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrLanguage, language))
	lm.filesTotal.Add(ctx, 1, attrs)
	lm.fileDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDiagnostic records one diagnostic of a rule.
func (lm *LintMetrics) RecordDiagnostic(ctx context.Context, rule, severity string) {
	if lm == nil {
		return
	}

	lm.diagnosticsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrRule, rule),
		attribute.String(attrSeverity, severity),
	))
}

// RecordFixes records applied fixes.
func (lm *LintMetrics) RecordFixes(ctx context.Context, n int) {
	if lm == nil || n == 0 {
		return
	}

	lm.fixesTotal.Add(ctx, int64(n))
}

// RecordError records a file that failed to lint.
func (lm *LintMetrics) RecordError(ctx context.Context) {
	if lm == nil {
		return
	}

	lm.errorsTotal.Add(ctx, 1)
}
