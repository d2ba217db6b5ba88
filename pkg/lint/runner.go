package lint

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/tsfang/pkg/discover"
	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
)

// Runner lints many files concurrently. Files share no state, so they are
// processed in any order; reports come back in input order.
type Runner struct {
	Linter *Linter
	// Workers bounds concurrency; zero uses GOMAXPROCS.
	Workers int
	// Fix applies fixes; DryRun computes them without writing.
	Fix       bool
	DryRun    bool
	MaxPasses int
	// MaxFileSize is passed to discover.ReadFile.
	MaxFileSize int64
	Metrics     *observability.LintMetrics

	// Read and Write default to discover.ReadFile and discover.WriteFile.
	Read  func(path string, maxSize int64) ([]byte, error)
	Write func(path string, content []byte) error
}

// FileReport is the outcome for one file. Err is set when the file could not
// be read, parsed or written; such errors do not stop the run.
type FileReport struct {
	Path         string
	Original     []byte
	Fixed        []byte
	Applied      int
	Diagnostics  []Diagnostic
	SyntaxErrors bool
	Err          error
}

// Changed reports whether fixing changed the file.
func (r FileReport) Changed() bool {
	return r.Fixed != nil && !bytes.Equal(r.Original, r.Fixed)
}

// Run lints files. Only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, files []discover.File) ([]FileReport, error) {
	reports := make([]FileReport, len(files))

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			reports[i] = r.runFile(gctx, f)

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("lint run: %w", err)
	}

	return reports, nil
}

func (r *Runner) runFile(ctx context.Context, f discover.File) FileReport {
	start := time.Now()
	report := FileReport{Path: f.Path}

	read := r.Read
	if read == nil {
		read = discover.ReadFile
	}

	content, err := read(f.Path, r.MaxFileSize)
	if err != nil {
		r.Metrics.RecordError(ctx)
		report.Err = err

		return report
	}

	report.Original = content

	if r.Fix {
		r.fixFile(ctx, f, &report)
	} else {
		res, lintErr := r.Linter.LintSource(ctx, f.Path, f.Language, content)
		if lintErr != nil {
			r.Metrics.RecordError(ctx)
			report.Err = lintErr

			return report
		}

		report.Diagnostics = res.Diagnostics
		report.SyntaxErrors = res.File.HasErrors()
	}

	for _, d := range report.Diagnostics {
		r.Metrics.RecordDiagnostic(ctx, d.Rule, d.Severity.String())
	}

	r.Metrics.RecordFile(ctx, string(f.Language), time.Since(start))

	return report
}

func (r *Runner) fixFile(ctx context.Context, f discover.File, report *FileReport) {
	res, err := r.Linter.Fix(ctx, f.Path, f.Language, report.Original, r.MaxPasses)
	if err != nil {
		r.Metrics.RecordError(ctx)
		report.Err = err

		return
	}

	report.Fixed = res.Source
	report.Applied = res.Applied
	report.Diagnostics = res.Remaining
	report.SyntaxErrors = res.SyntaxErrors

	if !report.Changed() || r.DryRun {
		return
	}

	write := r.Write
	if write == nil {
		write = discover.WriteFile
	}

	err = write(f.Path, res.Source)
	if err != nil {
		report.Err = err

		return
	}

	r.Metrics.RecordFixes(ctx, res.Applied)
}
