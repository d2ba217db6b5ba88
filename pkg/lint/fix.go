package lint

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// DefaultMaxFixPasses bounds the re-lint loop of Fix.
const DefaultMaxFixPasses = 10

// FixResult is the outcome of fixing one source.
type FixResult struct {
	Source []byte
	// Applied counts the diagnostics whose fixes were applied.
	Applied int
	Passes  int
	// Remaining are the diagnostics of the final source.
	Remaining []Diagnostic
	// SyntaxErrors is set when fixing stopped because the source does not parse cleanly.
	SyntaxErrors bool
}

// Changed reports whether any fix was applied.
func (r *FixResult) Changed() bool {
	return r.Applied > 0
}

// Fix repeatedly lints source and applies every non-overlapping fix until no
// fixable diagnostic remains or maxPasses is reached. Fixes whose edits
// overlap an already selected fix wait for the next pass. Sources with
// syntax errors are never rewritten, and a pass whose fixes break the
// syntax is rolled back.
func (l *Linter) Fix(
	ctx context.Context, path string, lang syntax.Language, source []byte, maxPasses int,
) (*FixResult, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	result := &FixResult{Source: source}

	var last fixPass

	for {
		lr, err := l.LintSource(ctx, path, lang, result.Source)
		if err != nil {
			return nil, err
		}

		result.Remaining = lr.Diagnostics

		if lr.File.HasErrors() {
			result.SyntaxErrors = true
			last.undo(result)

			return result, nil
		}

		if result.Passes >= maxPasses {
			return result, nil
		}

		edits, count := SelectFixes(lr.Diagnostics)
		if count == 0 {
			return result, nil
		}

		fixed, err := ApplyEdits(result.Source, edits)
		if err != nil {
			return nil, fmt.Errorf("fix %s: %w", path, err)
		}

		result.Passes++

		if bytes.Equal(fixed, result.Source) {
			return result, nil
		}

		last = fixPass{source: result.Source, diagnostics: lr.Diagnostics, applied: count}
		result.Source = fixed
		result.Applied += count
	}
}

// fixPass is the state before the latest rewrite.
type fixPass struct {
	source      []byte
	diagnostics []Diagnostic
	applied     int
}

// undo restores the state before the latest rewrite, if there was one.
func (p fixPass) undo(result *FixResult) {
	if p.applied == 0 {
		return
	}

	result.Source = p.source
	result.Remaining = p.diagnostics
	result.Applied -= p.applied
	result.Passes--
}

// SelectFixes picks, in diagnostic order, the fixes whose edits overlap no
// previously picked edit. It returns the edits and the number of
// diagnostics they come from.
func SelectFixes(diags []Diagnostic) ([]TextEdit, int) {
	var (
		picked []TextEdit
		count  int
	)

	for _, d := range diags {
		if !d.HasFix() || conflicts(picked, d.Fix) {
			continue
		}

		picked = append(picked, d.Fix...)
		count++
	}

	return picked, count
}

func conflicts(picked, edits []TextEdit) bool {
	for _, e := range edits {
		for _, p := range picked {
			if e.Overlaps(p) {
				return true
			}
		}
	}

	return false
}
