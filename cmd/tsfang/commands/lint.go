package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfang/pkg/discover"
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
	"github.com/Sumatoshi-tech/tsfang/pkg/report"
)

// LintCommand holds the flags of the lint and fix commands.
type LintCommand struct {
	globals *Globals

	fix     bool
	dryRun  bool
	format  string
	workers int
	exclude []string
	noColor bool
}

// NewLintCommand creates the lint command.
func NewLintCommand(globals *Globals) *cobra.Command {
	lc := &LintCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Report problems in TypeScript sources",
		Long: `Lint TypeScript and TSX files under the given paths (default: current directory).

Exits with status 1 when an error-severity problem is found or a file
cannot be linted.`,
		RunE: lc.run,
	}

	lc.registerFlags(cmd)

	return cmd
}

// NewFixCommand creates the fix command.
func NewFixCommand(globals *Globals) *cobra.Command {
	lc := &LintCommand{globals: globals, fix: true}

	cmd := &cobra.Command{
		Use:   "fix [path...]",
		Short: "Apply auto-fixes to TypeScript sources",
		Long: `Apply every available auto-fix, re-linting until the files are stable.

With --dry-run the files are left untouched and the changes are shown as a diff.`,
		RunE: lc.run,
	}

	lc.registerFlags(cmd)
	cmd.Flags().BoolVar(&lc.dryRun, "dry-run", false, "Show the fixes as a diff without writing files")

	return cmd
}

func (lc *LintCommand) registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&lc.format, "format", "f", "", "Output format: text, table, json, yaml (default from config)")
	cmd.Flags().IntVar(&lc.workers, "workers", 0, "Number of parallel workers (0 = config or CPU count)")
	cmd.Flags().StringSliceVar(&lc.exclude, "exclude", nil, "Additional gitignore-style exclude patterns")
	cmd.Flags().BoolVar(&lc.noColor, "no-color", false, "Disable colored output")
}

func (lc *LintCommand) run(cmd *cobra.Command, args []string) error {
	env, err := lc.globals.setup(observability.ModeCLI)
	if err != nil {
		return err
	}

	runErr := lc.lint(cmd, env, args)

	return errors.Join(runErr, env.close())
}

func (lc *LintCommand) lint(cmd *cobra.Command, env *environment, args []string) error {
	cfg := env.config

	name := cfg.Format
	if lc.format != "" {
		name = lc.format
	}

	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := discover.Discover(cmd.Context(), paths, discover.Options{
		Exclude:          append(append([]string{}, cfg.Exclude...), lc.exclude...),
		RespectGitignore: cfg.Gitignore,
	})
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if lc.workers > 0 {
		workers = lc.workers
	}

	runner := &lint.Runner{
		Linter:      env.linter,
		Workers:     workers,
		Fix:         lc.fix,
		DryRun:      lc.dryRun,
		MaxPasses:   cfg.MaxFixPasses,
		MaxFileSize: cfg.MaxFileSize,
		Metrics:     env.metrics,
	}

	env.providers.Logger.Debug("linting", "files", len(files), "workers", workers, "fix", lc.fix)

	reports, err := runner.Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := report.Options{Color: !lc.noColor && !color.NoColor}

	if lc.dryRun {
		err = writeDiffs(out, reports, opts)
		if err != nil {
			return err
		}
	}

	err = report.Write(out, format, reports, opts)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	summary := report.Summarize(reports)
	if summary.Errors > 0 || summary.Failed > 0 {
		return ErrProblemsFound
	}

	return nil
}

func writeDiffs(w io.Writer, reports []lint.FileReport, opts report.Options) error {
	for _, r := range reports {
		if !r.Changed() {
			continue
		}

		err := report.Diff(w, r.Path, r.Original, r.Fixed, opts)
		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}
