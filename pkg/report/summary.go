package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
)

// Summary counts the outcome of a run.
type Summary struct {
	Files    int    `json:"files"    yaml:"files"`
	Bytes    uint64 `json:"bytes"    yaml:"bytes"`
	Errors   int    `json:"errors"   yaml:"errors"`
	Warnings int    `json:"warnings" yaml:"warnings"`
	Infos    int    `json:"infos"    yaml:"infos"`
	Fixable  int    `json:"fixable"  yaml:"fixable"`
	Fixed    int    `json:"fixed"    yaml:"fixed"`
	// Failed counts files that could not be read, parsed or written.
	Failed int `json:"failed" yaml:"failed"`
}

// Summarize counts reports.
func Summarize(reports []lint.FileReport) Summary {
	var s Summary

	for _, r := range reports {
		s.Files++
		s.Bytes += uint64(len(r.Original))
		s.Fixed += r.Applied

		if r.Err != nil {
			s.Failed++
		}

		for _, d := range r.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				s.Errors++
			case lint.SeverityWarning:
				s.Warnings++
			default:
				s.Infos++
			}

			if d.HasFix() {
				s.Fixable++
			}
		}
	}

	return s
}

// Problems returns the number of diagnostics.
func (s Summary) Problems() int {
	return s.Errors + s.Warnings + s.Infos
}

// String renders the one line summary printed after the human formats.
func (s Summary) String() string {
	var b strings.Builder

	if s.Problems() == 0 {
		b.WriteString("no problems")
	} else {
		fmt.Fprintf(&b, "%s (%s, %s)",
			english.Plural(s.Problems(), "problem", ""),
			english.Plural(s.Errors, "error", ""),
			english.Plural(s.Warnings, "warning", ""))
	}

	fmt.Fprintf(&b, " in %s files (%s)", humanize.Comma(int64(s.Files)), humanize.Bytes(s.Bytes))

	if s.Fixed > 0 {
		fmt.Fprintf(&b, ", %s applied", english.Plural(s.Fixed, "fix", "fixes"))
	} else if s.Fixable > 0 {
		fmt.Fprintf(&b, ", %s fixable with tsfang fix", humanize.Comma(int64(s.Fixable)))
	}

	if s.Failed > 0 {
		fmt.Fprintf(&b, ", %s failed", english.Plural(s.Failed, "file", ""))
	}

	return b.String()
}
