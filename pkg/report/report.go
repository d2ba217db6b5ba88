// Package report renders lint results for people and for tools.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/suggest"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatTable), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	if !slices.Contains(Formats(), name) {
		return "", fmt.Errorf("%w: %q%s", ErrUnknownFormat, name, suggest.Hint(name, Formats()))
	}

	return Format(name), nil
}

// Options tune the human readable formats.
type Options struct {
	Color bool
}

// FileEntry is the serialised result of one file.
type FileEntry struct {
	Path         string            `json:"path"                   yaml:"path"`
	Diagnostics  []lint.Diagnostic `json:"diagnostics"            yaml:"diagnostics"`
	Applied      int               `json:"applied,omitempty"      yaml:"applied,omitempty"`
	SyntaxErrors bool              `json:"syntax_errors,omitempty" yaml:"syntax_errors,omitempty"`
	Error        string            `json:"error,omitempty"        yaml:"error,omitempty"`
}

// Document is the serialised result of a run.
type Document struct {
	Files   []FileEntry `json:"files"   yaml:"files"`
	Summary Summary     `json:"summary" yaml:"summary"`
}

// Write renders reports in format.
func Write(w io.Writer, format Format, reports []lint.FileReport, opts Options) error {
	switch format {
	case FormatText:
		return writeText(w, reports, opts)
	case FormatTable:
		return writeTable(w, reports, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(NewDocument(reports))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(NewDocument(reports))
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// NewDocument converts reports into their serialised form.
func NewDocument(reports []lint.FileReport) Document {
	doc := Document{Files: make([]FileEntry, 0, len(reports)), Summary: Summarize(reports)}

	for _, r := range reports {
		entry := FileEntry{
			Path:         r.Path,
			Diagnostics:  r.Diagnostics,
			Applied:      r.Applied,
			SyntaxErrors: r.SyntaxErrors,
		}

		if entry.Diagnostics == nil {
			entry.Diagnostics = []lint.Diagnostic{}
		}

		if r.Err != nil {
			entry.Error = r.Err.Error()
		}

		doc.Files = append(doc.Files, entry)
	}

	return doc
}
