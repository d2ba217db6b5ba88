package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
)

type palette struct {
	err, warn, info, dim, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		info: color.New(color.FgCyan),
		dim:  color.New(color.Faint),
		bold: color.New(color.Bold),
	}

	for _, c := range []*color.Color{p.err, p.warn, p.info, p.dim, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) severity(s lint.Severity) *color.Color {
	switch s {
	case lint.SeverityError:
		return p.err
	case lint.SeverityWarning:
		return p.warn
	default:
		return p.info
	}
}

// writeText prints one line per diagnostic in the path:line:column form
// editors recognise, with one-based coordinates.
func writeText(w io.Writer, reports []lint.FileReport, opts Options) error {
	p := newPalette(opts.Color)

	for _, r := range reports {
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: %s\n", r.Path, p.err.Sprint(r.Err)); err != nil {
				return err
			}

			continue
		}

		for _, d := range r.Diagnostics {
			_, err := fmt.Fprintf(w, "%s:%d:%d: %s %s %s\n",
				p.bold.Sprint(d.Path), d.Span.Start.Line+1, d.Span.Start.Character+1,
				p.severity(d.Severity).Sprint(d.Severity), d.Message, p.dim.Sprintf("[%s]", d.Rule))
			if err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w, Summarize(reports))

	return err
}

func writeTable(w io.Writer, reports []lint.FileReport, opts Options) error {
	p := newPalette(opts.Color)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Rule", "Message"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 6, WidthMax: 60},
	})

	for _, r := range reports {
		if r.Err != nil {
			tw.AppendRow(table.Row{r.Path, "", "", p.err.Sprint("failed"), "", r.Err.Error()})

			continue
		}

		for _, d := range r.Diagnostics {
			tw.AppendRow(table.Row{
				d.Path, d.Span.Start.Line + 1, d.Span.Start.Character + 1,
				p.severity(d.Severity).Sprint(d.Severity), d.Rule, d.Message,
			})
		}
	}

	tw.AppendFooter(table.Row{Summarize(reports).String()})
	tw.Render()

	return nil
}

// Rules renders the rule catalogue as a table.
func Rules(w io.Writer, rules []lint.Rule) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Rule", "Severity", "Fixable", "Option", "Type", "Default", "Description"})

	for _, r := range rules {
		meta := r.Meta()
		tw.AppendRow(table.Row{meta.Name, meta.Severity, fixable(meta.Fixable), "", "", "", meta.Description})

		for _, o := range meta.Options {
			tw.AppendRow(table.Row{"", "", "", o.Name, o.Type, o.FormatDefault(), o.Description})
		}

		tw.AppendSeparator()
	}

	tw.Render()
}

func fixable(ok bool) string {
	if ok {
		return "yes"
	}

	return "no"
}
