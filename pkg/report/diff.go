package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 3

type diffLine struct {
	op      diffmatchpatch.Operation
	text    string
	oldLine int
	newLine int
}

// Diff writes a unified style line diff between the original and fixed
// content of path. Nothing is written when they are equal.
func Diff(w io.Writer, path string, original, fixed []byte, opts Options) error {
	lines := diffLines(string(original), string(fixed))

	var changed []int

	for i, l := range lines {
		if l.op != diffmatchpatch.DiffEqual {
			changed = append(changed, i)
		}
	}

	if len(changed) == 0 {
		return nil
	}

	p := newPalette(opts.Color)

	if _, err := fmt.Fprintf(w, "%s\n%s\n", p.bold.Sprint("--- "+path), p.bold.Sprint("+++ "+path)); err != nil {
		return err
	}

	for _, h := range hunks(changed, len(lines)) {
		first := lines[h[0]]
		if _, err := fmt.Fprintln(w, p.info.Sprintf("@@ -%d +%d @@", first.oldLine, first.newLine)); err != nil {
			return err
		}

		for _, l := range lines[h[0]:h[1]] {
			var err error

			switch l.op {
			case diffmatchpatch.DiffDelete:
				_, err = fmt.Fprintln(w, p.err.Sprint("-"+l.text))
			case diffmatchpatch.DiffInsert:
				_, err = fmt.Fprintln(w, p.warn.Sprint("+"+l.text))
			default:
				_, err = fmt.Fprintln(w, " "+l.text)
			}

			if err != nil {
				return err
			}
		}
	}

	return nil
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []diffLine

	oldLine, newLine := 1, 1

	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			out = append(out, diffLine{op: d.Type, text: text, oldLine: oldLine, newLine: newLine})

			switch d.Type {
			case diffmatchpatch.DiffDelete:
				oldLine++
			case diffmatchpatch.DiffInsert:
				newLine++
			case diffmatchpatch.DiffEqual:
				oldLine++
				newLine++
			}
		}
	}

	return out
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

// hunks groups changed line indexes into [start, end) ranges padded with
// context and merged when they touch.
func hunks(changed []int, total int) [][2]int {
	var out [][2]int

	for _, i := range changed {
		start, end := max(0, i-diffContext), min(total, i+diffContext+1)

		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)

			continue
		}

		out = append(out, [2]int{start, end})
	}

	return out
}
