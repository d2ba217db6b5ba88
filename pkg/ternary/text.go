package ternary

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/tsfang/pkg/comment"
	"github.com/Sumatoshi-tech/tsfang/pkg/position"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

type byteRange struct {
	start, end int
}

// advance returns the position reached after writing text at p.
func advance(p position.Position, text string) position.Position {
	breaks := strings.Count(text, "\n")
	if breaks == 0 {
		p.Character += len(text)

		return p
	}

	return position.Position{
		Line:      p.Line + breaks,
		Character: len(text) - strings.LastIndexByte(text, '\n') - 1,
	}
}

// reindent shifts every continuation line of text by delta columns. text
// starts at offset in the file; lines starting inside one of the verbatim
// ranges and blank lines are left alone. A negative delta never removes
// more than the line's leading blanks.
func reindent(text string, offset, delta int, keep []byteRange) string {
	if delta == 0 || !strings.Contains(text, "\n") {
		return text
	}

	lines := strings.SplitAfter(text, "\n")

	var b strings.Builder

	b.Grow(len(text) + len(lines)*max(delta, 0))
	b.WriteString(lines[0])

	at := offset + len(lines[0])

	for _, line := range lines[1:] {
		if inside(at, keep) {
			b.WriteString(line)
		} else {
			b.WriteString(shift(line, delta))
		}

		at += len(line)
	}

	return b.String()
}

func shift(line string, delta int) string {
	content := strings.TrimLeft(line, " \t")
	if strings.TrimRight(content, "\r\n") == "" {
		return line
	}

	blanks := len(line) - len(content)

	if delta > 0 {
		return line[:blanks] + strings.Repeat(" ", delta) + content
	}

	return line[:blanks-min(-delta, blanks)] + content
}

func inside(offset int, ranges []byteRange) bool {
	for _, r := range ranges {
		if r.start < offset && offset < r.end {
			return true
		}
	}

	return false
}

// verbatim returns the multi-line template and string literals under n,
// whose line starts belong to the literal value.
func verbatim(f *syntax.File, n *syntax.Node) []byteRange {
	var out []byteRange

	n.Walk(func(c *syntax.Node) bool {
		if !c.Is(syntax.KindTemplateString, syntax.KindString) {
			return true
		}

		if strings.Contains(f.NodeText(c), "\n") {
			out = append(out, byteRange{start: c.Start, end: c.End})
		}

		return false
	})

	return out
}

// pad returns the indentation of a line starting at column: prefix cut or
// extended with spaces to that width.
func pad(prefix string, column int) string {
	if column <= len(prefix) {
		return prefix[:column]
	}

	return prefix + strings.Repeat(" ", column-len(prefix))
}

// blanksBefore returns the start of the run of spaces and tabs ending at offset.
func blanksBefore(text string, offset int) int {
	for offset > 0 && (text[offset-1] == ' ' || text[offset-1] == '\t') {
		offset--
	}

	return offset
}

// sameContent reports whether the rendering of the text original, which
// starts at offset base, differs from it only in whitespace and in where
// the hoisted comments sit. Code must keep its order. Comments may move
// between lines, so only their bytes are counted.
func sameContent(original string, base int, hoisted []comment.Info, r *renderer) bool {
	var code, notes []byte

	at := 0

	for _, c := range hoisted {
		from, to := c.StartOffset-base, c.EndOffset-base
		if from < at || to > len(original) {
			return false
		}

		code = appendVisible(code, original[at:from])
		notes = appendVisible(notes, original[from:to])
		at = to
	}

	code = appendVisible(code, original[at:])

	rendered := slices.Clone(r.notes)
	slices.Sort(notes)
	slices.Sort(rendered)

	return slices.Equal(code, r.code) && slices.Equal(notes, rendered)
}

func appendVisible(out []byte, s string) []byte {
	for i := range len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			out = append(out, s[i])
		}
	}

	return out
}
