// Package position converts between byte offsets and zero-based
// line/character coordinates of a source text.
package position

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line and byte column.
type Position struct {
	Line      int `json:"line"      yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// Compare orders positions by line, then character.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	default:
		return 0
	}
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// Span is the extent of a node or token. End is never before Start.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end"   yaml:"end"`
}

// NewSpan builds a span, swapping the bounds if they are reversed.
func NewSpan(start, end Position) Span {
	if end.Before(start) {
		start, end = end, start
	}

	return Span{Start: start, End: end}
}

// SingleLine reports whether the span starts and ends on the same line.
func (s Span) SingleLine() bool {
	return s.Start.Line == s.End.Line
}

// LineMap is a line-start table over an immutable source text.
type LineMap struct {
	text   string
	starts []int
}

// NewLineMap indexes the line starts of text.
func NewLineMap(text string) *LineMap {
	starts := []int{0}

	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineMap{text: text, starts: starts}
}

// Text returns the indexed source text.
func (m *LineMap) Text() string {
	return m.text
}

// LineCount returns the number of lines, counting a trailing empty line.
func (m *LineMap) LineCount() int {
	return len(m.starts)
}

// PositionOf maps a byte offset to a position. Offsets are clamped to the text.
func (m *LineMap) PositionOf(offset int) Position {
	offset = max(0, min(offset, len(m.text)))
	line := sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > offset }) - 1

	return Position{Line: line, Character: offset - m.starts[line]}
}

// OffsetOf maps a position back to a byte offset. Lines past the end clamp
// to the text length and characters past the line end clamp to the line end.
func (m *LineMap) OffsetOf(pos Position) int {
	if pos.Line < 0 {
		return 0
	}

	if pos.Line >= len(m.starts) {
		return len(m.text)
	}

	start := m.starts[pos.Line]

	return start + max(0, min(pos.Character, len(m.lineContent(pos.Line))))
}

// SpanOf maps a byte range to a span.
func (m *LineMap) SpanOf(start, end int) Span {
	return NewSpan(m.PositionOf(start), m.PositionOf(end))
}

// LineStart returns the offset of the first byte of line, or -1 when the
// line does not exist.
func (m *LineMap) LineStart(line int) int {
	if line < 0 || line >= len(m.starts) {
		return -1
	}

	return m.starts[line]
}

// LineText returns the content of a line without its terminator, or ""
// for lines outside the text.
func (m *LineMap) LineText(line int) string {
	if line < 0 || line >= len(m.starts) {
		return ""
	}

	return m.lineContent(line)
}

// IndentationOfLine counts the leading spaces and tabs of a line. A blank
// line's indentation is its whole content length. Lines outside the text
// have indentation 0.
func (m *LineMap) IndentationOfLine(line int) int {
	if line < 0 || line >= len(m.starts) {
		return 0
	}

	return Indentation(m.lineContent(line))
}

// UTF16Character converts the byte column of pos to a UTF-16 code unit column.
func (m *LineMap) UTF16Character(pos Position) int {
	content := m.LineText(pos.Line)
	limit := min(pos.Character, len(content))
	units := 0

	for _, r := range content[:limit] {
		units += utf16.RuneLen(r)
	}

	return units
}

// FromUTF16 converts a UTF-16 based position into a byte based one.
func (m *LineMap) FromUTF16(line, character int) Position {
	content := m.LineText(line)
	units := 0

	for i, r := range content {
		if units >= character {
			return Position{Line: line, Character: i}
		}

		if r == utf8.RuneError {
			units++

			continue
		}

		units += utf16.RuneLen(r)
	}

	return Position{Line: line, Character: len(content)}
}

func (m *LineMap) lineContent(line int) string {
	end := len(m.text)
	if line+1 < len(m.starts) {
		end = m.starts[line+1] - 1
	}

	content := m.text[m.starts[line]:end]
	if n := len(content); n > 0 && content[n-1] == '\r' {
		content = content[:n-1]
	}

	return content
}

// Indentation counts the leading spaces and tabs of s.
func Indentation(s string) int {
	n := 0

	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}

	return n
}
