// Package comment extracts the comments attached before or after a syntax
// node: leading comments sit between the previous token and the node,
// trailing comments follow the node on its last line.
package comment

import (
	"strings"

	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// Info describes a run of adjacent comments. The zero value means absent.
type Info struct {
	// Text is the verbatim source from the first comment start to the last comment end.
	Text string
	// LineCount is the number of newlines in Text, plus one when HasTrailingBlankLine.
	LineCount   int
	StartOffset int
	EndOffset   int
	// HasTrailingBlankLine is set when a blank line separates the last comment from what follows.
	HasTrailingBlankLine bool
	// HasLineComment is set when the run contains a // comment.
	HasLineComment bool
}

// Present reports whether any comment was found.
func (i Info) Present() bool {
	return i.Text != ""
}

// SingleLine reports whether the run fits on one line.
func (i Info) SingleLine() bool {
	return !strings.Contains(i.Text, "\n")
}

// Leading returns the comments between the token preceding n and n itself.
// Comments starting on the line of that preceding token belong to it as
// trailing comments and are excluded.
func Leading(f *syntax.File, n *syntax.Node) Info {
	return LeadingAt(f, n.Start)
}

// LeadingAt is Leading for an arbitrary offset.
func LeadingAt(f *syntax.File, offset int) Info {
	lo := 0
	prevLine := -1

	if prev := f.PrevToken(offset); prev != nil {
		lo = prev.End
		prevLine = f.Lines.PositionOf(prev.End).Line
	}

	comments := commentsIn(f, lo, offset)

	for len(comments) > 0 && f.Lines.PositionOf(comments[0].start).Line == prevLine {
		comments = comments[1:]
	}

	return build(f, comments, offset)
}

// Trailing returns the comments that follow n on the line where n ends.
func Trailing(f *syntax.File, n *syntax.Node) Info {
	return TrailingAt(f, n.End)
}

// TrailingAt is Trailing for an arbitrary offset.
func TrailingAt(f *syntax.File, offset int) Info {
	hi := len(f.Source)
	if next := f.NextToken(offset); next != nil {
		hi = next.Start
	}

	line := f.Lines.PositionOf(offset).Line
	all := commentsIn(f, offset, hi)
	n := 0

	for n < len(all) && f.Lines.PositionOf(all[n].start).Line == line {
		n++

		if all[n-1].line {
			break
		}
	}

	return build(f, all[:n], hi)
}

// span is the extent of one comment.
type span struct {
	start, end int
	line       bool
}

// commentsIn returns the comments within [lo, hi). The TypeScript scanner
// folds some comments into the trivia before a token, so a gap holding only
// whitespace and comments is lexed directly and the tree is the fallback.
func commentsIn(f *syntax.File, lo, hi int) []span {
	if spans, ok := lex(f.Slice(lo, hi), lo); ok {
		return spans
	}

	nodes := f.CommentsBetween(lo, hi)
	out := make([]span, 0, len(nodes))

	for _, c := range nodes {
		out = append(out, span{start: c.Start, end: c.End, line: strings.HasPrefix(f.NodeText(c), "//")})
	}

	return out
}

// lex splits text into comment spans shifted by base. It fails when text
// holds anything besides whitespace and comments.
func lex(text string, base int) ([]span, bool) {
	var out []span

	for i := 0; i < len(text); {
		rest := text[i:]

		switch {
		case strings.IndexByte(" \t\r\n\f\v", rest[0]) >= 0:
			i++
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}

			out = append(out, span{start: base + i, end: base + i + len(strings.TrimRight(rest[:end], "\r")), line: true})
			i += end
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return nil, false
			}

			out = append(out, span{start: base + i, end: base + i + end + 4})
			i += end + 4
		default:
			return nil, false
		}
	}

	return out, true
}

func build(f *syntax.File, comments []span, follow int) Info {
	if len(comments) == 0 {
		return Info{}
	}

	first, last := comments[0], comments[len(comments)-1]
	info := Info{
		Text:        f.Slice(first.start, last.end),
		StartOffset: first.start,
		EndOffset:   last.end,
	}

	for _, c := range comments {
		if c.line {
			info.HasLineComment = true
		}
	}

	info.HasTrailingBlankLine = strings.Count(f.Slice(last.end, follow), "\n") > 1
	info.LineCount = strings.Count(info.Text, "\n")

	if info.HasTrailingBlankLine {
		info.LineCount++
	}

	return info
}
