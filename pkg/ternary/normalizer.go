package ternary

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/tsfang/pkg/comment"
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/position"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// DefaultIndent is the default indentation unit in columns.
const DefaultIndent = 2

// Message is reported for every ternary that is not laid out canonically.
const Message = "Ternary expression is not in the canonical multi-line layout."

// Settings configure a Normalizer.
type Settings struct {
	// AllowSingleLine leaves an outermost ternary written on one line alone.
	AllowSingleLine bool
	// Indent is the indentation unit. Values below 1 mean DefaultIndent.
	Indent int
}

// Normalizer lays out the ternaries of one file.
type Normalizer struct {
	file     *syntax.File
	settings Settings
	newline  string
}

// NewNormalizer returns a normalizer for f. Rendered line breaks follow the
// file's convention.
func NewNormalizer(f *syntax.File, settings Settings) *Normalizer {
	if settings.Indent < 1 {
		settings.Indent = DefaultIndent
	}

	newline := "\n"
	if strings.Contains(f.Text(), "\r\n") {
		newline = "\r\n"
	}

	return &Normalizer{file: f, settings: settings, newline: newline}
}

// Layout computes the canonical layout of an outermost ternary. It reports
// false for nodes that are not complete ternaries and for mixed-flowing
// ternaries, which have no canonical layout.
func (nz *Normalizer) Layout(n *syntax.Node) (*Layout, bool) {
	p, ok := split(n)
	if !ok || Classify(n) == MixedFlowing {
		return nil, false
	}

	at := nz.anchor(n)
	l := nz.layout(n, p, at.start, at.lineIndent, at.tokenColumn)
	nz.indent(l, at.prefix)

	return l, true
}

// Check returns the violation of an outermost ternary, or the violations of
// its nested ternaries when the outer layout is already canonical. An error
// wrapping ErrRenderInvariant means the node could not be rewritten safely
// and was skipped.
func (nz *Normalizer) Check(n *syntax.Node) ([]lint.Violation, error) {
	if nz.settings.AllowSingleLine && nz.file.Span(n).SingleLine() {
		return nil, nil
	}

	l, ok := nz.Layout(n)
	if !ok {
		return nil, nil
	}

	return nz.violations(l, true)
}

func (nz *Normalizer) violations(l *Layout, outermost bool) ([]lint.Violation, error) {
	if !l.Canonical() {
		v, ok, err := nz.fix(l, outermost)
		if err != nil || !ok {
			return nil, err
		}

		return []lint.Violation{v}, nil
	}

	var out []lint.Violation

	for _, branch := range []Placement{l.WhenTrue, l.WhenFalse} {
		if branch.Nested == nil {
			continue
		}

		vs, err := nz.violations(branch.Nested, false)
		if err != nil {
			return nil, err
		}

		out = append(out, vs...)
	}

	return out, nil
}

// fix renders l over the node's text. The outermost rewrite also replaces
// the blanks before the condition, since the condition may move to the
// next line.
func (nz *Normalizer) fix(l *Layout, outermost bool) (lint.Violation, bool, error) {
	start, end := l.Node.Start, l.Node.End
	if outermost {
		start = blanksBefore(nz.file.Text(), start)
	}

	r, err := render(l, nz.file.Lines.PositionOf(start), nz.newline)
	if err != nil {
		return lint.Violation{}, false, err
	}

	text := r.out.String()

	original := nz.file.Slice(start, end)
	if text == original {
		return lint.Violation{}, false, nil
	}

	if !sameContent(original, start, l.comments(), r) {
		return lint.Violation{}, false, fmt.Errorf("%w: rewrite at offset %d changes more than whitespace", ErrRenderInvariant, start)
	}

	return lint.Violation{
		Node:    l.Node,
		Message: Message,
		Edits:   []lint.TextEdit{{Start: start, Length: end - start, Text: text}},
	}, true, nil
}

// anchorPoint is where the condition of an outermost ternary goes and the
// column of its `?` and `:` tokens.
type anchorPoint struct {
	start       position.Position
	lineIndent  int
	tokenColumn int
	// prefix is the leading whitespace of the line the indentation is taken from.
	prefix string
}

// anchor places the condition of an outermost ternary.
func (nz *Normalizer) anchor(n *syntax.Node) anchorPoint {
	lines := nz.file.Lines
	unit := nz.settings.Indent
	pos := lines.PositionOf(n.Start)
	indent := lines.IndentationOfLine(pos.Line)
	own := anchorPoint{start: pos, lineIndent: indent, tokenColumn: indent + unit, prefix: nz.prefix(pos.Line)}
	prev := nz.file.PrevToken(n.Start)

	if prev == nil || n.Parent.Is(syntax.KindExpressionStatement) {
		return own
	}

	before := lines.LineText(pos.Line)
	before = before[:min(pos.Character, len(before))]

	switch {
	case strings.TrimSpace(before) == "":
		prevLine := lines.PositionOf(prev.Start).Line
		column := lines.IndentationOfLine(prevLine)

		if !prev.Is(syntax.KindCommaToken) {
			column += unit
		}

		return anchorPoint{
			start:       position.Position{Line: pos.Line, Character: column},
			lineIndent:  column,
			tokenColumn: column + unit,
			prefix:      nz.prefix(prevLine),
		}
	case lines.PositionOf(prev.End).Line != pos.Line, keepsCondition(prev):
		return own
	default:
		column := indent + unit
		own.start = position.Position{Line: pos.Line + 1, Character: column}
		own.lineIndent, own.tokenColumn = column, column+unit

		return own
	}
}

// prefix returns the leading spaces and tabs of a line.
func (nz *Normalizer) prefix(line int) string {
	text := nz.file.Lines.LineText(line)

	return text[:min(nz.file.Lines.IndentationOfLine(line), len(text))]
}

// indent records prefix on l and its nested layouts, and whether their
// tokens are already indented with it.
func (nz *Normalizer) indent(l *Layout, prefix string) {
	l.Indent = prefix

	if p, ok := split(l.Node); ok {
		l.unpadded = !nz.padded(p.question, prefix) || !nz.padded(p.colon, prefix)
	}

	for _, branch := range []Placement{l.WhenTrue, l.WhenFalse} {
		if branch.Nested != nil {
			nz.indent(branch.Nested, prefix)
		}
	}
}

// padded reports whether the line of tok starts the way the renderer
// would indent tok.
func (nz *Normalizer) padded(tok *syntax.Node, prefix string) bool {
	pos := nz.file.Lines.PositionOf(tok.Start)

	return strings.HasPrefix(nz.file.Lines.LineText(pos.Line), pad(prefix, pos.Character))
}

// keepsCondition reports whether a line break after prev would change the
// meaning of the statement or the layout of an argument list.
func keepsCondition(prev *syntax.Node) bool {
	return prev.Is(syntax.KindReturnKeyword, syntax.KindThrowKeyword, syntax.KindYieldKeyword, syntax.KindCommaToken)
}

func (nz *Normalizer) layout(n *syntax.Node, p parts, start position.Position, lineIndent, tokenColumn int) *Layout {
	f := nz.file
	l := &Layout{Node: n, Flow: Classify(n), Actual: p.info(f)}

	text := nz.reindent(p.condition, lineIndent)
	l.Condition = Placement{Span: position.Span{Start: start, End: advance(start, text)}, Text: text}

	var gap []comment.Info

	if trailing := l.trailing(f, p.condition); trailing.SingleLine() {
		l.Condition.Trailing = trailing
	} else {
		gap = append(gap, trailing)
	}

	gap = append(gap, l.leading(f, p.question))

	var next position.Position

	l.Question, next = nz.token(l, p.question, p.whenTrue, l.Condition.Span.End, tokenColumn, gap)
	l.WhenTrue = nz.branch(p.whenTrue, next, tokenColumn, tokenColumn+nz.settings.Indent)

	gap = nil

	if trailing := l.trailing(f, p.whenTrue); trailing.SingleLine() {
		l.WhenTrue.Trailing = trailing
	} else {
		gap = append(gap, trailing)
	}

	gap = append(gap, l.leading(f, p.colon))

	l.Colon, next = nz.token(l, p.colon, p.whenFalse, l.WhenTrue.Span.End, tokenColumn, gap)
	l.WhenFalse = nz.branch(p.whenFalse, next, tokenColumn, tokenColumn)

	return l
}

// token places `?` or `:` on the line after prev, below the comments
// gathered from the gap before it and the gap before its branch. A single
// line block comment after the token stays inline. It returns the placement
// and where the branch starts.
func (nz *Normalizer) token(l *Layout, tok, branch *syntax.Node, prev position.Position, column int, gap []comment.Info) (Placement, position.Position) {
	f := nz.file

	var inline comment.Info

	if trailing := l.trailing(f, tok); trailing.SingleLine() && !trailing.HasLineComment {
		inline = trailing
	} else {
		gap = append(gap, trailing)
	}

	gap = append(gap, l.leading(f, branch))
	block := nz.block(gap, column)

	line := prev.Line + 1
	if block.Present() {
		line += block.LineCount + 1
	}

	text := f.NodeText(tok)
	start := position.Position{Line: line, Character: column}
	placement := Placement{
		Span:     position.Span{Start: start, End: advance(start, text)},
		Text:     text,
		Leading:  block,
		Trailing: inline,
	}

	next := placement.Span.End
	next.Character++

	if inline.Present() {
		next.Character += len(inline.Text) + 1
	}

	return placement, next
}

// branch places a branch at start. A ternary branch is laid out
// recursively with its tokens at nestedColumn; a mixed-flowing one is
// carried like any other expression.
func (nz *Normalizer) branch(n *syntax.Node, start position.Position, lineIndent, nestedColumn int) Placement {
	if p, ok := split(n); ok && Classify(n) != MixedFlowing {
		nested := nz.layout(n, p, start, lineIndent, nestedColumn)

		return Placement{Span: position.Span{Start: start, End: nested.WhenFalse.Span.End}, Nested: nested}
	}

	text := nz.reindent(n, lineIndent)

	return Placement{Span: position.Span{Start: start, End: advance(start, text)}, Text: text}
}

// block joins comment runs into one block whose first line sits at column.
// Continuation lines keep their indentation relative to the line each run
// started on.
func (nz *Normalizer) block(runs []comment.Info, column int) comment.Info {
	lines := nz.file.Lines

	var (
		out   comment.Info
		texts []string
	)

	for _, run := range runs {
		if !run.Present() {
			continue
		}

		if len(texts) == 0 {
			out.StartOffset = run.StartOffset
		}

		delta := column - lines.IndentationOfLine(lines.PositionOf(run.StartOffset).Line)
		texts = append(texts, reindent(run.Text, run.StartOffset, delta, nil))
		out.EndOffset = run.EndOffset
		out.HasTrailingBlankLine = run.HasTrailingBlankLine
		out.HasLineComment = out.HasLineComment || run.HasLineComment
	}

	out.Text = strings.Join(texts, nz.newline)
	out.LineCount = strings.Count(out.Text, "\n")

	if out.HasTrailingBlankLine {
		out.LineCount++
	}

	return out
}

// reindent returns the text of n with its continuation lines shifted so
// that the line n starts on gets lineIndent.
func (nz *Normalizer) reindent(n *syntax.Node, lineIndent int) string {
	lines := nz.file.Lines
	delta := lineIndent - lines.IndentationOfLine(lines.PositionOf(n.Start).Line)

	return reindent(nz.file.NodeText(n), n.Start, delta, verbatim(nz.file, n))
}
