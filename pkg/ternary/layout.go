// Package ternary computes the canonical multi-line layout of conditional
// expressions and renders the text that rewrites a ternary into it.
//
// The canonical layout puts the condition on its own line, then the `?`
// and `:` tokens on separate lines one indentation unit deeper than the
// condition, each followed by its branch on the same line. A ternary in
// the true branch nests one unit deeper; a ternary in the false branch
// continues the chain at the same column.
package ternary

import (
	"slices"

	"github.com/Sumatoshi-tech/tsfang/pkg/comment"
	"github.com/Sumatoshi-tech/tsfang/pkg/position"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// Flow classifies a ternary by which of its branches are ternaries.
type Flow int

// Flow values.
const (
	NonFlowing Flow = iota
	TrueFlowing
	FalseFlowing
	MixedFlowing
)

// String returns the flow name.
func (f Flow) String() string {
	switch f {
	case TrueFlowing:
		return "true-flowing"
	case FalseFlowing:
		return "false-flowing"
	case MixedFlowing:
		return "mixed-flowing"
	default:
		return "non-flowing"
	}
}

// Classify returns the flow of a ternary node.
func Classify(n *syntax.Node) Flow {
	whenTrue := n.Field(syntax.FieldConsequence).Is(syntax.KindTernary)
	whenFalse := n.Field(syntax.FieldAlternative).Is(syntax.KindTernary)

	switch {
	case whenTrue && whenFalse:
		return MixedFlowing
	case whenTrue:
		return TrueFlowing
	case whenFalse:
		return FalseFlowing
	default:
		return NonFlowing
	}
}

// Info is the line/character extent of the five parts of a ternary.
type Info struct {
	Condition position.Span
	Question  position.Span
	WhenTrue  position.Span
	Colon     position.Span
	WhenFalse position.Span
}

// ActualInfo returns the layout of n as written. It reports false when n
// is not a complete ternary.
func ActualInfo(f *syntax.File, n *syntax.Node) (Info, bool) {
	p, ok := split(n)
	if !ok {
		return Info{}, false
	}

	return p.info(f), true
}

// Placement is where one part of a ternary belongs in the canonical layout.
type Placement struct {
	Span position.Span
	// Text is the part's rendered source. Empty when Nested is set.
	Text string
	// Leading is rendered on its own lines above the part, at its column.
	Leading comment.Info
	// Trailing is rendered after the part on the same line.
	Trailing comment.Info
	// Nested is the layout of a branch that is itself a ternary.
	Nested *Layout
}

// Layout is the canonical layout of one ternary.
type Layout struct {
	Node   *syntax.Node
	Flow   Flow
	Actual Info
	// Indent is the leading whitespace of the anchor line. Rendered lines
	// start with it and are padded to their column with spaces.
	Indent string

	unpadded bool
	hoisted  []comment.Info

	Condition Placement
	Question  Placement
	WhenTrue  Placement
	Colon     Placement
	WhenFalse Placement
}

// Info returns the canonical extent of the five parts.
func (l *Layout) Info() Info {
	return Info{
		Condition: l.Condition.Span,
		Question:  l.Question.Span,
		WhenTrue:  l.WhenTrue.Span,
		Colon:     l.Colon.Span,
		WhenFalse: l.WhenFalse.Span,
	}
}

func (l *Layout) leading(f *syntax.File, n *syntax.Node) comment.Info {
	return l.keep(comment.Leading(f, n))
}

func (l *Layout) trailing(f *syntax.File, n *syntax.Node) comment.Info {
	return l.keep(comment.Trailing(f, n))
}

func (l *Layout) keep(info comment.Info) comment.Info {
	if info.Present() {
		l.hoisted = append(l.hoisted, info)
	}

	return info
}

// comments returns the comment runs the layout places, nested layouts
// included, in source order.
func (l *Layout) comments() []comment.Info {
	out := slices.Clone(l.hoisted)

	for _, branch := range []Placement{l.WhenTrue, l.WhenFalse} {
		if branch.Nested != nil {
			out = append(out, branch.Nested.comments()...)
		}
	}

	slices.SortFunc(out, func(a, b comment.Info) int { return a.StartOffset - b.StartOffset })

	return out
}

// Canonical reports whether the ternary is already laid out canonically.
// Nested ternaries are not consulted.
func (l *Layout) Canonical() bool {
	return l.Info() == l.Actual && !l.unpadded
}

type parts struct {
	condition *syntax.Node
	question  *syntax.Node
	whenTrue  *syntax.Node
	colon     *syntax.Node
	whenFalse *syntax.Node
}

func split(n *syntax.Node) (parts, bool) {
	if !n.Is(syntax.KindTernary) {
		return parts{}, false
	}

	p := parts{
		condition: n.Field(syntax.FieldCondition),
		question:  n.ChildOfKind(syntax.KindQuestionToken),
		whenTrue:  n.Field(syntax.FieldConsequence),
		colon:     n.ChildOfKind(syntax.KindColonToken),
		whenFalse: n.Field(syntax.FieldAlternative),
	}

	for _, c := range []*syntax.Node{p.condition, p.question, p.whenTrue, p.colon, p.whenFalse} {
		// Missing tokens inserted by error recovery are empty.
		if c == nil || c.Len() == 0 {
			return parts{}, false
		}
	}

	return p, true
}

func (p parts) info(f *syntax.File) Info {
	return Info{
		Condition: f.Span(p.condition),
		Question:  f.Span(p.question),
		WhenTrue:  f.Span(p.whenTrue),
		Colon:     f.Span(p.colon),
		WhenFalse: f.Span(p.whenFalse),
	}
}
