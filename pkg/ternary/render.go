package ternary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/tsfang/pkg/position"
)

// ErrRenderInvariant reports a layout that cannot be rendered faithfully.
var ErrRenderInvariant = errors.New("ternary render invariant violated")

// Render serializes l into the text that replaces the source from the
// position from up to the end of the ternary. Line breaks use newline.
func Render(l *Layout, from position.Position, newline string) (string, error) {
	r, err := render(l, from, newline)
	if err != nil {
		return "", err
	}

	return r.out.String(), nil
}

func render(l *Layout, from position.Position, newline string) (*renderer, error) {
	r := &renderer{at: from, newline: newline, indent: l.Indent}
	if err := r.layout(l); err != nil {
		return nil, err
	}

	return r, nil
}

// renderer writes a layout. Besides the text it keeps the non-blank bytes
// of code and of comments apart for the content check.
type renderer struct {
	out     strings.Builder
	at      position.Position
	newline string
	indent  string
	code    []byte
	notes   []byte
}

func (r *renderer) layout(l *Layout) error {
	for _, p := range []*Placement{&l.Condition, &l.Question, &l.WhenTrue, &l.Colon, &l.WhenFalse} {
		if err := r.placement(p); err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) placement(p *Placement) error {
	if p.Leading.Present() {
		block := position.Position{
			Line:      p.Span.Start.Line - p.Leading.LineCount - 1,
			Character: p.Span.Start.Character,
		}
		if err := r.moveTo(block); err != nil {
			return err
		}

		r.note(p.Leading.Text)
	}

	if err := r.moveTo(p.Span.Start); err != nil {
		return err
	}

	if p.Nested != nil {
		if err := r.layout(p.Nested); err != nil {
			return err
		}
	} else {
		r.write(p.Text)
	}

	if r.at != p.Span.End {
		return fmt.Errorf("%w: part ends at %d:%d, want %d:%d",
			ErrRenderInvariant, r.at.Line, r.at.Character, p.Span.End.Line, p.Span.End.Character)
	}

	if p.Trailing.Present() {
		r.note(" " + p.Trailing.Text)
	}

	return nil
}

func (r *renderer) moveTo(p position.Position) error {
	switch {
	case p.Line > r.at.Line:
		r.out.WriteString(strings.Repeat(r.newline, p.Line-r.at.Line))
		r.out.WriteString(pad(r.indent, p.Character))
	case p.Line == r.at.Line && p.Character >= r.at.Character:
		r.out.WriteString(strings.Repeat(" ", p.Character-r.at.Character))
	default:
		return fmt.Errorf("%w: cannot move back from %d:%d to %d:%d",
			ErrRenderInvariant, r.at.Line, r.at.Character, p.Line, p.Character)
	}

	r.at = p

	return nil
}

func (r *renderer) write(s string) {
	r.out.WriteString(s)
	r.at = advance(r.at, s)
	r.code = appendVisible(r.code, s)
}

func (r *renderer) note(s string) {
	r.out.WriteString(s)
	r.at = advance(r.at, s)
	r.notes = appendVisible(r.notes, s)
}
