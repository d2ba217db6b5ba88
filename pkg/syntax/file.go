package syntax

import (
	"sort"

	"github.com/Sumatoshi-tech/tsfang/pkg/position"
)

// File is a parsed source file. It is read-only after Parse returns and
// safe for concurrent readers.
type File struct {
	Path     string
	Language Language
	Source   []byte
	Lines    *position.LineMap
	Root     *Node

	text     string
	tokens   []*Node
	comments []*Node
	errors   int
}

func newFile(path string, lang Language, source []byte, root *Node) *File {
	text := string(source)
	f := &File{
		Path:     path,
		Language: lang,
		Source:   source,
		Lines:    position.NewLineMap(text),
		Root:     root,
		text:     text,
	}

	root.Walk(func(n *Node) bool {
		switch {
		case n.Kind == KindError:
			f.errors++
		case n.Kind == KindComment:
			f.comments = append(f.comments, n)

			return false
		case len(n.Children) == 0 && n.End > n.Start:
			f.tokens = append(f.tokens, n)
		}

		return true
	})

	return f
}

// Text returns the source text of the whole file.
func (f *File) Text() string {
	return f.text
}

// NodeText returns the source text covered by n.
func (f *File) NodeText(n *Node) string {
	if n == nil {
		return ""
	}

	return f.text[n.Start:n.End]
}

// Slice returns the source text between two offsets.
func (f *File) Slice(start, end int) string {
	start = max(0, min(start, len(f.text)))
	end = max(start, min(end, len(f.text)))

	return f.text[start:end]
}

// Span returns the line/character extent of n.
func (f *File) Span(n *Node) position.Span {
	return f.Lines.SpanOf(n.Start, n.End)
}

// HasErrors reports whether the parser recovered from syntax errors.
func (f *File) HasErrors() bool {
	return f.errors > 0
}

// Comments returns every comment in source order.
func (f *File) Comments() []*Node {
	return f.comments
}

// Tokens returns every non-comment leaf in source order.
func (f *File) Tokens() []*Node {
	return f.tokens
}

// PrevToken returns the last non-comment token ending at or before offset.
func (f *File) PrevToken(offset int) *Node {
	i := sort.Search(len(f.tokens), func(i int) bool { return f.tokens[i].End > offset })
	if i == 0 {
		return nil
	}

	return f.tokens[i-1]
}

// NextToken returns the first non-comment token starting at or after offset.
func (f *File) NextToken(offset int) *Node {
	i := sort.Search(len(f.tokens), func(i int) bool { return f.tokens[i].Start >= offset })
	if i == len(f.tokens) {
		return nil
	}

	return f.tokens[i]
}

// CommentsBetween returns the comments lying entirely within [start, end).
func (f *File) CommentsBetween(start, end int) []*Node {
	i := sort.Search(len(f.comments), func(i int) bool { return f.comments[i].Start >= start })

	var out []*Node

	for ; i < len(f.comments) && f.comments[i].End <= end; i++ {
		out = append(out, f.comments[i])
	}

	return out
}
