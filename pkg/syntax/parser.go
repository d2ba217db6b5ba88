// Package syntax parses TypeScript and TSX with tree-sitter and exposes the
// result as an immutable tree of nodes with recorded grammar fields, a token
// index and comment ranges.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
)

// Language selects the grammar used to parse a file.
type Language string

// Supported languages.
const (
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

// Sentinel errors.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrParse               = errors.New("parse failed")
)

var languageFuncs = map[Language]func() unsafe.Pointer{
	TypeScript: typescript.GetLanguage,
	TSX:        tsx.GetLanguage,
}

var (
	languageCache sync.Map
	parserPools   sync.Map
)

// LanguageForPath picks the grammar from a file extension.
func LanguageForPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return TypeScript, true
	case ".tsx":
		return TSX, true
	default:
		return "", false
	}
}

// ParseLanguage resolves a language name such as "typescript" or "tsx".
func ParseLanguage(name string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := languageFuncs[lang]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}

	return lang, nil
}

func grammar(lang Language) (*sitter.Language, error) {
	if cached, ok := languageCache.Load(lang); ok {
		if l, castOK := cached.(*sitter.Language); castOK {
			return l, nil
		}
	}

	fn, ok := languageFuncs[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	l := sitter.NewLanguage(fn())
	languageCache.Store(lang, l)

	return l, nil
}

func pool(lang Language, l *sitter.Language) *sync.Pool {
	p, _ := parserPools.LoadOrStore(lang, &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(l)

			return tsParser
		},
	})

	return p.(*sync.Pool) //nolint:forcetypeassert // only *sync.Pool values are stored
}

// Parse parses source with the grammar of lang. Syntax errors do not fail the
// parse; they are reported through File.HasErrors.
func Parse(ctx context.Context, path string, lang Language, source []byte) (*File, error) {
	l, err := grammar(lang)
	if err != nil {
		return nil, err
	}

	p := pool(lang, l)

	tsParser, ok := p.Get().(*sitter.Parser)
	if !ok {
		return nil, fmt.Errorf("%w: parser pool returned an unexpected type", ErrParse)
	}
	defer p.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%w: %s: no root node", ErrParse, path)
	}

	return newFile(path, lang, source, convert(root, nil, 0)), nil
}

// ParseString is Parse for in-memory snippets.
func ParseString(ctx context.Context, lang Language, source string) (*File, error) {
	return Parse(ctx, "<input>", lang, []byte(source))
}

func convert(tsNode sitter.Node, parent *Node, index int) *Node {
	n := &Node{
		Kind:   tsNode.Type(),
		Named:  tsNode.IsNamed(),
		Start:  offset(tsNode.StartByte()),
		End:    offset(tsNode.EndByte()),
		Parent: parent,
		index:  index,
	}

	count := tsNode.ChildCount()
	if count > 0 {
		n.Children = make([]*Node, 0, count)
	}

	for i := range count {
		n.Children = append(n.Children, convert(tsNode.Child(i), n, len(n.Children)))
	}

	recordFields(tsNode, n)

	return n
}

func recordFields(tsNode sitter.Node, n *Node) {
	names, ok := fieldsByKind[n.Kind]
	if !ok {
		return
	}

	for _, name := range names {
		fieldNode := tsNode.ChildByFieldName(name)
		if fieldNode.IsNull() {
			continue
		}

		start, end, kind := offset(fieldNode.StartByte()), offset(fieldNode.EndByte()), fieldNode.Type()

		for _, c := range n.Children {
			if c.Start == start && c.End == end && c.Kind == kind {
				if n.fields == nil {
					n.fields = make(map[string]*Node, len(names))
				}

				n.fields[name] = c

				break
			}
		}
	}
}

const maxOffset = uint(^uint32(0))

// offset converts a tree-sitter byte offset. Sources larger than 4 GiB are
// rejected by the callers before parsing.
func offset(v uint) int {
	if v > maxOffset {
		panic(fmt.Sprintf("syntax: byte offset %d out of range", v))
	}

	return int(v)
}
