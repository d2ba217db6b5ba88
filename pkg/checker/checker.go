// Package checker resolves type references against the type aliases
// declared in the same file. It is the type resolution service behind the
// return-type inspection when no compiler is available.
package checker

import (
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
	"github.com/Sumatoshi-tech/tsfang/pkg/typeshape"
)

// Checker indexes the type aliases of one file. It is immutable after New.
type Checker struct {
	file    *syntax.File
	aliases map[string][]*syntax.Node
}

var _ typeshape.Resolver = (*Checker)(nil)

// New indexes every type alias declaration of f by name, regardless of scope.
func New(f *syntax.File) *Checker {
	c := &Checker{file: f, aliases: make(map[string][]*syntax.Node)}

	f.Root.Walk(func(n *syntax.Node) bool {
		if n.Kind != syntax.KindTypeAlias {
			return true
		}

		if name := n.Field(syntax.FieldName); name != nil {
			key := f.NodeText(name)
			c.aliases[key] = append(c.aliases[key], n)
		}

		return true
	})

	return c
}

// TypeOf returns the alias type a reference names, with its type arguments
// bound to the alias type parameters. Unknown and qualified names resolve to nil.
func (c *Checker) TypeOf(ref *typeshape.Reference) *typeshape.Type {
	if ref == nil || ref.Qualified {
		return nil
	}

	decls := c.aliases[ref.Name]
	if len(decls) == 0 {
		return nil
	}

	return &typeshape.Type{
		Name:     ref.Name,
		Alias:    &typeshape.Alias{Name: ref.Name, Nodes: decls},
		Bindings: c.bind(decls[0], ref.Args),
	}
}

// ShapeOf returns the value of the first alias declaration with the type
// arguments substituted.
func (c *Checker) ShapeOf(t *typeshape.Type) typeshape.Shape {
	if t == nil || t.Alias == nil || len(t.Alias.Nodes) == 0 {
		return nil
	}

	return typeshape.FromNode(c.file, t.Alias.Nodes[0].Field(syntax.FieldValue), t.Bindings)
}

// AliasDeclarations returns every declaration of the type's alias symbol.
func (c *Checker) AliasDeclarations(t *typeshape.Type) []typeshape.Declaration {
	if t == nil || t.Alias == nil {
		return nil
	}

	out := make([]typeshape.Declaration, 0, len(t.Alias.Nodes))

	for _, n := range t.Alias.Nodes {
		value := typeshape.FromNode(c.file, n.Field(syntax.FieldValue), t.Bindings)
		if value == nil {
			continue
		}

		out = append(out, typeshape.Declaration{Node: n, Value: value})
	}

	return out
}

func (c *Checker) bind(decl *syntax.Node, args []typeshape.Shape) typeshape.Bindings {
	params := decl.Field(syntax.FieldTypeParameters)
	if params == nil {
		return nil
	}

	b := make(typeshape.Bindings)
	i := 0

	for _, p := range params.NamedChildren() {
		if p.Kind != syntax.KindTypeParameter {
			continue
		}

		if i < len(args) {
			b[c.file.NodeText(p.Field(syntax.FieldName))] = args[i]
		}

		i++
	}

	return b
}
