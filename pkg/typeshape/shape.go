// Package typeshape is a read-only projection of TypeScript type syntax onto
// the few shapes the return-type inspection understands: references, object
// type literals, tuples and everything else.
package typeshape

import (
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// Shape is a closed union; its variants are Reference, TypeLiteral,
// TupleType and Other.
type Shape interface {
	// Syntax returns the node the shape was projected from.
	Syntax() *syntax.Node
	isShape()
}

// Reference is a named type such as Foo or Foo<A, B>.
type Reference struct {
	Node *syntax.Node
	// NameNode is the identifier naming the type.
	NameNode *syntax.Node
	Name     string
	// Qualified is set for dotted names such as ns.Foo, which are never matched.
	Qualified bool
	Args      []Shape
}

// TypeLiteral is an object type { a: A; b: B }.
type TypeLiteral struct {
	Node    *syntax.Node
	Members []PropertySignature
}

// PropertySignature is one property of a TypeLiteral. Type is nil when the
// property has no annotation.
type PropertySignature struct {
	Node *syntax.Node
	Name string
	Type Shape
}

// TupleType is [A, B, ...].
type TupleType struct {
	Node     *syntax.Node
	Elements []Shape
}

// Other is any type syntax the inspection does not look into.
type Other struct {
	Node *syntax.Node
}

func (s *Reference) Syntax() *syntax.Node   { return s.Node }
func (s *TypeLiteral) Syntax() *syntax.Node { return s.Node }
func (s *TupleType) Syntax() *syntax.Node   { return s.Node }
func (s *Other) Syntax() *syntax.Node       { return s.Node }

func (*Reference) isShape()   {}
func (*TypeLiteral) isShape() {}
func (*TupleType) isShape()   {}
func (*Other) isShape()       {}

// Bindings substitutes type parameter names with argument shapes.
type Bindings map[string]Shape

// FromNode projects a type node. Type identifiers bound in b are replaced by
// their bound shape. A nil node yields nil.
func FromNode(f *syntax.File, n *syntax.Node, b Bindings) Shape {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case syntax.KindTypeAnnotation, syntax.KindParenthesizedType, syntax.KindOptionalType, syntax.KindRestType:
		return FromNode(f, n.FirstNamedChild(), b)
	case syntax.KindTypeIdentifier:
		name := f.NodeText(n)
		if bound, ok := b[name]; ok {
			return bound
		}

		return &Reference{Node: n, NameNode: n, Name: name}
	case syntax.KindNestedTypeID:
		return &Reference{Node: n, NameNode: n, Name: f.NodeText(n), Qualified: true}
	case syntax.KindGenericType:
		return genericReference(f, n, b)
	case syntax.KindObjectType:
		return typeLiteral(f, n, b)
	case syntax.KindTupleType:
		tuple := &TupleType{Node: n}

		for _, el := range n.NamedChildren() {
			if el.Kind == syntax.KindComment {
				continue
			}

			tuple.Elements = append(tuple.Elements, FromNode(f, el, b))
		}

		return tuple
	default:
		return &Other{Node: n}
	}
}

func genericReference(f *syntax.File, n *syntax.Node, b Bindings) Shape {
	nameNode := n.Field(syntax.FieldName)
	if nameNode == nil {
		return &Other{Node: n}
	}

	ref := &Reference{
		Node:      n,
		NameNode:  nameNode,
		Name:      f.NodeText(nameNode),
		Qualified: nameNode.Kind != syntax.KindTypeIdentifier,
	}

	if args := n.Field(syntax.FieldTypeArguments); args != nil {
		for _, a := range args.NamedChildren() {
			if a.Kind == syntax.KindComment {
				continue
			}

			ref.Args = append(ref.Args, FromNode(f, a, b))
		}
	}

	return ref
}

func typeLiteral(f *syntax.File, n *syntax.Node, b Bindings) Shape {
	lit := &TypeLiteral{Node: n}

	for _, m := range n.NamedChildren() {
		if m.Kind != syntax.KindPropertySignature {
			continue
		}

		lit.Members = append(lit.Members, PropertySignature{
			Node: m,
			Name: f.NodeText(m.Field(syntax.FieldName)),
			Type: FromNode(f, m.Field(syntax.FieldType), b),
		})
	}

	return lit
}

// ReturnType projects the declared return type of a function-like node. It
// returns nil when the node declares no return type or when the annotation
// is a type predicate.
func ReturnType(f *syntax.File, fn *syntax.Node) Shape {
	if fn == nil || !syntax.IsFunctionLike(fn.Kind) {
		return nil
	}

	rt := fn.Field(syntax.FieldReturnType)
	if rt == nil || rt.Kind != syntax.KindTypeAnnotation {
		return nil
	}

	return FromNode(f, rt, nil)
}
