package typeshape

import "github.com/Sumatoshi-tech/tsfang/pkg/syntax"

// Alias is the symbol of a type alias with its declaration nodes.
type Alias struct {
	Name  string
	Nodes []*syntax.Node
}

// Type is the semantic type a Resolver assigns to a reference.
type Type struct {
	Name string
	// Alias is nil when the type is not a type alias.
	Alias *Alias
	// Bindings maps the alias type parameters to the reference's arguments.
	Bindings Bindings
}

// Declaration is one alias declaration with its projected value.
type Declaration struct {
	Node  *syntax.Node
	Value Shape
}

// Resolver answers type queries for the inspection. Every method returns
// nil when it has no answer; callers treat that as absence, not failure.
type Resolver interface {
	// TypeOf resolves a type reference to its semantic type.
	TypeOf(ref *Reference) *Type
	// ShapeOf converts a semantic type back into a type shape.
	ShapeOf(t *Type) Shape
	// AliasDeclarations lists the declarations of the type's alias symbol.
	AliasDeclarations(t *Type) []Declaration
}
