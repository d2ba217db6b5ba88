// Package readonlyreturn forbids a read-only array type in function return
// types, optionally looking through generic arguments, object and tuple
// shapes, and type aliases.
package readonlyreturn

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
	"github.com/Sumatoshi-tech/tsfang/pkg/typeshape"
)

// Default type names.
const (
	DefaultForbiddenType   = "ReadonlyArray"
	DefaultReplacementType = "Array"
)

// Settings tunes an Inspector.
type Settings struct {
	// IncludeTypeArguments flags the forbidden type used as a generic argument.
	IncludeTypeArguments bool
	// Deep flags the forbidden type inside object types, tuples and resolved aliases.
	Deep            bool
	ForbiddenType   string
	ReplacementType string
}

func (s Settings) withDefaults() Settings {
	if s.ForbiddenType == "" {
		s.ForbiddenType = DefaultForbiddenType
	}

	if s.ReplacementType == "" {
		s.ReplacementType = DefaultReplacementType
	}

	return s
}

// DirectMessage is reported when the return type is the forbidden type.
func (s Settings) DirectMessage() string {
	return fmt.Sprintf("Do not return a %s; return an %s instead.", s.ForbiddenType, s.ReplacementType)
}

// TypeArgumentMessage is reported when the forbidden type is a generic argument.
func (s Settings) TypeArgumentMessage() string {
	return fmt.Sprintf("Do not return a type containing a %s; use an %s instead.", s.ForbiddenType, s.ReplacementType)
}

// DeepMessage is reported when the forbidden type is nested in the result.
func (s Settings) DeepMessage() string {
	return fmt.Sprintf("Do not return a %s within the result; use an %s instead.", s.ForbiddenType, s.ReplacementType)
}

// Inspector checks the return types of function-like nodes of one file.
type Inspector struct {
	settings Settings
	file     *syntax.File
	resolver typeshape.Resolver
}

// NewInspector creates an inspector. The resolver may be nil, which turns
// off alias resolution.
func NewInspector(f *syntax.File, resolver typeshape.Resolver, settings Settings) *Inspector {
	return &Inspector{settings: settings.withDefaults(), file: f, resolver: resolver}
}

// aliasPath holds the aliases being expanded on the current recursion path.
type aliasPath []string

func (p aliasPath) with(name string) aliasPath {
	return append(slices.Clip(p), name)
}

// Inspect returns the violations of fn's declared return type. A missing or
// unrecognised return type yields none. Checks run in order (direct match,
// type arguments, deep) and the first that finds anything wins. At most
// one violation is returned per anchor.
func (in *Inspector) Inspect(fn *syntax.Node) []lint.Violation {
	ret := typeshape.ReturnType(in.file, fn)
	if ret == nil {
		return nil
	}

	var found []lint.Violation

	if ref, ok := ret.(*typeshape.Reference); ok {
		found = in.reference(ref, in.settings.DirectMessage(), true, nil, nil)
	}

	if len(found) == 0 && in.settings.Deep {
		switch s := ret.(type) {
		case *typeshape.TypeLiteral:
			found = in.literal(s, true, nil, nil)
		case *typeshape.TupleType:
			found = in.tuple(s, true, nil, nil)
		case *typeshape.Reference, *typeshape.Other:
		}
	}

	return dedupe(found)
}

// reference checks one type reference. mark, when set, is where violations
// are anchored instead of the matching node. Fix edits are only attached
// when safe.
func (in *Inspector) reference(
	ref *typeshape.Reference, msg string, safe bool, mark *syntax.Node, path aliasPath,
) []lint.Violation {
	if ref.Qualified {
		return nil
	}

	if ref.Name == in.settings.ForbiddenType {
		return []lint.Violation{in.violation(ref, msg, safe, mark)}
	}

	if in.settings.IncludeTypeArguments {
		argMark := mark
		if argMark == nil {
			argMark = ref.Node
		}

		if found := in.typeArguments(ref, safe, argMark); len(found) > 0 {
			return found
		}
	}

	return in.resolved(ref, mark, path)
}

// typeArguments flags every forbidden generic argument of ref at any depth,
// anchored at mark.
func (in *Inspector) typeArguments(ref *typeshape.Reference, safe bool, mark *syntax.Node) []lint.Violation {
	var found []lint.Violation

	for _, arg := range ref.Args {
		argRef, ok := arg.(*typeshape.Reference)
		if !ok || argRef.Qualified {
			continue
		}

		if argRef.Name == in.settings.ForbiddenType {
			found = append(found, in.violation(argRef, in.settings.TypeArgumentMessage(), safe, mark))
		}

		found = append(found, in.typeArguments(argRef, safe, mark)...)
	}

	return found
}

// resolved looks through the type a reference resolves to. Rewriting is
// never safe past this point since the matches live in other declarations.
func (in *Inspector) resolved(ref *typeshape.Reference, mark *syntax.Node, path aliasPath) []lint.Violation {
	if !in.settings.Deep || in.resolver == nil {
		return nil
	}

	typ := in.resolver.TypeOf(ref)
	if typ == nil || slices.Contains(path, typ.Name) {
		return nil
	}

	path = path.with(typ.Name)

	if mark == nil {
		mark = ref.Node
	}

	if shape := in.resolver.ShapeOf(typ); shape != nil {
		if found := in.shape(shape, false, mark, path); len(found) > 0 {
			return found
		}
	}

	var found []lint.Violation

	for _, decl := range in.resolver.AliasDeclarations(typ) {
		if lit, ok := decl.Value.(*typeshape.TypeLiteral); ok {
			found = append(found, in.literal(lit, false, mark, path)...)
		}
	}

	return found
}

func (in *Inspector) shape(s typeshape.Shape, safe bool, mark *syntax.Node, path aliasPath) []lint.Violation {
	switch s := s.(type) {
	case *typeshape.Reference:
		return in.reference(s, in.settings.DeepMessage(), safe, mark, path)
	case *typeshape.TypeLiteral:
		return in.literal(s, safe, mark, path)
	case *typeshape.TupleType:
		return in.tuple(s, safe, mark, path)
	case *typeshape.Other:
		return nil
	default:
		return nil
	}
}

func (in *Inspector) literal(lit *typeshape.TypeLiteral, safe bool, mark *syntax.Node, path aliasPath) []lint.Violation {
	var found []lint.Violation

	for _, m := range lit.Members {
		if m.Type != nil {
			found = append(found, in.shape(m.Type, safe, mark, path)...)
		}
	}

	return found
}

// tuple checks every element. Elements often resolve to the same mark, so
// the result is de-duplicated by anchor.
func (in *Inspector) tuple(t *typeshape.TupleType, safe bool, mark *syntax.Node, path aliasPath) []lint.Violation {
	var found []lint.Violation

	for _, el := range t.Elements {
		found = append(found, in.shape(el, safe, mark, path)...)
	}

	return dedupe(found)
}

func (in *Inspector) violation(ref *typeshape.Reference, msg string, safe bool, mark *syntax.Node) lint.Violation {
	anchor := mark
	if anchor == nil {
		anchor = ref.Node
	}

	v := lint.Violation{Node: anchor, Message: msg}

	if safe && ref.NameNode != nil && in.file.NodeText(ref.NameNode) == in.settings.ForbiddenType {
		v.Edits = []lint.TextEdit{{
			Start:  ref.NameNode.Start,
			Length: ref.NameNode.Len(),
			Text:   in.settings.ReplacementType,
		}}
	}

	return v
}

type anchorKey struct{ start, end int }

// dedupe keeps the first violation per anchor position and folds the edits
// of later ones into it.
func dedupe(found []lint.Violation) []lint.Violation {
	if len(found) < 2 {
		return found
	}

	index := make(map[anchorKey]int, len(found))
	out := make([]lint.Violation, 0, len(found))

	for _, v := range found {
		key := anchorKey{v.Node.Start, v.Node.End}

		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, lint.Violation{Node: v.Node, Message: v.Message, Edits: slices.Clone(v.Edits)})

			continue
		}

		for _, e := range v.Edits {
			if !slices.ContainsFunc(out[i].Edits, e.Overlaps) {
				out[i].Edits = append(out[i].Edits, e)
			}
		}
	}

	return out
}
