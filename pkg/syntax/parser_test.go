package syntax_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()

	f, err := syntax.ParseString(context.Background(), syntax.TypeScript, src)
	require.NoError(t, err)

	return f
}

func find(f *syntax.File, kind string) *syntax.Node {
	var found *syntax.Node

	f.Root.Walk(func(n *syntax.Node) bool {
		if found == nil && n.Kind == kind {
			found = n
		}

		return found == nil
	})

	return found
}

func TestParse_TernaryFields(t *testing.T) {
	t.Parallel()

	f := parse(t, "const x = a ? b : c;\n")
	tern := find(f, syntax.KindTernary)
	require.NotNil(t, tern)

	assert.Equal(t, "a", f.NodeText(tern.Field(syntax.FieldCondition)))
	assert.Equal(t, "b", f.NodeText(tern.Field(syntax.FieldConsequence)))
	assert.Equal(t, "c", f.NodeText(tern.Field(syntax.FieldAlternative)))
	assert.NotNil(t, tern.ChildOfKind(syntax.KindQuestionToken))
	assert.NotNil(t, tern.ChildOfKind(syntax.KindColonToken))
	assert.False(t, f.HasErrors())
}

func TestParse_FunctionReturnType(t *testing.T) {
	t.Parallel()

	f := parse(t, "function f(): ReadonlyArray<number> { return []; }\n")
	fn := find(f, syntax.KindFunctionDeclaration)
	require.NotNil(t, fn)
	assert.True(t, syntax.IsFunctionLike(fn.Kind))

	rt := fn.Field(syntax.FieldReturnType)
	require.NotNil(t, rt)
	assert.Equal(t, syntax.KindTypeAnnotation, rt.Kind)

	typ := rt.FirstNamedChild()
	require.NotNil(t, typ)
	assert.Equal(t, syntax.KindGenericType, typ.Kind)
	assert.Equal(t, "ReadonlyArray", f.NodeText(typ.Field(syntax.FieldName)))
}

func TestFile_TokensAndComments(t *testing.T) {
	t.Parallel()

	src := "let y = 1; // one\n/* two */ y = 2;\n"
	f := parse(t, src)

	comments := f.Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, "// one", f.NodeText(comments[0]))
	assert.Equal(t, "/* two */", f.NodeText(comments[1]))

	prev := f.PrevToken(comments[1].End)
	require.NotNil(t, prev)
	assert.Equal(t, ";", f.NodeText(prev), "comments are not tokens")

	next := f.NextToken(comments[1].End)
	require.NotNil(t, next)
	assert.Equal(t, "y", f.NodeText(next))

	between := f.CommentsBetween(0, len(src))
	assert.Len(t, between, 2)
	assert.Empty(t, f.CommentsBetween(0, comments[0].Start))
}

func TestParse_TSX(t *testing.T) {
	t.Parallel()

	f, err := syntax.ParseString(context.Background(), syntax.TSX, "const e = ok ? <A /> : <B />;\n")
	require.NoError(t, err)
	assert.NotNil(t, find(f, syntax.KindTernary))
	assert.False(t, f.HasErrors())
}

func TestParse_RecoversFromErrors(t *testing.T) {
	t.Parallel()

	f := parse(t, "let x = 1;\n}}}\n")
	assert.True(t, f.HasErrors())
}

func TestLanguageForPath(t *testing.T) {
	t.Parallel()

	lang, ok := syntax.LanguageForPath("src/a.ts")
	assert.True(t, ok)
	assert.Equal(t, syntax.TypeScript, lang)

	lang, ok = syntax.LanguageForPath("App.TSX")
	assert.True(t, ok)
	assert.Equal(t, syntax.TSX, lang)

	_, ok = syntax.LanguageForPath("main.go")
	assert.False(t, ok)

	_, err := syntax.ParseLanguage("cobol")
	require.ErrorIs(t, err, syntax.ErrUnsupportedLanguage)
}

func TestNode_Siblings(t *testing.T) {
	t.Parallel()

	f := parse(t, "const x = a ? b : c;\n")
	tern := find(f, syntax.KindTernary)
	q := tern.ChildOfKind(syntax.KindQuestionToken)

	assert.Equal(t, tern.Field(syntax.FieldCondition), q.PrevSibling())
	assert.Equal(t, tern.Field(syntax.FieldConsequence), q.NextSibling())
	assert.True(t, tern.Parent.Is("variable_declarator"))
}
