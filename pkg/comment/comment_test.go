package comment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfang/pkg/comment"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

func ternary(t *testing.T, src string) (*syntax.File, *syntax.Node) {
	t.Helper()

	f, err := syntax.ParseString(context.Background(), syntax.TypeScript, src)
	require.NoError(t, err)

	var tern *syntax.Node

	f.Root.Walk(func(n *syntax.Node) bool {
		if tern == nil && n.Kind == syntax.KindTernary {
			tern = n
		}

		return tern == nil
	})
	require.NotNil(t, tern)

	return f, tern
}

func TestLeading_HuggingComment(t *testing.T) {
	t.Parallel()

	f, tern := ternary(t, "const x =\n  a\n  // pick b\n  ? b\n  : c;\n")
	q := tern.ChildOfKind(syntax.KindQuestionToken)

	info := comment.Leading(f, q)
	require.True(t, info.Present())
	assert.Equal(t, "// pick b", info.Text)
	assert.Equal(t, 0, info.LineCount)
	assert.False(t, info.HasTrailingBlankLine)
	assert.True(t, info.HasLineComment)
	assert.True(t, info.SingleLine())
}

func TestLeading_BlankLineAfterBlock(t *testing.T) {
	t.Parallel()

	f, tern := ternary(t, "const x =\n  a\n  /* one\n     two */\n\n  ? b\n  : c;\n")
	q := tern.ChildOfKind(syntax.KindQuestionToken)

	info := comment.Leading(f, q)
	assert.Equal(t, "/* one\n     two */", info.Text)
	assert.True(t, info.HasTrailingBlankLine)
	assert.Equal(t, 2, info.LineCount, "one newline inside plus the blank line")
	assert.False(t, info.HasLineComment)
}

func TestLeading_ExcludesPreviousTrailing(t *testing.T) {
	t.Parallel()

	f, tern := ternary(t, "const x =\n  a // about a\n  ? b\n  : c;\n")
	q := tern.ChildOfKind(syntax.KindQuestionToken)

	assert.False(t, comment.Leading(f, q).Present())

	trailing := comment.Trailing(f, tern.Field(syntax.FieldCondition))
	assert.Equal(t, "// about a", trailing.Text)
}

func TestLeading_MultipleComments(t *testing.T) {
	t.Parallel()

	f, tern := ternary(t, "const x =\n  a\n  // one\n  // two\n  ? b\n  : c;\n")
	q := tern.ChildOfKind(syntax.KindQuestionToken)

	info := comment.Leading(f, q)
	assert.Equal(t, "// one\n  // two", info.Text)
	assert.Equal(t, 1, info.LineCount)
}

func TestTrailing(t *testing.T) {
	t.Parallel()

	f, tern := ternary(t, "const x = a /* x */ /* y */ ? b : c;\n")
	info := comment.Trailing(f, tern.Field(syntax.FieldCondition))

	assert.Equal(t, "/* x */ /* y */", info.Text)
	assert.Equal(t, 0, info.LineCount)
	assert.False(t, info.HasLineComment)
}

func TestTrailing_StopsAtNextLine(t *testing.T) {
	t.Parallel()

	f, tern := ternary(t, "const x =\n  a\n  // below\n  ? b\n  : c;\n")

	assert.False(t, comment.Trailing(f, tern.Field(syntax.FieldCondition)).Present())
}

func TestInfo_ZeroValueAbsent(t *testing.T) {
	t.Parallel()

	var info comment.Info
	assert.False(t, info.Present())
}
