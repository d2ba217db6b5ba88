package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tsfang/pkg/position"
)

func TestLineMap_PositionOf(t *testing.T) {
	t.Parallel()

	m := position.NewLineMap("ab\n  cd\n\nef")

	tests := []struct {
		name   string
		offset int
		want   position.Position
	}{
		{"start", 0, position.Position{Line: 0, Character: 0}},
		{"newline belongs to its line", 2, position.Position{Line: 0, Character: 2}},
		{"second line", 5, position.Position{Line: 1, Character: 2}},
		{"empty line", 8, position.Position{Line: 2, Character: 0}},
		{"last line", 10, position.Position{Line: 3, Character: 1}},
		{"end of text", 11, position.Position{Line: 3, Character: 2}},
		{"clamped high", 100, position.Position{Line: 3, Character: 2}},
		{"clamped low", -4, position.Position{Line: 0, Character: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, m.PositionOf(tt.offset))
		})
	}
}

func TestLineMap_OffsetRoundTrip(t *testing.T) {
	t.Parallel()

	text := "const x =\n  a\n    ? b\n    : c;\n"
	m := position.NewLineMap(text)

	prev := position.Position{}

	for offset := range len(text) + 1 {
		pos := m.PositionOf(offset)
		assert.Equal(t, offset, m.OffsetOf(pos))
		assert.False(t, pos.Before(prev), "positions must not decrease")

		prev = pos
	}
}

func TestLineMap_OffsetOfClamps(t *testing.T) {
	t.Parallel()

	m := position.NewLineMap("ab\ncd")

	assert.Equal(t, 2, m.OffsetOf(position.Position{Line: 0, Character: 10}))
	assert.Equal(t, 5, m.OffsetOf(position.Position{Line: 7, Character: 0}))
	assert.Equal(t, 0, m.OffsetOf(position.Position{Line: -1, Character: 3}))
}

func TestLineMap_IndentationOfLine(t *testing.T) {
	t.Parallel()

	m := position.NewLineMap("x\n    y\n\t z\n   \r\n")

	assert.Equal(t, 0, m.IndentationOfLine(0))
	assert.Equal(t, 4, m.IndentationOfLine(1))
	assert.Equal(t, 2, m.IndentationOfLine(2))
	assert.Equal(t, 3, m.IndentationOfLine(3), "blank line counts its whole content")
	assert.Equal(t, 0, m.IndentationOfLine(4))
	assert.Equal(t, 0, m.IndentationOfLine(99))
	assert.Equal(t, 0, m.IndentationOfLine(-1))
}

func TestLineMap_LineText(t *testing.T) {
	t.Parallel()

	m := position.NewLineMap("one\r\ntwo\nthree")

	assert.Equal(t, "one", m.LineText(0))
	assert.Equal(t, "two", m.LineText(1))
	assert.Equal(t, "three", m.LineText(2))
	assert.Empty(t, m.LineText(3))
	assert.Equal(t, 3, m.LineCount())
	assert.Equal(t, 5, m.LineStart(1))
	assert.Equal(t, -1, m.LineStart(3))
}

func TestLineMap_UTF16(t *testing.T) {
	t.Parallel()

	m := position.NewLineMap("é = \"😀\" ? a : b")

	pos := m.PositionOf(len("é = \"😀\" "))
	assert.Equal(t, 12, pos.Character)
	assert.Equal(t, 9, m.UTF16Character(pos))
	assert.Equal(t, pos, m.FromUTF16(0, 9))
}

func TestSpan(t *testing.T) {
	t.Parallel()

	a := position.Position{Line: 1, Character: 4}
	b := position.Position{Line: 0, Character: 9}

	span := position.NewSpan(a, b)
	assert.Equal(t, b, span.Start)
	assert.Equal(t, a, span.End)
	assert.False(t, span.SingleLine())
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, a.Compare(b))
}
