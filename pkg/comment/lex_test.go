package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLex(t *testing.T) {
	t.Parallel()

	spans, ok := lex("\n  /* one */\r\n  // two\r\n\n  ", 10)
	assert.True(t, ok)
	assert.Equal(t, []span{
		{start: 13, end: 22},
		{start: 26, end: 32, line: true},
	}, spans)

	spans, ok = lex(" \t\n", 0)
	assert.True(t, ok)
	assert.Empty(t, spans)

	_, ok = lex(" x // not a gap", 0)
	assert.False(t, ok)

	_, ok = lex(" /* open", 0)
	assert.False(t, ok)
}
