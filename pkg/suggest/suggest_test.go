package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tsfang/pkg/suggest"
)

func TestMatcher_Distance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "a", 1},
		{"a", "", 1},
		{"a", "a", 0},
		{"ab", "aaa", 2},
		{"kitten", "sitting", 3},
		{"sitting", "kitten", 3},
		{"Fön", "Föm", 1},
		{"abc", "def", 3},
	}

	var m suggest.Matcher

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Distance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	names := []string{"no-return-readonly-array", "ternary-format"}

	got, ok := suggest.Closest("ternary-fromat", names)
	assert.True(t, ok)
	assert.Equal(t, "ternary-format", got)

	_, ok = suggest.Closest("semicolon", names)
	assert.False(t, ok)
}

func TestHint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " (did you mean standard?)", suggest.Hint("standrad", []string{"recommended", "standard"}))
	assert.Empty(t, suggest.Hint("standard", []string{"standard"}))
	assert.Empty(t, suggest.Hint("zzz", nil))
}
