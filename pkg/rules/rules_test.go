package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfang/pkg/rules"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	reg := rules.NewRegistry()
	assert.Equal(t, []string{"no-return-readonly-array", "ternary-format"}, reg.Names())

	for _, r := range rules.All() {
		got, err := reg.Get(r.Meta().Name)
		require.NoError(t, err)
		assert.NotEmpty(t, got.Meta().Description)
	}
}
