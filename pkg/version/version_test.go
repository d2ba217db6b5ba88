package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tsfang/pkg/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	assert.Contains(t, version.String(), "tsfang "+version.Version)
	assert.Contains(t, version.String(), "commit: "+version.Commit)
}
