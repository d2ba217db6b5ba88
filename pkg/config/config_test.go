package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfang/pkg/config"
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".tsfang.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `extends: standard
workers: 4
max_fix_passes: 3
format: json
exclude:
  - "generated/**"
rules:
  no-return-readonly-array:
    severity: warn
    options: [include-type-arguments]
  ternary-format:
    enabled: false
`))
	require.NoError(t, err)

	assert.Equal(t, config.RuleSetStandard, cfg.Extends)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxFixPasses)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, []string{"generated/**"}, cfg.Exclude)

	rcs, err := cfg.RuleConfigs()
	require.NoError(t, err)

	readonly := rcs["no-return-readonly-array"]
	assert.True(t, readonly.Enabled)
	assert.Equal(t, lint.SeverityWarning, readonly.Severity)
	assert.Equal(t, []any{"include-type-arguments"}, readonly.Options)
	assert.False(t, rcs["ternary-format"].Enabled)
}

func TestLoadConfig_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown key":      "colour: red\n",
		"bad format":       "format: xml\n",
		"negative workers": "workers: -1\n",
		"bad severity":     "rules:\n  ternary-format:\n    severity: loud\n",
		"unknown extends":  "extends: strict\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, content))
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRuleSet(t *testing.T) {
	t.Parallel()

	reg := rules.NewRegistry()

	for _, name := range config.RuleSetNames() {
		set, err := config.RuleSet(name)
		require.NoError(t, err)

		_, err = lint.Configure(reg, set)
		require.NoError(t, err, name)
	}

	recommended, err := config.RuleSet(config.RuleSetRecommended)
	require.NoError(t, err)
	assert.Len(t, recommended, 2)

	none, err := config.RuleSet(config.RuleSetNone)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = config.RuleSet("strict")
	require.ErrorIs(t, err, config.ErrUnknownRuleSet)

	_, err = config.RuleSet("standrad")
	require.ErrorIs(t, err, config.ErrUnknownRuleSet)
	assert.Contains(t, err.Error(), "did you mean standard?")
}

func TestRuleConfigs_SeverityOffDisables(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Rules = map[string]config.RuleSettings{"ternary-format": {Severity: "off"}}

	rcs, err := cfg.RuleConfigs()
	require.NoError(t, err)
	assert.False(t, rcs["ternary-format"].Enabled)
	assert.True(t, rcs["no-return-readonly-array"].Enabled)

	cfg.Rules = map[string]config.RuleSettings{"ternary-format": {Severity: "loud"}}
	_, err = cfg.RuleConfigs()
	require.ErrorIs(t, err, lint.ErrInvalidSeverity)
}
