package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfang/cmd/tsfang/commands"
	"github.com/Sumatoshi-tech/tsfang/pkg/config"
	"github.com/Sumatoshi-tech/tsfang/pkg/report"
)

const (
	readonlySource = "function f(): ReadonlyArray<number> {\n  return [];\n}\n"
	ternarySource  = "const x = a ? b : c;\n"
	ternaryFixed   = "const x =\n  a\n    ? b\n    : c;\n"
)

// project writes files and a config into a temporary directory.
func project(t *testing.T, cfg string, files map[string]string) (string, string) {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	cfgPath := filepath.Join(t.TempDir(), "tsfang.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	return dir, cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	globals := &commands.Globals{}
	root := &cobra.Command{Use: "tsfang", SilenceUsage: true, SilenceErrors: true}
	globals.Register(root)
	root.AddCommand(
		commands.NewLintCommand(globals),
		commands.NewFixCommand(globals),
		commands.NewRulesCommand(),
		commands.NewLSPCommand(globals),
		commands.NewMCPCommand(globals),
	)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestLint_ReportsErrors(t *testing.T) {
	t.Parallel()

	dir, cfg := project(t, "extends: recommended\n", map[string]string{"a.ts": readonlySource, "b.ts": "const ok = 1;\n"})

	out, err := execute(t, "lint", "--config", cfg, "--format", "json", dir)
	require.ErrorIs(t, err, commands.ErrProblemsFound)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.Summary.Files)
	assert.Equal(t, 1, doc.Summary.Errors)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "no-return-readonly-array", doc.Files[0].Diagnostics[0].Rule)
}

func TestLint_WarningsDoNotFail(t *testing.T) {
	t.Parallel()

	dir, cfg := project(t, "extends: standard\n", map[string]string{"a.ts": ternarySource})

	out, err := execute(t, "lint", "--config", cfg, "--no-color", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "a.ts:1:11: warning")
	assert.Contains(t, out, "[ternary-format]")
}

func TestLint_ConfigDisablesRule(t *testing.T) {
	t.Parallel()

	cfgText := "extends: recommended\nrules:\n  no-return-readonly-array:\n    severity: \"off\"\n"
	dir, cfg := project(t, cfgText, map[string]string{"a.ts": readonlySource})

	out, err := execute(t, "lint", "--config", cfg, "--format", "json", dir)
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Zero(t, doc.Summary.Problems())
}

func TestLint_UnknownFormat(t *testing.T) {
	t.Parallel()

	dir, cfg := project(t, "", map[string]string{"a.ts": ternarySource})

	_, err := execute(t, "lint", "--config", cfg, "--format", "xml", dir)
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestLint_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir, cfg := project(t, "extends: strict\n", nil)

	_, err := execute(t, "lint", "--config", cfg, dir)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestFix_WritesFiles(t *testing.T) {
	t.Parallel()

	dir, cfg := project(t, "extends: standard\n", map[string]string{"a.ts": ternarySource})

	_, err := execute(t, "fix", "--config", cfg, "--no-color", dir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, ternaryFixed, string(got))
}

func TestFix_DryRunShowsDiff(t *testing.T) {
	t.Parallel()

	dir, cfg := project(t, "extends: standard\n", map[string]string{"a.ts": ternarySource})

	out, err := execute(t, "fix", "--config", cfg, "--no-color", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "-const x = a ? b : c;")
	assert.Contains(t, out, "+    ? b")

	got, err := os.ReadFile(filepath.Join(dir, "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, ternarySource, string(got))
}

func TestRules_ListsCatalogue(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "no-return-readonly-array")
	assert.Contains(t, out, "ternary-format")
	assert.Contains(t, out, "allow-single-line")
}

func TestRules_ExportIsLoadable(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "rules", "--export", "standard")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "exported.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.RuleSetNone, cfg.Extends)

	got, err := cfg.RuleConfigs()
	require.NoError(t, err)

	want, err := config.RuleSet(config.RuleSetStandard)
	require.NoError(t, err)

	require.Len(t, got, len(want))

	for name := range want {
		assert.True(t, got[name].Enabled, name)
	}
}

func TestRules_ExportUnknownSet(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "rules", "--export", "strict")
	require.ErrorIs(t, err, config.ErrUnknownRuleSet)
}

func TestServerCommands_Exist(t *testing.T) {
	t.Parallel()

	globals := &commands.Globals{}

	lspCmd := commands.NewLSPCommand(globals)
	assert.Equal(t, "lsp", lspCmd.Use)
	require.NotNil(t, lspCmd.Flags().Lookup("metrics-addr"))

	mcpCmd := commands.NewMCPCommand(globals)
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.NotEmpty(t, mcpCmd.Long)
}
