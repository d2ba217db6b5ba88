package discover_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfang/pkg/discover"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func relPaths(t *testing.T, root string, files []discover.File) []string {
	t.Helper()

	out := make([]string, 0, len(files))

	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)

		out = append(out, filepath.ToSlash(rel))
	}

	return out
}

func TestDiscover_WalksAndFilters(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/a.ts":                  "export const a = 1;\n",
		"src/view.tsx":              "export const v = <div />;\n",
		"src/readme.md":             "# hi\n",
		"src/gen/out.ts":            "export {};\n",
		"node_modules/lib/index.ts": "export {};\n",
		".git/hooks/x.ts":           "export {};\n",
		"src/legacy/old.ts":         "export {};\n",
		".gitignore":                "src/legacy/\n",
	})

	files, err := discover.Discover(context.Background(), []string{root}, discover.Options{
		Exclude:          []string{"src/gen/"},
		RespectGitignore: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.ts", "src/view.tsx"}, relPaths(t, root, files))
	assert.Equal(t, syntax.TypeScript, files[0].Language)
	assert.Equal(t, syntax.TSX, files[1].Language)
}

func TestDiscover_FileRootAndDedup(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.ts": "let a;\n"})
	file := filepath.Join(root, "a.ts")

	files, err := discover.Discover(context.Background(), []string{file, root}, discover.Options{})
	require.NoError(t, err)
	require.Len(t, files, 1)

	_, err = discover.Discover(context.Background(), []string{filepath.Join(root, "missing")}, discover.Options{})
	require.Error(t, err)

	_, err = discover.Discover(context.Background(), []string{" "}, discover.Options{})
	require.ErrorIs(t, err, discover.ErrEmptyPath)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.ts": "let a = 1;\n", "bin.ts": "let\x00a;\n"})

	_, err := discover.ReadFile(filepath.Join(root, "bin.ts"), 0)
	require.ErrorIs(t, err, discover.ErrBinaryFile)

	content, err := discover.ReadFile(filepath.Join(root, "a.ts"), 0)
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;\n", string(content))

	_, err = discover.ReadFile(filepath.Join(root, "a.ts"), 3)
	require.ErrorIs(t, err, discover.ErrFileTooLarge)

	_, err = discover.ReadFile(root, 0)
	require.ErrorIs(t, err, discover.ErrDirectoryPath)

	_, err = discover.ReadFile("a\x00b", 0)
	require.ErrorIs(t, err, discover.ErrPathContainsNUL)

	_, err = discover.ReadFile("", 0)
	require.ErrorIs(t, err, discover.ErrEmptyPath)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.ts": "old\n"})
	path := filepath.Join(root, "a.ts")

	require.NoError(t, discover.WriteFile(path, []byte("new\n")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(content))
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	lang, err := discover.DetectLanguage("a.ts", []byte("export const a: number = 1;\n"))
	require.NoError(t, err)
	assert.Equal(t, syntax.TypeScript, lang)

	lang, err = discover.DetectLanguage("a.tsx", nil)
	require.NoError(t, err)
	assert.Equal(t, syntax.TSX, lang)

	_, err = discover.DetectLanguage("a.go", nil)
	require.ErrorIs(t, err, discover.ErrNotTypeScript)
}
