package codestyle_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maxInterfaceMethods is the maximum number of methods an interface should have.
const maxInterfaceMethods = 5

// bannedFilenames maps grab-bag file names to the reason they are banned.
var bannedFilenames = map[string]string{
	"types.go":     "types belong next to the code that uses them",
	"utils.go":     "each function belongs in the file that owns its domain",
	"helpers.go":   "each function belongs in the file that owns its domain",
	"common.go":    "if everything is common, nothing is",
	"constants.go": "constants belong next to the code that uses them",
	"errors.go":    "sentinel errors belong next to the functions returning them",
}

// bannedPackages are package names without a clear responsibility.
var bannedPackages = map[string]bool{
	"util": true, "utils": true, "misc": true, "shared": true, "base": true, "generic": true,
}

// projectRoot returns the repository root by walking up to go.mod.
func projectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "no go.mod above the working directory")

		dir = parent
	}
}

// skipDir reports directories the go tool ignores or that hold foreign code.
func skipDir(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return true
	}

	switch name {
	case "vendor", "testdata", "node_modules":
		return true
	default:
		return false
	}
}

// walkGoFiles calls fn for every non-test Go source file under root.
func walkGoFiles(t *testing.T, root string, fn func(rel string, f *ast.File)) {
	t.Helper()

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		parsed, parseErr := parser.ParseFile(token.NewFileSet(), path, nil, parser.SkipObjectResolution)
		if parseErr != nil {
			return fmt.Errorf("parsing Go file %s: %w", path, parseErr)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, relErr)
		}

		fn(filepath.ToSlash(rel), parsed)

		return nil
	})
	require.NoError(t, err)
}

// typeSpecs calls fn for every top-level type declaration of f.
func typeSpecs(f *ast.File, fn func(*ast.TypeSpec)) {
	for _, decl := range f.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			if typeSpec, isTypeSpec := spec.(*ast.TypeSpec); isTypeSpec {
				fn(typeSpec)
			}
		}
	}
}

// stutters reports whether an exported identifier repeats the package name
// as a CamelCase prefix, returning the name without it:
//
//	report.ReportFormat → ("Format", true)
//	lint.Linter         → ("", false)
//	config.Config       → ("", false)
func stutters(pkgName, exportedName string) (string, bool) {
	titled := strings.ToUpper(pkgName[:1]) + pkgName[1:]

	rest, found := strings.CutPrefix(exportedName, titled)
	if !found || rest == "" {
		return "", false
	}

	first := rune(rest[0])
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		return "", false
	}

	return rest, true
}

func TestStutters(t *testing.T) {
	t.Parallel()

	rest, ok := stutters("report", "ReportFormat")
	assert.True(t, ok)
	assert.Equal(t, "Format", rest)

	_, ok = stutters("lint", "Linter")
	assert.False(t, ok)

	_, ok = stutters("config", "Config")
	assert.False(t, ok)
}

func TestNoBannedFilenames(t *testing.T) {
	t.Parallel()

	var violations []string

	walkGoFiles(t, projectRoot(t), func(rel string, _ *ast.File) {
		if reason, banned := bannedFilenames[filepath.Base(rel)]; banned {
			violations = append(violations, rel+": "+reason)
		}
	})

	assert.Empty(t, violations)
}

func TestNoGrabBagPackages(t *testing.T) {
	t.Parallel()

	var violations []string

	walkGoFiles(t, projectRoot(t), func(rel string, f *ast.File) {
		if bannedPackages[f.Name.Name] {
			violations = append(violations, rel+": package "+f.Name.Name)
		}
	})

	assert.Empty(t, violations)
}

func TestNoFatInterfaces(t *testing.T) {
	t.Parallel()

	var violations []string

	walkGoFiles(t, projectRoot(t), func(rel string, f *ast.File) {
		typeSpecs(f, func(spec *ast.TypeSpec) {
			iface, ok := spec.Type.(*ast.InterfaceType)
			if !ok {
				return
			}

			methods := 0

			for _, m := range iface.Methods.List {
				if _, isFunc := m.Type.(*ast.FuncType); isFunc {
					methods++
				}
			}

			if methods > maxInterfaceMethods {
				violations = append(violations, fmt.Sprintf("%s: %s has %d methods", rel, spec.Name.Name, methods))
			}
		})
	})

	assert.Empty(t, violations)
}

func TestNoStutteringExports(t *testing.T) {
	t.Parallel()

	var violations []string

	walkGoFiles(t, projectRoot(t), func(rel string, f *ast.File) {
		pkgName := strings.ToLower(f.Name.Name)

		typeSpecs(f, func(spec *ast.TypeSpec) {
			name := spec.Name.Name
			if !ast.IsExported(name) {
				return
			}

			if trimmed, isStutter := stutters(pkgName, name); isStutter {
				violations = append(violations, fmt.Sprintf("%s: %s.%s should be %s.%s",
					rel, f.Name.Name, name, f.Name.Name, trimmed))
			}
		})
	})

	assert.Empty(t, violations)
}
