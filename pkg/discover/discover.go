// Package discover finds the TypeScript sources to lint under a set of paths
// and reads them safely.
package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// DefaultMaxFileSize is the largest file read by default.
const DefaultMaxFileSize = 4 << 20

// Path errors.
var (
	ErrEmptyPath       = errors.New("path is empty")
	ErrPathContainsNUL = errors.New("path contains NUL byte")
	ErrDirectoryPath   = errors.New("path points to a directory")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNotTypeScript   = errors.New("not a TypeScript source")
	ErrBinaryFile      = errors.New("binary file")
)

// binarySniffLength is the prefix scanned for NUL bytes, as Git does.
const binarySniffLength = 8000

// Options controls discovery.
type Options struct {
	// Exclude holds gitignore-style patterns matched against paths relative to each root.
	Exclude []string
	// RespectGitignore also applies the .gitignore found at each root.
	RespectGitignore bool
	// IncludeVendored keeps files enry classifies as vendored (node_modules, dist, ...).
	IncludeVendored bool
}

// File is a discovered source.
type File struct {
	Path     string
	Language syntax.Language
}

// Discover expands roots into the TypeScript files beneath them, sorted and
// de-duplicated. A root naming a file is returned when it has a TypeScript
// extension, regardless of exclusions.
func Discover(ctx context.Context, roots []string, opts Options) ([]File, error) {
	seen := make(map[string]bool)

	var out []File

	for _, root := range roots {
		found, err := discoverRoot(ctx, root, opts)
		if err != nil {
			return nil, err
		}

		for _, f := range found {
			if !seen[f.Path] {
				seen[f.Path] = true
				out = append(out, f)
			}
		}
	}

	slices.SortFunc(out, func(a, b File) int { return strings.Compare(a.Path, b.Path) })

	return out, nil
}

func discoverRoot(ctx context.Context, root string, opts Options) ([]File, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		lang, ok := syntax.LanguageForPath(root)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotTypeScript, root)
		}

		return []File{{Path: filepath.Clean(root), Language: lang}}, nil
	}

	matcher := compileExcludes(root, opts)

	var out []File

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		skip, skipErr := shouldSkip(root, path, entry, walkErr, matcher, opts)
		if skip || skipErr != nil {
			return skipErr
		}

		lang, ok := syntax.LanguageForPath(path)
		if ok {
			out = append(out, File{Path: path, Language: lang})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return out, nil
}

func compileExcludes(root string, opts Options) *gitignore.GitIgnore {
	lines := slices.Clone(opts.Exclude)

	if opts.RespectGitignore {
		//nolint:gosec // the .gitignore path is built from the user supplied root.
		data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
		if err == nil {
			lines = append(lines, strings.Split(string(data), "\n")...)
		}
	}

	if len(lines) == 0 {
		return nil
	}

	return gitignore.CompileIgnoreLines(lines...)
}

// shouldSkip decides whether a walk entry is skipped. Unreadable entries are
// skipped silently; other walk errors abort.
func shouldSkip(
	root, path string, entry fs.DirEntry, walkErr error, matcher *gitignore.GitIgnore, opts Options,
) (bool, error) {
	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrPermission) || errors.Is(walkErr, fs.ErrNotExist) {
			if entry != nil && entry.IsDir() {
				return true, filepath.SkipDir
			}

			return true, nil
		}

		return false, walkErr
	}

	if entry == nil {
		return true, nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return entry.IsDir(), nil
	}

	rel = filepath.ToSlash(rel)
	excluded := matcher != nil && matcher.MatchesPath(rel)

	if entry.IsDir() {
		if entry.Name() == ".git" || excluded || (!opts.IncludeVendored && enry.IsVendor(rel+"/")) {
			return true, filepath.SkipDir
		}

		return true, nil
	}

	return excluded, nil
}

// ReadFile reads a source after validating its path and size. A maxSize of
// zero applies DefaultMaxFileSize.
func ReadFile(path string, maxSize int64) ([]byte, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", resolved, err)
	}

	if info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), maxSize)
	}

	//nolint:gosec // resolved is cleaned, absolute and checked to be a regular file.
	content, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resolved, err)
	}

	if isBinary(content) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}

	return content, nil
}

func isBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLength {
		sniff = sniff[:binarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// WriteFile replaces the content of an existing file, keeping its mode.
func WriteFile(path string, content []byte) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("stat %s: %w", resolved, err)
	}

	err = os.WriteFile(resolved, content, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("write %s: %w", resolved, err)
	}

	return nil
}

// ResolvePath cleans a user supplied path and checks it names an existing
// regular file.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("%w: %q", ErrPathContainsNUL, path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", absPath, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirectoryPath, absPath)
	}

	return absPath, nil
}

// DetectLanguage confirms the grammar for a file from its extension and
// content. Qt Linguist translation files share the .ts extension and are
// rejected.
func DetectLanguage(path string, content []byte) (syntax.Language, error) {
	lang, ok := syntax.LanguageForPath(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotTypeScript, path)
	}

	if lang == syntax.TSX {
		return lang, nil
	}

	switch enry.GetLanguage(filepath.Base(path), content) {
	case "", "TypeScript", "TSX":
		return lang, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNotTypeScript, path)
	}
}
