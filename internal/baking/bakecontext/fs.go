package bakecontext

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/gobwas/glob"
)

// FS reads a build context from the given filesystem into memory,
// excluding everything matched by the configured ignore patterns.
func FS(ctx context.Context, src fs.FS, opts ...Option) (Files, error) {
	var cfg FSConfig
	cfg.Option(opts...)

	ignore, err := compilePatterns(cfg.Ignore)
	if err != nil {
		return nil, err
	}

	verboseLog := logr.FromContextOrDiscard(ctx).V(1)
	files := Files{}
	walker := func(path string, entry fs.DirEntry, ioErr error) error {
		switch {
		case ioErr != nil:
			return fmt.Errorf("access file %s: %w", path, ioErr)

		case entry.Name() == ".":
			// continue at root

		case ignore.Matches(path):
			verboseLog.Info("skipping file in build context", "path", path)
			if entry.IsDir() {
				return filepath.SkipDir
			}

		case entry.IsDir():
			// no special handling for directories

		default:
			verboseLog.Info("adding context file", "path", path)
			data, err := fs.ReadFile(src, path)
			if err != nil {
				return fmt.Errorf("read file %s: %w", path, err)
			}
			files[path] = data
		}

		return nil
	}

	if err := fs.WalkDir(src, ".", walker); err != nil {
		return nil, fmt.Errorf("walk build context: %w", err)
	}

	return files, nil
}

// Folder reads the build context rooted at path from the local disk.
func Folder(ctx context.Context, path string, opts ...Option) (Files, error) {
	return FS(ctx, os.DirFS(path), opts...)
}

type patternSet []glob.Glob

func compilePatterns(patterns []string) (patternSet, error) {
	set := make(patternSet, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", p, err)
		}
		set = append(set, g)
	}
	return set, nil
}

// Matches reports whether the path or its base name hits any pattern.
func (s patternSet) Matches(path string) bool {
	base := filepath.Base(path)
	for _, g := range s {
		if g.Match(path) || g.Match(base) {
			return true
		}
	}
	return false
}
