package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	v1 "github.com/google/go-containerregistry/pkg/v1"

	"bakery.run/internal/baking/bakecontext"
	"bakery.run/internal/baking/bakemanifest"
	"bakery.run/internal/baking/basepull"
)

var (
	// ErrInvalidArgs is reported for invalid CLI argument combinations.
	ErrInvalidArgs = errors.New("arguments invalid")
	// ErrRequirementsMissing is reported when the requirements manifest
	// named by the build manifest is absent from the build context.
	ErrRequirementsMissing = errors.New("requirements manifest missing from build context")
	// ErrLockMissing is reported when building without a lock file.
	ErrLockMissing = errors.New("bakefile.lock.yaml missing, run lock first")
	// ErrLockOutOfDate is reported when the lock no longer matches the
	// manifest or requirements it was generated from.
	ErrLockOutOfDate = errors.New("bakefile.lock.yaml out of date, run lock again")
)

// SourceLoader loads a build context from disk.
type SourceLoader interface {
	LoadSource(ctx context.Context, path string) (*bakemanifest.Source, error)
}

// BasePuller fetches base images from a registry.
type BasePuller interface {
	Pull(ctx context.Context, ref string, opts ...basepull.PullOption) (v1.Image, error)
}

func NewDefaultSourceLoader() *DefaultSourceLoader {
	return &DefaultSourceLoader{}
}

type DefaultSourceLoader struct{}

// LoadSource reads the build context in two passes: the manifest alone
// first, to learn the ignore patterns, then the full context honoring
// them. Version-control metadata never gets read into memory this way.
func (l *DefaultSourceLoader) LoadSource(
	ctx context.Context, path string,
) (*bakemanifest.Source, error) {
	manifestFiles := bakecontext.Files{}
	for _, name := range bakemanifest.ManifestFileNames {
		data, err := os.ReadFile(filepath.Join(path, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		manifestFiles[name] = data
	}

	pre, err := bakemanifest.Load(ctx, manifestFiles)
	if err != nil {
		return nil, err
	}

	files, err := bakecontext.Folder(ctx, path,
		bakecontext.WithIgnore(pre.Manifest.EffectiveIgnore()))
	if err != nil {
		return nil, err
	}

	return bakemanifest.Load(ctx, files)
}

// requirementsHash fingerprints the requirements manifest, binding the
// lock file to the exact input it was resolved from.
func requirementsHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// requirementsData returns the requirements manifest contents out of a
// loaded source.
func requirementsData(src *bakemanifest.Source) ([]byte, error) {
	path := src.Manifest.Spec.Python.Requirements
	data, ok := src.Files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRequirementsMissing, path)
	}
	return data, nil
}
