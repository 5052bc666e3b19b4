package bakemanifest

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"sigs.k8s.io/yaml"

	manifests "bakery.run/apis/manifests/v1alpha1"
	"bakery.run/internal/baking/bakecontext"
)

// ManifestFileNames are recognized as the build manifest, in order.
var ManifestFileNames = []string{"bakefile.yaml", "bakefile.yml"}

// LockFileName is the pinned companion of the build manifest.
const LockFileName = "bakefile.lock.yaml"

// Source is a loaded build context: the parsed manifest, the optional
// lock file and every remaining context file.
type Source struct {
	Manifest *manifests.BuildManifest
	Lock     *manifests.BuildManifestLock
	Files    bakecontext.Files
}

// Load parses, defaults and validates the build manifest found in the
// given context files. The manifest and lock files are removed from the
// returned file set, they never end up inside the image.
func Load(ctx context.Context, files bakecontext.Files) (*Source, error) {
	log := logr.FromContextOrDiscard(ctx).V(1)

	manifestPath, err := findManifest(files)
	if err != nil {
		return nil, err
	}
	log.Info("parsing build manifest", "path", manifestPath)

	manifest := &manifests.BuildManifest{}
	if err := yaml.UnmarshalStrict(files[manifestPath], manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}
	if err := checkTypeMeta(manifest.TypeMeta, manifests.BuildManifestKind); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}
	manifest.Default()
	if err := Validate(manifest); err != nil {
		return nil, err
	}

	src := &Source{
		Manifest: manifest,
		Files:    files.DeepCopy(),
	}
	delete(src.Files, manifestPath)

	if lockData, ok := files[LockFileName]; ok {
		log.Info("parsing build manifest lock", "path", LockFileName)
		lock := &manifests.BuildManifestLock{}
		if err := yaml.UnmarshalStrict(lockData, lock); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", LockFileName, err)
		}
		if err := checkTypeMeta(lock.TypeMeta, manifests.BuildManifestLockKind); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", LockFileName, err)
		}
		src.Lock = lock
		delete(src.Files, LockFileName)
	}

	return src, nil
}

func findManifest(files bakecontext.Files) (string, error) {
	var found []string
	for _, name := range ManifestFileNames {
		if _, ok := files[name]; ok {
			found = append(found, name)
		}
	}
	switch len(found) {
	case 0:
		return "", ErrManifestNotFound
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %v", ErrDuplicateManifest, found)
	}
}

func checkTypeMeta(tm manifests.TypeMeta, kind string) error {
	if tm.Kind != kind {
		return fmt.Errorf("unexpected kind %q, want %q", tm.Kind, kind)
	}
	if tm.APIVersion != manifests.GroupVersion {
		return fmt.Errorf("unexpected apiVersion %q, want %q",
			tm.APIVersion, manifests.GroupVersion)
	}
	return nil
}
