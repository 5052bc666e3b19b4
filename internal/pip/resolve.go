package pip

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-logr/logr"

	manifests "bakery.run/apis/manifests/v1alpha1"
)

var (
	// ErrNoMatchingVersion is reported when no release satisfies the
	// requirement's specifier set.
	ErrNoMatchingVersion = errors.New("no release satisfies requirement")
	// ErrNoCompatibleWheel is reported when the selected releases carry
	// no wheel usable on the target platform.
	ErrNoCompatibleWheel = errors.New("no compatible wheel for target platform")
)

// Index is the release metadata source consumed by the Resolver.
type Index interface {
	Project(ctx context.Context, name string) (*Project, error)
}

// NewResolver returns a Resolver pinning requirements against the
// given index for the given python "major.minor" version.
func NewResolver(index Index, pythonVersion string) *Resolver {
	return &Resolver{
		index:         index,
		pythonVersion: pythonVersion,
	}
}

type Resolver struct {
	index         Index
	pythonVersion string
}

// Resolve pins every requirement to the highest satisfying release that
// ships a compatible wheel. Requirements are resolved independently;
// transitive dependencies must be listed explicitly.
func (r *Resolver) Resolve(
	ctx context.Context, reqs []Requirement,
) ([]manifests.LockedDistribution, error) {
	log := logr.FromContextOrDiscard(ctx).V(1)

	dists := make([]manifests.LockedDistribution, 0, len(reqs))
	for _, req := range reqs {
		dist, err := r.resolveOne(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", req, err)
		}
		log.Info("pinned requirement",
			"requirement", req.String(), "version", dist.Version, "wheel", dist.Filename)
		dists = append(dists, dist)
	}

	return dists, nil
}

func (r *Resolver) resolveOne(
	ctx context.Context, req Requirement,
) (manifests.LockedDistribution, error) {
	project, err := r.index.Project(ctx, req.Name)
	if err != nil {
		return manifests.LockedDistribution{}, err
	}

	allowPrereleases := allowsPrereleases(req.Specifiers)

	type candidate struct {
		version Version
		raw     string
	}
	candidates := make([]candidate, 0, len(project.Releases))
	for raw := range project.Releases {
		version, err := ParseVersion(raw)
		if err != nil {
			// Indexes carry historical garbage versions, skip them.
			continue
		}
		// Pre-releases only participate when a specifier asks for one.
		if version.Prerelease() && !allowPrereleases {
			continue
		}
		if !version.Satisfies(req.Specifiers) {
			continue
		}
		candidates = append(candidates, candidate{version: version, raw: raw})
	}
	if len(candidates) == 0 {
		return manifests.LockedDistribution{}, ErrNoMatchingVersion
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].version.Compare(candidates[j].version) > 0
	})

	for _, cand := range candidates {
		file, ok := r.selectWheel(project.Releases[cand.raw])
		if !ok {
			continue
		}
		return manifests.LockedDistribution{
			Name:     req.Name,
			Version:  cand.raw,
			Filename: file.Filename,
			URL:      file.URL,
			SHA256:   file.Digests["sha256"],
		}, nil
	}

	return manifests.LockedDistribution{}, ErrNoCompatibleWheel
}

// allowsPrereleases reports whether the specifier set explicitly names
// a pre-release version, opting the requirement into pre-releases.
func allowsPrereleases(specs []Specifier) bool {
	for _, spec := range specs {
		raw := strings.TrimSuffix(spec.Version, ".*")
		if v, err := ParseVersion(raw); err == nil && v.Prerelease() {
			return true
		}
	}
	return false
}

// selectWheel picks a wheel out of a release's files, preferring pure
// wheels over platform specific ones.
func (r *Resolver) selectWheel(files []ReleaseFile) (ReleaseFile, bool) {
	var (
		fallback ReleaseFile
		found    bool
	)
	for _, file := range files {
		if file.Yanked || file.PackageType != "bdist_wheel" {
			continue
		}
		tags, err := ParseWheelFilename(file.Filename)
		if err != nil || !tags.CompatibleWith(r.pythonVersion) {
			continue
		}
		if tags.Pure() {
			return file, true
		}
		if !found {
			fallback, found = file, true
		}
	}
	return fallback, found
}
