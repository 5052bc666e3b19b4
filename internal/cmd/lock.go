package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"sigs.k8s.io/yaml"

	manifests "bakery.run/apis/manifests/v1alpha1"
	"bakery.run/internal/pip"
	"bakery.run/internal/utils"
)

// ErrLockDataUnchanged is reported when regeneration produces the exact
// lock already on disk.
var ErrLockDataUnchanged = errors.New("lock data unchanged")

// PipResolver pins parsed requirements against a package index.
type PipResolver interface {
	Resolve(ctx context.Context, reqs []pip.Requirement) ([]manifests.LockedDistribution, error)
}

// PipResolverFactory builds a PipResolver for the index and python
// version declared by a manifest.
type PipResolverFactory func(indexURL, pythonVersion string) PipResolver

func NewLock(opts ...LockOption) *Lock {
	var cfg LockConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Lock{
		cfg: cfg,
	}
}

type Lock struct {
	cfg LockConfig
}

type LockConfig struct {
	Log         logr.Logger
	Clock       Clock
	Loader      SourceLoader
	Resolver    DigestResolver
	NewResolver PipResolverFactory
}

func (c *LockConfig) Option(opts ...LockOption) {
	for _, opt := range opts {
		opt.ConfigureLock(c)
	}
}

func (c *LockConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.Clock == nil {
		c.Clock = &defaultClock{}
	}
	if c.Loader == nil {
		c.Loader = NewDefaultSourceLoader()
	}
	if c.Resolver == nil {
		c.Resolver = &craneDigestResolver{}
	}
	if c.NewResolver == nil {
		c.NewResolver = func(indexURL, pythonVersion string) PipResolver {
			return pip.NewResolver(pip.NewIndexClient(indexURL), pythonVersion)
		}
	}
}

type LockOption interface {
	ConfigureLock(*LockConfig)
}

// GenerateLockData resolves the base image digest and every requirement
// of the build context at srcPath into fresh lock file contents.
func (l *Lock) GenerateLockData(
	ctx context.Context, srcPath string, opts ...GenerateLockDataOption,
) (data []byte, err error) {
	var cfg GenerateLockDataConfig
	cfg.Option(opts...)

	ctx = logr.NewContext(ctx, l.cfg.Log)

	src, err := l.cfg.Loader.LoadSource(ctx, srcPath)
	if err != nil {
		return nil, fmt.Errorf("load build context %s: %w", srcPath, err)
	}

	reqsData, err := requirementsData(src)
	if err != nil {
		return nil, err
	}
	reqs, err := pip.ParseRequirements(reqsData)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Manifest.Spec.Python.Requirements, err)
	}

	lockedBase, err := l.lockBase(ctx, src.Manifest, cfg)
	if err != nil {
		return nil, err
	}

	resolver := l.cfg.NewResolver(
		src.Manifest.Spec.Python.IndexURL, src.Manifest.Spec.Python.Version)
	dists, err := resolver.Resolve(ctx, reqs)
	if err != nil {
		return nil, err
	}

	manifestLock := &manifests.BuildManifestLock{
		TypeMeta: manifests.TypeMeta{
			Kind:       manifests.BuildManifestLockKind,
			APIVersion: manifests.GroupVersion,
		},
		ObjectMeta: manifests.ObjectMeta{
			CreationTimestamp: l.cfg.Clock.Now().UTC().Format(time.RFC3339),
		},
		Spec: manifests.BuildManifestLockSpec{
			Base: lockedBase,
			Python: manifests.LockedPython{
				Version:  src.Manifest.Spec.Python.Version,
				IndexURL: src.Manifest.Spec.Python.IndexURL,
			},
			RequirementsHash: requirementsHash(reqsData),
			Distributions:    dists,
		},
	}

	if src.Lock != nil && lockSpecsAreEqual(manifestLock.Spec, src.Lock.Spec) {
		return nil, ErrLockDataUnchanged
	}

	manifestLockYaml, err := yaml.Marshal(manifestLock)
	if err != nil {
		return nil, fmt.Errorf("marshalling manifest lock file: %w", err)
	}

	return manifestLockYaml, nil
}

func (l *Lock) lockBase(
	ctx context.Context, manifest *manifests.BuildManifest, cfg GenerateLockDataConfig,
) (manifests.LockedBase, error) {
	overriddenImage, err := utils.ImageURLWithOverrideFromEnv(manifest.Spec.Base.Image)
	if err != nil {
		return manifests.LockedBase{}, fmt.Errorf("resolving base image URL: %w", err)
	}

	digest, err := l.cfg.Resolver.ResolveDigest(ctx, overriddenImage, WithInsecure(cfg.Insecure))
	if err != nil {
		return manifests.LockedBase{}, fmt.Errorf("resolving base image digest: %w", err)
	}

	return manifests.LockedBase{
		Image:  manifest.Spec.Base.Image,
		Digest: digest,
	}, nil
}

func lockSpecsAreEqual(spec, other manifests.BuildManifestLockSpec) bool {
	if spec.Base != other.Base || spec.Python != other.Python ||
		spec.RequirementsHash != other.RequirementsHash {
		return false
	}
	if len(spec.Distributions) != len(other.Distributions) {
		return false
	}
	for i, dist := range spec.Distributions {
		if dist != other.Distributions[i] {
			return false
		}
	}
	return true
}

type GenerateLockDataConfig struct {
	Insecure bool
}

func (c *GenerateLockDataConfig) Option(opts ...GenerateLockDataOption) {
	for _, opt := range opts {
		opt.ConfigureGenerateLockData(c)
	}
}

type GenerateLockDataOption interface {
	ConfigureGenerateLockData(*GenerateLockDataConfig)
}

type Clock interface {
	Now() time.Time
}

type defaultClock struct{}

func (c *defaultClock) Now() time.Time {
	return time.Now()
}
