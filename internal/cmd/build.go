package cmd

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/crane"

	manifests "bakery.run/apis/manifests/v1alpha1"
	"bakery.run/internal/baking/bakeexport"
	"bakery.run/internal/baking/basepull"
	"bakery.run/internal/pip"
	"bakery.run/internal/utils"
	"bakery.run/internal/wheel"
)

func defaultWheelExtract(data []byte) (map[string][]byte, error) {
	return wheel.Extract(data)
}

// WheelFetcher downloads the wheel of a locked distribution.
type WheelFetcher interface {
	Fetch(ctx context.Context, dist manifests.LockedDistribution) ([]byte, error)
}

// WheelExtractor unpacks a wheel into site-packages relative files.
type WheelExtractor func(data []byte) (map[string][]byte, error)

func NewBuild(opts ...BuildOption) *Build {
	var cfg BuildConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Build{
		cfg: cfg,
	}
}

type Build struct {
	cfg BuildConfig
}

type BuildConfig struct {
	Log     logr.Logger
	Loader  SourceLoader
	Puller  BasePuller
	Fetcher WheelFetcher
	Extract WheelExtractor
}

func (c *BuildConfig) Option(opts ...BuildOption) {
	for _, opt := range opts {
		opt.ConfigureBuild(c)
	}
}

func (c *BuildConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.Loader == nil {
		c.Loader = NewDefaultSourceLoader()
	}
	if c.Puller == nil {
		c.Puller = basepull.NewPuller()
	}
	if c.Fetcher == nil {
		c.Fetcher = pip.NewFetcher()
	}
	if c.Extract == nil {
		c.Extract = defaultWheelExtract
	}
}

type BuildOption interface {
	ConfigureBuild(*BuildConfig)
}

// BuildFromSource provisions an image from the build context at srcPath.
// The sequence is strictly linear, the first failing step aborts the
// whole build and no partial artifact is written.
func (b *Build) BuildFromSource(
	ctx context.Context, srcPath string, opts ...BuildFromSourceOption,
) error {
	var cfg BuildFromSourceConfig
	cfg.Option(opts...)

	ctx = logr.NewContext(ctx, b.cfg.Log)

	b.cfg.Log.Info("loading build context", "path", srcPath)
	src, err := b.cfg.Loader.LoadSource(ctx, srcPath)
	if err != nil {
		return fmt.Errorf("load build context %s: %w", srcPath, err)
	}

	reqsData, err := requirementsData(src)
	if err != nil {
		return err
	}
	if err := checkLock(src.Lock, src.Manifest, reqsData); err != nil {
		return err
	}

	pullOpts := []basepull.PullOption{basepull.WithInsecure(cfg.Insecure)}
	if len(cfg.PullSecret) > 0 {
		pullOpts = append(pullOpts, basepull.WithPullSecret(cfg.PullSecret))
	}

	pinnedRef, err := pinnedBaseRef(src.Lock)
	if err != nil {
		return err
	}
	b.cfg.Log.Info("pulling base image", "reference", pinnedRef)
	base, err := b.cfg.Puller.Pull(ctx, pinnedRef, pullOpts...)
	if err != nil {
		return fmt.Errorf("pull base image %s: %w", pinnedRef, err)
	}

	zone := src.Manifest.Spec.Runtime.Timezone
	if err := basepull.VerifyZoneinfo(base, zone); err != nil {
		return err
	}

	sitePackages, err := b.materializeDistributions(ctx, src.Lock.Spec.Distributions)
	if err != nil {
		return err
	}

	b.cfg.Log.Info("assembling image",
		"sourceFiles", len(src.Files), "distributions", len(src.Lock.Spec.Distributions))
	image, err := bakeexport.Image(base, src, sitePackages)
	if err != nil {
		return fmt.Errorf("assembling image: %w", err)
	}

	if cfg.OutputPath != "" {
		b.cfg.Log.Info("writing tagged image to disk", "path", cfg.OutputPath)
		if err := bakeexport.ToFile(cfg.OutputPath, cfg.Tags, image); err != nil {
			return fmt.Errorf("exporting image to file: %w", err)
		}
	}

	if cfg.Push {
		var craneOpts []crane.Option
		if cfg.Insecure {
			craneOpts = append(craneOpts, crane.Insecure)
		}
		if err := bakeexport.ToPushed(ctx, cfg.Tags, image, craneOpts...); err != nil {
			return fmt.Errorf("pushing image: %w", err)
		}
	}

	return nil
}

// materializeDistributions fetches and unpacks every locked wheel into a
// single site-packages file set. Wheels are processed in lock order, a
// later distribution wins on path collisions (dist-info trees never
// collide, module trees only do for conflicting distributions).
func (b *Build) materializeDistributions(
	ctx context.Context, dists []manifests.LockedDistribution,
) (map[string][]byte, error) {
	sitePackages := map[string][]byte{}
	for _, dist := range dists {
		data, err := b.cfg.Fetcher.Fetch(ctx, dist)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", dist.Name, err)
		}

		files, err := b.cfg.Extract(data)
		if err != nil {
			return nil, fmt.Errorf("unpacking %s: %w", dist.Filename, err)
		}
		for path, content := range files {
			if _, exists := sitePackages[path]; exists {
				b.cfg.Log.V(1).Info("site-packages path collision",
					"path", path, "distribution", dist.Name)
			}
			sitePackages[path] = content
		}
	}
	return sitePackages, nil
}

func checkLock(
	lock *manifests.BuildManifestLock, manifest *manifests.BuildManifest, reqsData []byte,
) error {
	if lock == nil {
		return ErrLockMissing
	}
	if lock.Spec.Base.Image != manifest.Spec.Base.Image {
		return fmt.Errorf("%w: base image changed", ErrLockOutOfDate)
	}
	if lock.Spec.Base.Digest == "" {
		return fmt.Errorf("%w: base digest missing", ErrLockOutOfDate)
	}
	if lock.Spec.Python.Version != manifest.Spec.Python.Version {
		return fmt.Errorf("%w: python version changed", ErrLockOutOfDate)
	}
	if lock.Spec.Python.IndexURL != manifest.Spec.Python.IndexURL {
		return fmt.Errorf("%w: package index changed", ErrLockOutOfDate)
	}
	if lock.Spec.RequirementsHash != requirementsHash(reqsData) {
		return fmt.Errorf("%w: requirements changed", ErrLockOutOfDate)
	}
	return nil
}

func pinnedBaseRef(lock *manifests.BuildManifestLock) (string, error) {
	image, err := utils.ImageURLWithOverrideFromEnv(lock.Spec.Base.Image)
	if err != nil {
		return "", fmt.Errorf("resolving base image URL: %w", err)
	}
	return image + "@" + lock.Spec.Base.Digest, nil
}

type BuildFromSourceConfig struct {
	Insecure   bool
	OutputPath string
	Tags       []string
	Push       bool
	PullSecret []byte
}

func (c *BuildFromSourceConfig) Option(opts ...BuildFromSourceOption) {
	for _, opt := range opts {
		opt.ConfigureBuildFromSource(c)
	}
}

type BuildFromSourceOption interface {
	ConfigureBuildFromSource(*BuildFromSourceConfig)
}
