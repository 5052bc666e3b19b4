package cmd

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"sigs.k8s.io/yaml"

	manifests "bakery.run/apis/manifests/v1alpha1"
	"bakery.run/internal/baking/bakeexport"
	"bakery.run/internal/baking/bakemanifest"
	"bakery.run/internal/baking/basepull"
	"bakery.run/internal/utils"
)

func NewValidate(opts ...ValidateOption) *Validate {
	var cfg ValidateConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Validate{
		cfg: cfg,
	}
}

type Validate struct {
	cfg ValidateConfig
}

type ValidateConfig struct {
	Log    logr.Logger
	Loader SourceLoader
	Puller BasePuller
}

func (c *ValidateConfig) Option(opts ...ValidateOption) {
	for _, opt := range opts {
		opt.ConfigureValidate(c)
	}
}

func (c *ValidateConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.Loader == nil {
		c.Loader = NewDefaultSourceLoader()
	}
	if c.Puller == nil {
		c.Puller = basepull.NewPuller()
	}
}

type ValidateOption interface {
	ConfigureValidate(*ValidateConfig)
}

// ValidateSource checks either a local build context or an already
// built image. Exactly one target must be given.
func (v *Validate) ValidateSource(ctx context.Context, opts ...ValidateSourceOption) error {
	var cfg ValidateSourceConfig
	cfg.Option(opts...)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx = logr.NewContext(ctx, v.cfg.Log)

	if cfg.Path != "" {
		_, err := v.cfg.Loader.LoadSource(ctx, cfg.Path)
		return err
	}
	return v.validateRemote(ctx, cfg)
}

func (v *Validate) validateRemote(ctx context.Context, cfg ValidateSourceConfig) error {
	ref, err := utils.ImageURLWithOverrideFromEnv(cfg.RemoteReference)
	if err != nil {
		return fmt.Errorf("resolving image URL: %w", err)
	}

	pullOpts := []basepull.PullOption{basepull.WithInsecure(cfg.Insecure)}
	if len(cfg.PullSecret) > 0 {
		pullOpts = append(pullOpts, basepull.WithPullSecret(cfg.PullSecret))
	}
	image, err := v.cfg.Puller.Pull(ctx, ref, pullOpts...)
	if err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}

	imageManifest, err := image.Manifest()
	if err != nil {
		return fmt.Errorf("reading image manifest: %w", err)
	}
	data, ok := imageManifest.Annotations[bakeexport.ManifestAnnotation]
	if !ok {
		return fmt.Errorf("%w: image carries no %s annotation",
			bakemanifest.ErrManifestNotFound, bakeexport.ManifestAnnotation)
	}

	manifest := &manifests.BuildManifest{}
	if err := yaml.UnmarshalStrict([]byte(data), manifest); err != nil {
		return fmt.Errorf("parsing embedded build manifest: %w", err)
	}
	manifest.Default()
	return bakemanifest.Validate(manifest)
}

type ValidateSourceConfig struct {
	Path            string
	RemoteReference string
	Insecure        bool
	PullSecret      []byte
}

func (c *ValidateSourceConfig) Option(opts ...ValidateSourceOption) {
	for _, opt := range opts {
		opt.ConfigureValidateSource(c)
	}
}

func (c *ValidateSourceConfig) Validate() error {
	switch {
	case c.Path == "" && c.RemoteReference == "":
		return fmt.Errorf("%w: either path or remote reference must be given", ErrInvalidArgs)
	case c.Path != "" && c.RemoteReference != "":
		return fmt.Errorf("%w: path and remote reference are mutually exclusive", ErrInvalidArgs)
	}
	return nil
}

type ValidateSourceOption interface {
	ConfigureValidateSource(*ValidateSourceConfig)
}
