package bakeexport

import (
	"fmt"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"sigs.k8s.io/yaml"

	"bakery.run/internal/baking/bakemanifest"
)

const (
	// ManifestAnnotation carries the build manifest inside the image,
	// so built images stay inspectable without their build context.
	ManifestAnnotation = "run.bakery.build-manifest"
	// BaseDigestAnnotation records the pinned base image digest.
	BaseDigestAnnotation = "run.bakery.base-digest"
)

// Image layers the application onto the base image and rewrites the
// image config for the declared runtime. sitePackages holds the merged
// contents of every extracted distribution.
func Image(
	base v1.Image, src *bakemanifest.Source, sitePackages map[string][]byte,
) (v1.Image, error) {
	spec := src.Manifest.Spec

	layers := make([]v1.Layer, 0, 3)

	srcLayer, err := SourceLayer(src.Files, spec.Source.WorkDir)
	if err != nil {
		return nil, err
	}
	layers = append(layers, srcLayer)

	if len(sitePackages) > 0 {
		pkgLayer, err := SitePackagesLayer(sitePackages, spec.Python.SitePackages)
		if err != nil {
			return nil, err
		}
		layers = append(layers, pkgLayer)
	}

	tzLayer, err := TimezoneLayer(spec.Runtime.Timezone)
	if err != nil {
		return nil, err
	}
	layers = append(layers, tzLayer)

	image, err := mutate.AppendLayers(base, layers...)
	if err != nil {
		return nil, fmt.Errorf("append layers to base: %w", err)
	}

	image, err = applyRuntimeConfig(image, src)
	if err != nil {
		return nil, err
	}

	image, err = annotate(image, src)
	if err != nil {
		return nil, err
	}

	image, err = mutate.Canonical(image)
	if err != nil {
		return nil, fmt.Errorf("canonicalize image: %w", err)
	}

	return image, nil
}

func applyRuntimeConfig(image v1.Image, src *bakemanifest.Source) (v1.Image, error) {
	configFile, err := image.ConfigFile()
	if err != nil {
		return nil, fmt.Errorf("read base image config: %w", err)
	}

	spec := src.Manifest.Spec
	config := configFile.Config
	config.WorkingDir = spec.Source.WorkDir
	config.Entrypoint = spec.Runtime.Command
	config.Cmd = nil

	overrides := []string{"TZ=" + spec.Runtime.Timezone}
	for _, env := range spec.Runtime.Env {
		overrides = append(overrides, env.Name+"="+env.Value)
	}
	config.Env = mergeEnv(config.Env, overrides)

	image, err = mutate.Config(image, config)
	if err != nil {
		return nil, fmt.Errorf("apply runtime config: %w", err)
	}
	return image, nil
}

// mergeEnv appends overrides to the base image environment, dropping
// base entries whose variable an override redefines.
func mergeEnv(base, overrides []string) []string {
	overridden := make(map[string]struct{}, len(overrides))
	for _, entry := range overrides {
		name, _, _ := strings.Cut(entry, "=")
		overridden[name] = struct{}{}
	}

	merged := make([]string, 0, len(base)+len(overrides))
	for _, entry := range base {
		name, _, _ := strings.Cut(entry, "=")
		if _, ok := overridden[name]; ok {
			continue
		}
		merged = append(merged, entry)
	}
	return append(merged, overrides...)
}

func annotate(image v1.Image, src *bakemanifest.Source) (v1.Image, error) {
	manifestBytes, err := yaml.Marshal(src.Manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest annotation: %w", err)
	}

	annotations := map[string]string{
		ManifestAnnotation: string(manifestBytes),
	}
	if src.Lock != nil {
		annotations[BaseDigestAnnotation] = src.Lock.Spec.Base.Digest
	}

	return mutate.Annotations(image, annotations).(v1.Image), nil
}
