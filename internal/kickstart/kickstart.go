package kickstart

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/go-logr/logr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"

	manifests "bakery.run/apis/manifests/v1alpha1"
	"bakery.run/internal/baking/bakemanifest"
)

const (
	defaultBaseImage = "docker.io/library/python:3.10-slim"
	defaultTimezone  = "Asia/Kolkata"
	defaultPort      = 8080
)

var serverTemplate = template.Must(
	template.New("server.py").Funcs(sprig.FuncMap()).Parse(
		`from flask import Flask

app = Flask("{{ .Name | kebabcase }}")


@app.route("/healthz")
def healthz():
    return "ok"


if __name__ == "__main__":
    app.run(host="0.0.0.0", port={{ .Port | default 8080 }})
`))

const requirementsStub = `flask==2.2.2
requests==2.31.0
`

// NewKickstarter returns a Kickstarter scaffolding new projects.
func NewKickstarter(opts ...KickstarterOption) *Kickstarter {
	var cfg KickstarterConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Kickstarter{
		cfg: cfg,
	}
}

type Kickstarter struct {
	cfg KickstarterConfig
}

type KickstarterConfig struct {
	Log logr.Logger
}

func (c *KickstarterConfig) Option(opts ...KickstarterOption) {
	for _, opt := range opts {
		opt.ConfigureKickstarter(c)
	}
}

func (c *KickstarterConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
}

type KickstarterOption interface {
	ConfigureKickstarter(*KickstarterConfig)
}

// KickStart scaffolds a new project directory named after the given
// project: a build manifest, a requirements stub and a minimal web
// server entrypoint. The directory must not exist yet.
func (k *Kickstarter) KickStart(
	ctx context.Context, name string, opts ...KickStartOption,
) (msg string, err error) {
	cfg := KickStartConfig{
		BaseImage: defaultBaseImage,
		Timezone:  defaultTimezone,
	}
	cfg.Option(opts...)

	manifest := &manifests.BuildManifest{
		TypeMeta: manifests.TypeMeta{
			Kind:       manifests.BuildManifestKind,
			APIVersion: manifests.GroupVersion,
		},
		ObjectMeta: manifests.ObjectMeta{Name: name},
		Spec: manifests.BuildManifestSpec{
			Base: manifests.BaseSpec{Image: cfg.BaseImage},
			Runtime: manifests.RuntimeSpec{
				Timezone: cfg.Timezone,
			},
		},
	}
	manifest.Default()
	if err := bakemanifest.Validate(manifest); err != nil {
		return "", fmt.Errorf("kickstarted manifest invalid: %w", err)
	}

	files, err := renderFiles(manifest)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(cfg.TargetDir, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating project directory: %w", err)
	}

	paths := maps.Keys(files)
	slices.Sort(paths)

	for _, path := range paths {
		k.cfg.Log.V(1).Info("writing file", "path", filepath.Join(dir, path))
		if err := os.WriteFile(filepath.Join(dir, path), files[path], 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return fmt.Sprintf("kickstarted project %q with %d files\n", name, len(files)), nil
}

func renderFiles(manifest *manifests.BuildManifest) (map[string][]byte, error) {
	manifestYaml, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshalling build manifest: %w", err)
	}

	var server bytes.Buffer
	err = serverTemplate.Execute(&server, map[string]any{
		"Name": manifest.Name,
		"Port": defaultPort,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering server entrypoint: %w", err)
	}

	return map[string][]byte{
		bakemanifest.ManifestFileNames[0]:  manifestYaml,
		manifest.Spec.Python.Requirements: []byte(requirementsStub),
		"server.py":                       server.Bytes(),
	}, nil
}

type KickStartConfig struct {
	BaseImage string
	Timezone  string
	TargetDir string
}

func (c *KickStartConfig) Option(opts ...KickStartOption) {
	for _, opt := range opts {
		opt.ConfigureKickStart(c)
	}
}

type KickStartOption interface {
	ConfigureKickStart(*KickStartConfig)
}
