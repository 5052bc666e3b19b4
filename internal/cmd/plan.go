package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/disiqueira/gotree"
	"github.com/go-logr/logr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func NewPlan(opts ...PlanOption) *Plan {
	var cfg PlanConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Plan{
		cfg: cfg,
	}
}

type Plan struct {
	cfg PlanConfig
}

type PlanConfig struct {
	Log    logr.Logger
	Loader SourceLoader
}

func (c *PlanConfig) Option(opts ...PlanOption) {
	for _, opt := range opts {
		opt.ConfigurePlan(c)
	}
}

func (c *PlanConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.Loader == nil {
		c.Loader = NewDefaultSourceLoader()
	}
}

type PlanOption interface {
	ConfigurePlan(*PlanConfig)
}

// RenderPlan loads the build context at srcPath and renders the layers
// a build would produce as a tree. The lock file is optional here, an
// unlocked context renders with its distributions marked as unpinned.
func (p *Plan) RenderPlan(ctx context.Context, srcPath string) (string, error) {
	ctx = logr.NewContext(ctx, p.cfg.Log)

	p.cfg.Log.Info("loading build context", "path", srcPath)
	src, err := p.cfg.Loader.LoadSource(ctx, srcPath)
	if err != nil {
		return "", fmt.Errorf("load build context %s: %w", srcPath, err)
	}

	spec := src.Manifest.Spec
	planTree := gotree.New("BuildManifest " + src.Manifest.Name)

	base := planTree.Add("base " + spec.Base.Image)
	if src.Lock != nil {
		base.Add("pinned " + src.Lock.Spec.Base.Digest)
	} else {
		base.Add("unpinned (no lock file)")
	}

	source := planTree.Add(fmt.Sprintf("source layer %s", spec.Source.WorkDir))
	for _, path := range sortedPaths(src.Files) {
		source.Add(path)
	}

	dists := planTree.Add("site-packages layer " + spec.Python.SitePackages)
	switch {
	case src.Lock == nil:
		dists.Add(fmt.Sprintf("unresolved %s (no lock file)", spec.Python.Requirements))
	case len(src.Lock.Spec.Distributions) == 0:
		dists.Add("empty (layer skipped)")
	default:
		for _, dist := range src.Lock.Spec.Distributions {
			dists.Add(fmt.Sprintf("%s==%s", dist.Name, dist.Version))
		}
	}

	planTree.Add("timezone layer " + spec.Runtime.Timezone)
	planTree.Add("command " + strings.Join(spec.Runtime.Command, " "))

	return planTree.Print(), nil
}

// DistributionTable tabulates the locked distributions of the build
// context at srcPath.
func (p *Plan) DistributionTable(
	ctx context.Context, srcPath string, opts ...TableOption,
) (Table, error) {
	ctx = logr.NewContext(ctx, p.cfg.Log)

	src, err := p.cfg.Loader.LoadSource(ctx, srcPath)
	if err != nil {
		return nil, fmt.Errorf("load build context %s: %w", srcPath, err)
	}
	if src.Lock == nil {
		return nil, ErrLockMissing
	}

	table := NewDefaultTable(opts...)
	for _, dist := range src.Lock.Spec.Distributions {
		table.AddRow(
			Field{Name: "Name", Value: dist.Name},
			Field{Name: "Version", Value: dist.Version},
			Field{Name: "Filename", Value: dist.Filename},
			Field{Name: "SHA256", Value: dist.SHA256},
		)
	}

	return table, nil
}

func sortedPaths(files map[string][]byte) []string {
	paths := maps.Keys(files)
	slices.Sort(paths)

	return paths
}
