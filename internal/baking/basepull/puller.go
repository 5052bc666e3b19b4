// Package basepull acquires base images from registries.
package basepull

import (
	"context"
	"encoding/json"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/crane"
	v1 "github.com/google/go-containerregistry/pkg/v1"
)

func NewPuller() *Puller {
	return &Puller{
		cranePull: crane.Pull,
	}
}

type cranePullFn func(src string, opt ...crane.Option) (v1.Image, error)

type Puller struct {
	cranePull cranePullFn
}

type dockerConfigJSON struct {
	Auths map[string]authn.AuthConfig
}

// Pull fetches the image behind ref, usually a digest-pinned reference
// taken from the lock file.
func (p *Puller) Pull(ctx context.Context, ref string, opts ...PullOption) (v1.Image, error) {
	var cfg PullConfig
	cfg.Option(opts...)

	craneOpts := []crane.Option{crane.WithContext(ctx)}

	// Prepare authenticator(s) if a pull secret was specified.
	if len(cfg.PullSecret) != 0 {
		var dockerConfig dockerConfigJSON
		if err := json.Unmarshal(cfg.PullSecret, &dockerConfig); err != nil {
			return nil, err
		}
		for _, auth := range dockerConfig.Auths {
			craneOpts = append(craneOpts, crane.WithAuth(authn.FromConfig(auth)))
		}
	}

	if cfg.Insecure {
		craneOpts = append(craneOpts, crane.Insecure)
	}
	craneOpts = append(craneOpts, cfg.CraneOptions...)

	logr.FromContextOrDiscard(ctx).V(1).Info("pulling base image", "reference", ref)

	return p.cranePull(ref, craneOpts...)
}
