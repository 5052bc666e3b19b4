package cmd

import (
	"context"
	"fmt"

	"github.com/google/go-containerregistry/pkg/crane"
)

// DigestResolver pins an image reference to the digest it currently
// resolves to on the registry. Lock generation uses it to freeze the
// base image.
type DigestResolver interface {
	ResolveDigest(ctx context.Context, ref string, opts ...ResolveDigestOption) (string, error)
}

type craneDigestResolver struct{}

func (r *craneDigestResolver) ResolveDigest(
	ctx context.Context, ref string, opts ...ResolveDigestOption,
) (string, error) {
	var cfg ResolveDigestConfig
	cfg.Option(opts...)

	craneOpts := []crane.Option{crane.WithContext(ctx)}
	if cfg.Insecure {
		craneOpts = append(craneOpts, crane.Insecure)
	}

	digest, err := crane.Digest(ref, craneOpts...)
	if err != nil {
		return "", fmt.Errorf("resolve digest of %s: %w", ref, err)
	}
	return digest, nil
}

type ResolveDigestConfig struct {
	Insecure bool
}

func (c *ResolveDigestConfig) Option(opts ...ResolveDigestOption) {
	for _, opt := range opts {
		opt.ConfigureResolveDigest(c)
	}
}

type ResolveDigestOption interface {
	ConfigureResolveDigest(*ResolveDigestConfig)
}
