package basepull

import "github.com/google/go-containerregistry/pkg/crane"

type PullConfig struct {
	Insecure     bool
	PullSecret   []byte
	CraneOptions []crane.Option
}

func (c *PullConfig) Option(opts ...PullOption) {
	for _, opt := range opts {
		opt.ConfigurePull(c)
	}
}

type PullOption interface {
	ConfigurePull(*PullConfig)
}

type WithInsecure bool

func (w WithInsecure) ConfigurePull(c *PullConfig) {
	c.Insecure = bool(w)
}

type WithPullSecret []byte

func (w WithPullSecret) ConfigurePull(c *PullConfig) {
	c.PullSecret = []byte(w)
}

type WithCraneOptions []crane.Option

func (w WithCraneOptions) ConfigurePull(c *PullConfig) {
	c.CraneOptions = append(c.CraneOptions, w...)
}
