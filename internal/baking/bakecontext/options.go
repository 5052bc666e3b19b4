package bakecontext

type FSConfig struct {
	Ignore []string
}

func (c *FSConfig) Option(opts ...Option) {
	for _, opt := range opts {
		opt.ConfigureFS(c)
	}
}

type Option interface {
	ConfigureFS(*FSConfig)
}

// WithIgnore appends glob patterns excluded from the context import.
type WithIgnore []string

func (w WithIgnore) ConfigureFS(c *FSConfig) {
	c.Ignore = append(c.Ignore, w...)
}
