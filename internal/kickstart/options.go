package kickstart

import "github.com/go-logr/logr"

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureKickstarter(c *KickstarterConfig) {
	c.Log = w.Log
}

// WithBaseImage overrides the scaffolded base image reference.
type WithBaseImage string

func (w WithBaseImage) ConfigureKickStart(c *KickStartConfig) {
	c.BaseImage = string(w)
}

// WithTimezone overrides the scaffolded runtime timezone.
type WithTimezone string

func (w WithTimezone) ConfigureKickStart(c *KickStartConfig) {
	c.Timezone = string(w)
}

// WithTargetDir places the project directory somewhere other than the
// current working directory.
type WithTargetDir string

func (w WithTargetDir) ConfigureKickStart(c *KickStartConfig) {
	c.TargetDir = string(w)
}
