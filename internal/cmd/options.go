package cmd

import (
	"github.com/go-logr/logr"
)

type WithClock struct{ Clock Clock }

func (w WithClock) ConfigureLock(c *LockConfig) {
	c.Clock = w.Clock
}

type WithDigestResolver struct{ Resolver DigestResolver }

func (w WithDigestResolver) ConfigureLock(c *LockConfig) {
	c.Resolver = w.Resolver
}

type WithHeaders []string

func (w WithHeaders) ConfigureTable(c *TableConfig) {
	c.Headers = append(c.Headers, w...)
}

type WithInsecure bool

func (w WithInsecure) ConfigureBuildFromSource(c *BuildFromSourceConfig) {
	c.Insecure = bool(w)
}

func (w WithInsecure) ConfigureGenerateLockData(c *GenerateLockDataConfig) {
	c.Insecure = bool(w)
}

func (w WithInsecure) ConfigureResolveDigest(c *ResolveDigestConfig) {
	c.Insecure = bool(w)
}

func (w WithInsecure) ConfigureValidateSource(c *ValidateSourceConfig) {
	c.Insecure = bool(w)
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigureBuild(c *BuildConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigureLock(c *LockConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigurePlan(c *PlanConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigureValidate(c *ValidateConfig) {
	c.Log = w.Log
}

type WithOutputPath string

func (w WithOutputPath) ConfigureBuildFromSource(c *BuildFromSourceConfig) {
	c.OutputPath = string(w)
}

type WithBasePuller struct{ Puller BasePuller }

func (w WithBasePuller) ConfigureBuild(c *BuildConfig) {
	c.Puller = w.Puller
}

func (w WithBasePuller) ConfigureValidate(c *ValidateConfig) {
	c.Puller = w.Puller
}

type WithPath string

func (w WithPath) ConfigureValidateSource(c *ValidateSourceConfig) {
	c.Path = string(w)
}

type WithPipResolverFactory PipResolverFactory

func (w WithPipResolverFactory) ConfigureLock(c *LockConfig) {
	c.NewResolver = PipResolverFactory(w)
}

type WithPullSecret []byte

func (w WithPullSecret) ConfigureBuildFromSource(c *BuildFromSourceConfig) {
	c.PullSecret = []byte(w)
}

func (w WithPullSecret) ConfigureValidateSource(c *ValidateSourceConfig) {
	c.PullSecret = []byte(w)
}

type WithPush bool

func (w WithPush) ConfigureBuildFromSource(c *BuildFromSourceConfig) {
	c.Push = bool(w)
}

type WithRemoteReference string

func (w WithRemoteReference) ConfigureValidateSource(c *ValidateSourceConfig) {
	c.RemoteReference = string(w)
}

type WithSourceLoader struct{ Loader SourceLoader }

func (w WithSourceLoader) ConfigureBuild(c *BuildConfig) {
	c.Loader = w.Loader
}

func (w WithSourceLoader) ConfigureLock(c *LockConfig) {
	c.Loader = w.Loader
}

func (w WithSourceLoader) ConfigurePlan(c *PlanConfig) {
	c.Loader = w.Loader
}

func (w WithSourceLoader) ConfigureValidate(c *ValidateConfig) {
	c.Loader = w.Loader
}

type WithTags []string

func (w WithTags) ConfigureBuildFromSource(c *BuildFromSourceConfig) {
	c.Tags = append(c.Tags, w...)
}

type WithWheelExtractor WheelExtractor

func (w WithWheelExtractor) ConfigureBuild(c *BuildConfig) {
	c.Extract = WheelExtractor(w)
}

type WithWheelFetcher struct{ Fetcher WheelFetcher }

func (w WithWheelFetcher) ConfigureBuild(c *BuildConfig) {
	c.Fetcher = w.Fetcher
}
