package v1alpha1

// GroupVersion identifies the manifest schema served by this package.
const GroupVersion = "manifests.bakery.run/v1alpha1"

const (
	BuildManifestKind     = "BuildManifest"
	BuildManifestLockKind = "BuildManifestLock"
)

// TypeMeta describes the schema of a manifest document.
type TypeMeta struct {
	Kind       string `json:"kind,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
}

// ObjectMeta carries identifying metadata of a manifest document.
type ObjectMeta struct {
	Name              string `json:"name,omitempty"`
	CreationTimestamp string `json:"creationTimestamp,omitempty"`
}

// BuildManifest is the declarative description of an image build.
// It replaces imperative build scripts with a single versioned document
// checked into the application repository next to its source.
type BuildManifest struct {
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,omitempty"`

	Spec BuildManifestSpec `json:"spec,omitempty"`
}

type BuildManifestSpec struct {
	// Base image the application is layered onto.
	Base BaseSpec `json:"base"`
	// Source controls how the build context is copied into the image.
	Source SourceSpec `json:"source,omitempty"`
	// Python dependency resolution settings.
	Python PythonSpec `json:"python,omitempty"`
	// Runtime configuration baked into the image config.
	Runtime RuntimeSpec `json:"runtime,omitempty"`
}

type BaseSpec struct {
	// Image reference, tag form. The digest is pinned by the lock file.
	Image string `json:"image"`
}

type SourceSpec struct {
	// WorkDir is the image working directory the source tree is rooted at.
	WorkDir string `json:"workDir,omitempty"`
	// Ignore lists glob patterns excluded from the source layer,
	// in addition to the built-in defaults.
	Ignore []string `json:"ignore,omitempty"`
	// IncludeVCS restores the legacy behavior of shipping version-control
	// metadata inside the image. Off by default on purpose.
	IncludeVCS bool `json:"includeVCS,omitempty"`
}

type PythonSpec struct {
	// Requirements is the dependency manifest path within the build context.
	Requirements string `json:"requirements,omitempty"`
	// Version of the python interpreter provided by the base image, e.g. "3.10".
	Version string `json:"version,omitempty"`
	// SitePackages is the target directory resolved distributions are
	// installed into. Derived from Version when empty.
	SitePackages string `json:"sitePackages,omitempty"`
	// IndexURL points at a package index speaking the JSON project API.
	IndexURL string `json:"indexURL,omitempty"`
}

type RuntimeSpec struct {
	// Timezone is the IANA zone name configured in the image.
	Timezone string `json:"timezone,omitempty"`
	// Command is the entrypoint argv launched as the container main process.
	Command []string `json:"command,omitempty"`
	// Env lists additional environment variables set in the image config.
	Env []EnvVar `json:"env,omitempty"`
}

type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}
