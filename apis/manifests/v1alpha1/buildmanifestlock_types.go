package v1alpha1

// BuildManifestLock pins everything a BuildManifest leaves floating:
// the base image digest and the exact distribution set resolved from the
// requirements manifest. Builds refuse to run without an up-to-date lock.
type BuildManifestLock struct {
	TypeMeta   `json:",inline"`
	ObjectMeta `json:"metadata,omitempty"`

	Spec BuildManifestLockSpec `json:"spec,omitempty"`
}

type BuildManifestLockSpec struct {
	// Base records the image reference from the manifest together with
	// the digest it resolved to at lock time.
	Base LockedBase `json:"base"`
	// Python records the interpreter version and package index the
	// distribution set was resolved for. Wheels are interpreter
	// specific, changing either invalidates the lock.
	Python LockedPython `json:"python"`
	// RequirementsHash is the sha256 over the requirements manifest the
	// distribution set was resolved from.
	RequirementsHash string `json:"requirementsHash,omitempty"`
	// Distributions lists every resolved python distribution.
	Distributions []LockedDistribution `json:"distributions,omitempty"`
}

type LockedBase struct {
	Image  string `json:"image"`
	Digest string `json:"digest"`
}

type LockedPython struct {
	Version  string `json:"version"`
	IndexURL string `json:"indexURL"`
}

type LockedDistribution struct {
	// Name is the PEP 503 normalized project name.
	Name string `json:"name"`
	// Version the requirement resolved to.
	Version string `json:"version"`
	// Filename of the selected wheel.
	Filename string `json:"filename"`
	// URL the wheel is fetched from at build time.
	URL string `json:"url"`
	// SHA256 of the wheel contents, verified after fetch.
	SHA256 string `json:"sha256"`
}
