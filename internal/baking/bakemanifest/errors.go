package bakemanifest

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestNotFound is reported when a build context carries no bakefile.
	ErrManifestNotFound = errors.New("bakefile.yaml not found in build context")
	// ErrDuplicateManifest is reported when both bakefile.yaml and bakefile.yml exist.
	ErrDuplicateManifest = errors.New("multiple build manifests in build context")
)

// Violation is a single manifest validation failure, pointing at the
// offending field.
type Violation struct {
	// Path of the field within the manifest document.
	Path string
	// Reason the field is rejected.
	Reason string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}
