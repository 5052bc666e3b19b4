package bakemanifest

import (
	"errors"
	"path"
	"regexp"
	"time"

	// Embed the IANA zone database so timezone validation does not
	// depend on host tzdata.
	_ "time/tzdata"

	"github.com/gobwas/glob"
	"github.com/google/go-containerregistry/pkg/name"

	manifests "bakery.run/apis/manifests/v1alpha1"
)

var pythonVersionRegex = regexp.MustCompile(`^\d+\.\d+$`)

// Validate checks a defaulted BuildManifest, reporting every violation.
func Validate(manifest *manifests.BuildManifest) error {
	var errs []error
	violate := func(fieldPath, reason string) {
		errs = append(errs, Violation{Path: fieldPath, Reason: reason})
	}

	if manifest.Spec.Base.Image == "" {
		violate("spec.base.image", "must not be empty")
	} else if _, err := name.ParseReference(manifest.Spec.Base.Image); err != nil {
		violate("spec.base.image", err.Error())
	}

	if !path.IsAbs(manifest.Spec.Source.WorkDir) {
		violate("spec.source.workDir", "must be an absolute path")
	}
	for _, pattern := range manifest.Spec.Source.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			violate("spec.source.ignore", err.Error())
		}
	}

	if path.IsAbs(manifest.Spec.Python.Requirements) ||
		manifest.Spec.Python.Requirements != path.Clean(manifest.Spec.Python.Requirements) {
		violate("spec.python.requirements", "must be a clean path relative to the build context")
	}
	if !pythonVersionRegex.MatchString(manifest.Spec.Python.Version) {
		violate("spec.python.version", "must be of the form <major>.<minor>")
	}
	if !path.IsAbs(manifest.Spec.Python.SitePackages) {
		violate("spec.python.sitePackages", "must be an absolute path")
	}

	if _, err := time.LoadLocation(manifest.Spec.Runtime.Timezone); err != nil {
		violate("spec.runtime.timezone", "unknown IANA zone name")
	}
	if len(manifest.Spec.Runtime.Command) == 0 {
		violate("spec.runtime.command", "must not be empty")
	}
	seenEnv := map[string]struct{}{}
	for _, env := range manifest.Spec.Runtime.Env {
		if env.Name == "" {
			violate("spec.runtime.env", "name must not be empty")
			continue
		}
		if _, ok := seenEnv[env.Name]; ok {
			violate("spec.runtime.env", "duplicate name "+env.Name)
		}
		seenEnv[env.Name] = struct{}{}
	}

	return errors.Join(errs...)
}
