package v1alpha1

import "fmt"

const (
	defaultWorkDir      = "/app"
	defaultRequirements = "requirements.txt"
	defaultPython       = "3.10"
	defaultIndexURL     = "https://pypi.org/pypi"
	defaultTimezone     = "UTC"
)

// DefaultIgnore patterns are always excluded from the source layer.
// Version-control metadata stays out of shipped images unless
// spec.source.includeVCS opts back in.
var DefaultIgnore = []string{
	".git",
	"**/__pycache__",
	"*.pyc",
	".bakery-cache",
}

func defaultCommand() []string { return []string{"python3", "server.py"} }

// Default fills unset fields with their documented defaults.
func (m *BuildManifest) Default() {
	if m.Spec.Source.WorkDir == "" {
		m.Spec.Source.WorkDir = defaultWorkDir
	}
	if m.Spec.Python.Requirements == "" {
		m.Spec.Python.Requirements = defaultRequirements
	}
	if m.Spec.Python.Version == "" {
		m.Spec.Python.Version = defaultPython
	}
	if m.Spec.Python.SitePackages == "" {
		m.Spec.Python.SitePackages = fmt.Sprintf(
			"/usr/local/lib/python%s/site-packages", m.Spec.Python.Version)
	}
	if m.Spec.Python.IndexURL == "" {
		m.Spec.Python.IndexURL = defaultIndexURL
	}
	if m.Spec.Runtime.Timezone == "" {
		m.Spec.Runtime.Timezone = defaultTimezone
	}
	if len(m.Spec.Runtime.Command) == 0 {
		m.Spec.Runtime.Command = defaultCommand()
	}
}

// EffectiveIgnore returns the glob patterns excluded from the source layer.
func (m *BuildManifest) EffectiveIgnore() []string {
	patterns := make([]string, 0, len(DefaultIgnore)+len(m.Spec.Source.Ignore))
	for _, p := range DefaultIgnore {
		if p == ".git" && m.Spec.Source.IncludeVCS {
			continue
		}
		patterns = append(patterns, p)
	}
	return append(patterns, m.Spec.Source.Ignore...)
}
