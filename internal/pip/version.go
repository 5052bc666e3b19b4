package pip

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a parsed PEP 440 version within the supported subset:
// epoch, release segments, pre/post/dev suffixes. Local version labels
// are accepted and ignored for ordering.
type Version struct {
	Epoch   int
	Release []int
	// Phase orders suffixed versions: dev < a < b < rc < final < post.
	Phase    phase
	PhaseNum int
}

type phase int

const (
	phaseDev phase = iota
	phaseAlpha
	phaseBeta
	phaseRC
	phaseFinal
	phasePost
)

var ErrInvalidVersion = errors.New("invalid version")

var versionRegex = regexp.MustCompile(
	`^v?(?:(\d+)!)?(\d+(?:\.\d+)*)` +
		`(?:[-._]?(a|alpha|b|beta|rc|c|pre|preview)[-._]?(\d*))?` +
		`(?:[-._]?(post|rev|r)[-._]?(\d*)|-(\d+))?` +
		`(?:[-._]?(dev)[-._]?(\d*))?` +
		`(?:\+[a-z0-9.]+)?$`)

// ParseVersion parses a version string.
func ParseVersion(s string) (Version, error) {
	m := versionRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	v := Version{Phase: phaseFinal}
	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		v.Release = append(v.Release, n)
	}

	if m[3] != "" {
		switch m[3] {
		case "a", "alpha":
			v.Phase = phaseAlpha
		case "b", "beta":
			v.Phase = phaseBeta
		default:
			v.Phase = phaseRC
		}
		v.PhaseNum, _ = strconv.Atoi(m[4])
	}
	if m[5] != "" || m[7] != "" {
		v.Phase = phasePost
		if m[6] != "" {
			v.PhaseNum, _ = strconv.Atoi(m[6])
		} else if m[7] != "" {
			v.PhaseNum, _ = strconv.Atoi(m[7])
		}
	}
	if m[8] != "" {
		v.Phase = phaseDev
		v.PhaseNum, _ = strconv.Atoi(m[9])
	}

	return v, nil
}

// Prerelease reports whether the version is a dev, alpha, beta or rc
// release.
func (v Version) Prerelease() bool {
	return v.Phase < phaseFinal
}

// Compare returns -1, 0 or 1 ordering a against b.
func (v Version) Compare(other Version) int {
	if v.Epoch != other.Epoch {
		return cmpInt(v.Epoch, other.Epoch)
	}
	if c := cmpRelease(v.Release, other.Release); c != 0 {
		return c
	}
	if v.Phase != other.Phase {
		return cmpInt(int(v.Phase), int(other.Phase))
	}
	return cmpInt(v.PhaseNum, other.PhaseNum)
}

func (v Version) String() string {
	parts := make([]string, len(v.Release))
	for i, r := range v.Release {
		parts[i] = strconv.Itoa(r)
	}
	s := strings.Join(parts, ".")
	if v.Epoch > 0 {
		s = fmt.Sprintf("%d!%s", v.Epoch, s)
	}
	switch v.Phase {
	case phaseDev:
		s += fmt.Sprintf(".dev%d", v.PhaseNum)
	case phaseAlpha:
		s += fmt.Sprintf("a%d", v.PhaseNum)
	case phaseBeta:
		s += fmt.Sprintf("b%d", v.PhaseNum)
	case phaseRC:
		s += fmt.Sprintf("rc%d", v.PhaseNum)
	case phasePost:
		s += fmt.Sprintf(".post%d", v.PhaseNum)
	case phaseFinal:
	}
	return s
}

// Satisfies reports whether the version matches all given specifiers.
func (v Version) Satisfies(specs []Specifier) bool {
	for _, spec := range specs {
		if !v.satisfies(spec) {
			return false
		}
	}
	return true
}

func (v Version) satisfies(spec Specifier) bool {
	// Wildcard equality matches on the release prefix.
	if prefix, ok := strings.CutSuffix(spec.Version, ".*"); ok {
		switch spec.Op {
		case "==":
			return v.hasReleasePrefix(prefix)
		case "!=":
			return !v.hasReleasePrefix(prefix)
		}
		return false
	}

	other, err := ParseVersion(spec.Version)
	if err != nil {
		return false
	}

	switch spec.Op {
	case "==", "===":
		return v.Compare(other) == 0
	case "!=":
		return v.Compare(other) != 0
	case ">=":
		return v.Compare(other) >= 0
	case "<=":
		return v.Compare(other) <= 0
	case ">":
		return v.Compare(other) > 0
	case "<":
		return v.Compare(other) < 0
	case "~=":
		// Compatible release: >= V and == V with the last release
		// segment replaced by a wildcard.
		if v.Compare(other) < 0 {
			return false
		}
		if len(other.Release) < 2 {
			return false
		}
		return releasePrefixEqual(v.Release, other.Release[:len(other.Release)-1])
	}
	return false
}

func (v Version) hasReleasePrefix(prefix string) bool {
	p, err := ParseVersion(prefix)
	if err != nil || p.Phase != phaseFinal {
		return false
	}
	return releasePrefixEqual(v.Release, p.Release)
}

func releasePrefixEqual(release, prefix []int) bool {
	for i, n := range prefix {
		r := 0
		if i < len(release) {
			r = release[i]
		}
		if r != n {
			return false
		}
	}
	return true
}

func cmpRelease(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			return cmpInt(x, y)
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
