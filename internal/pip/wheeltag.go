package pip

import (
	"fmt"
	"strings"
)

// WheelTags are the platform compatibility tags parsed from a wheel
// filename per PEP 427: name-version(-build)?-python-abi-platform.whl.
type WheelTags struct {
	Python   []string
	ABI      []string
	Platform []string
}

// ParseWheelFilename extracts the compatibility tags of a wheel.
func ParseWheelFilename(filename string) (WheelTags, error) {
	stem, ok := strings.CutSuffix(filename, ".whl")
	if !ok {
		return WheelTags{}, fmt.Errorf("not a wheel filename: %q", filename)
	}

	parts := strings.Split(stem, "-")
	if len(parts) < 5 {
		return WheelTags{}, fmt.Errorf("malformed wheel filename: %q", filename)
	}

	return WheelTags{
		Python:   strings.Split(parts[len(parts)-3], "."),
		ABI:      strings.Split(parts[len(parts)-2], "."),
		Platform: strings.Split(parts[len(parts)-1], "."),
	}, nil
}

// Pure reports whether the wheel runs on any platform and interpreter ABI.
func (t WheelTags) Pure() bool {
	return contains(t.ABI, "none") && contains(t.Platform, "any")
}

// CompatibleWith reports whether the wheel runs on a linux/amd64 CPython
// of the given "major.minor" version. Images are assembled for
// linux/amd64, matching the base image contract.
func (t WheelTags) CompatibleWith(pythonVersion string) bool {
	parts := strings.SplitN(pythonVersion, ".", 2)
	if len(parts) != 2 {
		return false
	}
	major, minor := parts[0], parts[1]
	cpTag := "cp" + major + minor
	abi3 := contains(t.ABI, "abi3")

	pythonOK := false
	for _, tag := range t.Python {
		switch {
		case tag == "py"+major, tag == "py"+major+minor, tag == cpTag:
			pythonOK = true
		case abi3 && strings.HasPrefix(tag, "cp"):
			// Stable-ABI wheels built for an older CPython stay usable.
			if tagMajor, tagMinor, ok := splitCPTag(tag); ok &&
				tagMajor == major && atoi(tagMinor) <= atoi(minor) {
				pythonOK = true
			}
		}
		if pythonOK {
			break
		}
	}
	if !pythonOK {
		return false
	}

	abiOK := false
	for _, tag := range t.ABI {
		if tag == "none" || tag == "abi3" || tag == cpTag {
			abiOK = true
			break
		}
	}
	if !abiOK {
		return false
	}

	for _, tag := range t.Platform {
		if tag == "any" || tag == "linux_x86_64" ||
			(strings.HasPrefix(tag, "manylinux") && strings.HasSuffix(tag, "x86_64")) {
			return true
		}
	}
	return false
}

// splitCPTag splits a CPython tag like "cp310" into major "3" and minor "10".
func splitCPTag(tag string) (major, minor string, ok bool) {
	digits := strings.TrimPrefix(tag, "cp")
	if len(digits) < 2 {
		return "", "", false
	}
	return digits[:1], digits[1:], true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func contains(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
