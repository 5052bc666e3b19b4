package pip

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Requirement is a single parsed line of a requirements manifest.
// Markers and extras are carried along verbatim but not evaluated.
type Requirement struct {
	// Name is the PEP 503 normalized project name.
	Name string
	// Extras requested for the distribution.
	Extras []string
	// Specifiers constrain the acceptable versions. Empty means any.
	Specifiers []Specifier
	// Marker is the raw environment marker, if any.
	Marker string
}

func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	for i, s := range r.Specifiers {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Specifier is a single version clause, e.g. ">=2.0".
type Specifier struct {
	Op      string
	Version string
}

func (s Specifier) String() string { return s.Op + s.Version }

var (
	// ErrUnsupportedLine flags requirements syntax outside the supported
	// subset, like pip options or direct URL references.
	ErrUnsupportedLine = errors.New("unsupported requirements syntax")

	nameRegex      = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	normalizeRegex = regexp.MustCompile(`[-_.]+`)
	specifierOps   = []string{"===", "==", "!=", "~=", ">=", "<=", ">", "<"}
)

// NormalizeName applies PEP 503 name normalization.
func NormalizeName(name string) string {
	return strings.ToLower(normalizeRegex.ReplaceAllString(name, "-"))
}

// ParseRequirements parses a requirements manifest. Comments, blank lines
// and backslash line continuations are handled; pip options and direct
// references are rejected.
func ParseRequirements(data []byte) ([]Requirement, error) {
	var (
		reqs    []Requirement
		pending string
		lineNo  int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNo++
		line := pending + scanner.Text()
		pending = ""

		if strings.HasSuffix(line, `\`) {
			pending = strings.TrimSuffix(line, `\`)
			continue
		}

		line = stripComment(line)
		if line == "" {
			continue
		}

		req, err := ParseRequirement(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if pending != "" {
		return nil, fmt.Errorf("line %d: %w: dangling line continuation", lineNo, ErrUnsupportedLine)
	}

	return reqs, nil
}

// ParseRequirement parses a single PEP 508 requirement from the supported
// subset: name, optional extras, optional specifier set, optional marker.
func ParseRequirement(line string) (Requirement, error) {
	var req Requirement

	line = strings.TrimSpace(line)
	if line == "" {
		return req, fmt.Errorf("%w: empty requirement", ErrUnsupportedLine)
	}
	if strings.HasPrefix(line, "-") {
		return req, fmt.Errorf("%w: pip options are not supported", ErrUnsupportedLine)
	}
	if strings.Contains(line, "@") {
		return req, fmt.Errorf("%w: direct references are not supported", ErrUnsupportedLine)
	}

	if idx := strings.Index(line, ";"); idx >= 0 {
		req.Marker = strings.TrimSpace(line[idx+1:])
		line = strings.TrimSpace(line[:idx])
	}

	rest := line
	nameEnd := strings.IndexAny(rest, "[(=!~<> ")
	if nameEnd < 0 {
		nameEnd = len(rest)
	}
	name := rest[:nameEnd]
	if !nameRegex.MatchString(name) {
		return req, fmt.Errorf("%w: invalid project name %q", ErrUnsupportedLine, name)
	}
	req.Name = NormalizeName(name)
	rest = strings.TrimSpace(rest[nameEnd:])

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return req, fmt.Errorf("%w: unterminated extras", ErrUnsupportedLine)
		}
		for _, extra := range strings.Split(rest[1:end], ",") {
			if extra = strings.TrimSpace(extra); extra != "" {
				req.Extras = append(req.Extras, NormalizeName(extra))
			}
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
	specs, err := parseSpecifiers(rest)
	if err != nil {
		return req, err
	}
	req.Specifiers = specs

	return req, nil
}

func parseSpecifiers(s string) ([]Specifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var specs []Specifier
	for _, clause := range strings.Split(s, ",") {
		clause = strings.TrimSpace(clause)
		op := matchOp(clause)
		if op == "" {
			return nil, fmt.Errorf("%w: invalid version clause %q", ErrUnsupportedLine, clause)
		}
		version := strings.TrimSpace(clause[len(op):])
		if version == "" {
			return nil, fmt.Errorf("%w: missing version in clause %q", ErrUnsupportedLine, clause)
		}
		specs = append(specs, Specifier{Op: op, Version: version})
	}
	return specs, nil
}

func matchOp(clause string) string {
	for _, op := range specifierOps {
		if strings.HasPrefix(clause, op) {
			return op
		}
	}
	return ""
}

func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		if idx == 0 || line[idx-1] == ' ' || line[idx-1] == '\t' {
			line = line[:idx]
		}
	}
	return strings.TrimSpace(line)
}
