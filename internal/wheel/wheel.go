// Package wheel unpacks python wheel archives (PEP 427) into the file
// layout expected under a site-packages directory.
package wheel

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotAWheel is reported for archives that are not readable as a wheel.
var ErrNotAWheel = errors.New("not a wheel archive")

// Extract unpacks a wheel into site-packages relative paths.
//
// Regular entries map straight through. Entries under the `*.data/`
// tree are remapped: purelib and platlib land at the site-packages
// root, everything else (scripts, headers, data) is dropped since no
// installer runs inside the image.
func Extract(data []byte) (map[string][]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAWheel, err)
	}

	files := map[string][]byte{}
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		target, keep := targetPath(entry.Name)
		if !keep {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		closeErr := rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("close %s: %w", entry.Name, closeErr)
		}

		files[target] = content
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: empty archive", ErrNotAWheel)
	}

	return files, nil
}

func targetPath(name string) (string, bool) {
	name = path.Clean(name)
	if name == "." || path.IsAbs(name) || strings.HasPrefix(name, "..") {
		return "", false
	}

	segments := strings.SplitN(name, "/", 3)
	if !strings.HasSuffix(segments[0], ".data") || len(segments) < 3 {
		return name, true
	}

	switch segments[1] {
	case "purelib", "platlib":
		return segments[2], true
	default:
		return "", false
	}
}
