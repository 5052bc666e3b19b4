package bakeexport

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// filesToTar writes the file map as a deterministic tar: paths sorted,
// fixed modes, zeroed ownership and timestamps. prefix roots every entry,
// e.g. "app" or "usr/local/lib/python3.10/site-packages".
func filesToTar(files map[string][]byte, prefix string) (tarBytes []byte, err error) {
	paths := maps.Keys(files)
	slices.Sort(paths)

	tarBuffer := &bytes.Buffer{}
	tarWriter := tar.NewWriter(tarBuffer)
	defer func() {
		if cErr := tarWriter.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	for _, p := range paths {
		data := files[p]
		hdr := &tar.Header{
			Name: path.Join(prefix, p),
			Mode: 0o644,
			Size: int64(len(data)),
		}
		if err := tarWriter.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("write tar header: %w", err)
		}
		if _, err := tarWriter.Write(data); err != nil {
			return nil, fmt.Errorf("write tar body: %w", err)
		}
	}

	return tarBuffer.Bytes(), nil
}

func layerFromTar(tarData []byte) (v1.Layer, error) {
	opener := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(tarData)), nil
	}

	layer, err := tarball.LayerFromOpener(opener, tarball.WithCompressedCaching)
	if err != nil {
		return nil, fmt.Errorf("create layer from tar: %w", err)
	}
	return layer, nil
}

// stripRoot turns an absolute image path into the slash-relative form
// used inside layer tars.
func stripRoot(p string) string {
	return strings.TrimPrefix(path.Clean(p), "/")
}
