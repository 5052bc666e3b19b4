package bakeexport

import (
	"archive/tar"
	"bytes"
	"fmt"
	"path"

	v1 "github.com/google/go-containerregistry/pkg/v1"

	"bakery.run/internal/baking/bakecontext"
)

const zoneinfoDir = "/usr/share/zoneinfo"

// SourceLayer packs the build context files under the image working
// directory.
func SourceLayer(files bakecontext.Files, workDir string) (v1.Layer, error) {
	tarData, err := filesToTar(files, stripRoot(workDir))
	if err != nil {
		return nil, fmt.Errorf("pack source layer: %w", err)
	}
	return layerFromTar(tarData)
}

// SitePackagesLayer packs extracted distribution files under the
// site-packages target directory.
func SitePackagesLayer(files map[string][]byte, target string) (v1.Layer, error) {
	tarData, err := filesToTar(files, stripRoot(target))
	if err != nil {
		return nil, fmt.Errorf("pack site-packages layer: %w", err)
	}
	return layerFromTar(tarData)
}

// TimezoneLayer configures the system timezone: /etc/localtime points
// at the zoneinfo entry shipped by the base image, /etc/timezone names
// the zone for tools that read it directly.
func TimezoneLayer(zone string) (v1.Layer, error) {
	tarBuffer := &bytes.Buffer{}
	tarWriter := tar.NewWriter(tarBuffer)

	linkHdr := &tar.Header{
		Typeflag: tar.TypeSymlink,
		Name:     "etc/localtime",
		Linkname: path.Join(zoneinfoDir, zone),
		Mode:     0o777,
	}
	if err := tarWriter.WriteHeader(linkHdr); err != nil {
		return nil, fmt.Errorf("write localtime link: %w", err)
	}

	zoneName := []byte(zone + "\n")
	fileHdr := &tar.Header{
		Name: "etc/timezone",
		Mode: 0o644,
		Size: int64(len(zoneName)),
	}
	if err := tarWriter.WriteHeader(fileHdr); err != nil {
		return nil, fmt.Errorf("write timezone header: %w", err)
	}
	if _, err := tarWriter.Write(zoneName); err != nil {
		return nil, fmt.Errorf("write timezone body: %w", err)
	}

	if err := tarWriter.Close(); err != nil {
		return nil, err
	}
	return layerFromTar(tarBuffer.Bytes())
}

// ZoneinfoPath returns the image path of a zone's database entry.
func ZoneinfoPath(zone string) string {
	return path.Join(zoneinfoDir, zone)
}
