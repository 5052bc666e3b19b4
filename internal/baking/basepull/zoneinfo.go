package basepull

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
)

// ErrZoneinfoMissing is reported when the base image does not ship the
// configured timezone's database entry.
var ErrZoneinfoMissing = errors.New("zoneinfo entry missing from base image")

// VerifyZoneinfo checks that the base image ships the zone database
// entry /etc/localtime will point at. Without this check a bad zone name
// only surfaces at container runtime.
func VerifyZoneinfo(base v1.Image, zone string) (err error) {
	want := strings.TrimPrefix(path.Join("usr/share/zoneinfo", zone), "/")

	reader := mutate.Extract(base)
	defer func() {
		if cErr := reader.Close(); err == nil && cErr != nil {
			err = cErr
		}
	}()

	tarReader := tar.NewReader(reader)
	for {
		hdr, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("scan base image for zoneinfo: %w", err)
		}

		if path.Clean(strings.TrimPrefix(hdr.Name, "/")) == want {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrZoneinfoMissing, want)
}
