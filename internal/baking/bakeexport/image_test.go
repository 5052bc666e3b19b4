package bakeexport_test

import (
	"archive/tar"
	"errors"
	"io"
	"strings"
	"testing"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manifests "bakery.run/apis/manifests/v1alpha1"
	"bakery.run/internal/baking/bakecontext"
	"bakery.run/internal/baking/bakeexport"
	"bakery.run/internal/baking/bakemanifest"
)

func testSource() *bakemanifest.Source {
	manifest := &manifests.BuildManifest{
		TypeMeta: manifests.TypeMeta{
			Kind:       manifests.BuildManifestKind,
			APIVersion: manifests.GroupVersion,
		},
		ObjectMeta: manifests.ObjectMeta{Name: "incentives-bot"},
		Spec: manifests.BuildManifestSpec{
			Base: manifests.BaseSpec{Image: "example.com/base:3.10"},
			Runtime: manifests.RuntimeSpec{
				Timezone: "Asia/Kolkata",
				Env:      []manifests.EnvVar{{Name: "PORT", Value: "8000"}},
			},
		},
	}
	manifest.Default()

	return &bakemanifest.Source{
		Manifest: manifest,
		Lock: &manifests.BuildManifestLock{
			Spec: manifests.BuildManifestLockSpec{
				Base: manifests.LockedBase{
					Image:  "example.com/base:3.10",
					Digest: "sha256:0b01",
				},
			},
		},
		Files: bakecontext.Files{
			"server.py":        []byte("from bot import app\n"),
			"bot/__init__.py":  []byte(""),
			"requirements.txt": []byte("flask==2.2.5\n"),
		},
	}
}

type imageEntry struct {
	typeflag byte
	linkname string
	data     []byte
}

func extractEntries(t *testing.T, image v1.Image) map[string]imageEntry {
	t.Helper()

	entries := map[string]imageEntry{}
	reader := mutate.Extract(image)
	defer reader.Close()

	tarReader := tar.NewReader(reader)
	for {
		hdr, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(tarReader)
		require.NoError(t, err)
		entries[hdr.Name] = imageEntry{
			typeflag: hdr.Typeflag,
			linkname: hdr.Linkname,
			data:     data,
		}
	}
	return entries
}

func TestImage(t *testing.T) {
	t.Parallel()

	src := testSource()
	sitePackages := map[string][]byte{
		"flask/__init__.py": []byte("import werkzeug"),
	}

	image, err := bakeexport.Image(empty.Image, src, sitePackages)
	require.NoError(t, err)

	entries := extractEntries(t, image)

	assert.Equal(t, []byte("from bot import app\n"), entries["app/server.py"].data)
	assert.Contains(t, entries, "app/requirements.txt")
	assert.Contains(t, entries,
		"usr/local/lib/python3.10/site-packages/flask/__init__.py")

	localtime := entries["etc/localtime"]
	assert.EqualValues(t, tar.TypeSymlink, localtime.typeflag)
	assert.Equal(t, "/usr/share/zoneinfo/Asia/Kolkata", localtime.linkname)
	assert.Equal(t, []byte("Asia/Kolkata\n"), entries["etc/timezone"].data)

	configFile, err := image.ConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/app", configFile.Config.WorkingDir)
	assert.Equal(t, []string{"python3", "server.py"}, configFile.Config.Entrypoint)
	assert.Empty(t, configFile.Config.Cmd)
	assert.Contains(t, configFile.Config.Env, "TZ=Asia/Kolkata")
	assert.Contains(t, configFile.Config.Env, "PORT=8000")

	imageManifest, err := image.Manifest()
	require.NoError(t, err)
	assert.Contains(t, imageManifest.Annotations[bakeexport.ManifestAnnotation], "incentives-bot")
	assert.Equal(t, "sha256:0b01", imageManifest.Annotations[bakeexport.BaseDigestAnnotation])
}

func TestImage_envOverridesBase(t *testing.T) {
	t.Parallel()

	base, err := mutate.Config(empty.Image, v1.Config{
		Env: []string{"TZ=UTC", "PORT=80", "PATH=/usr/local/bin:/usr/bin"},
	})
	require.NoError(t, err)

	image, err := bakeexport.Image(base, testSource(), nil)
	require.NoError(t, err)

	configFile, err := image.ConfigFile()
	require.NoError(t, err)

	var tz, port []string
	for _, entry := range configFile.Config.Env {
		switch {
		case strings.HasPrefix(entry, "TZ="):
			tz = append(tz, entry)
		case strings.HasPrefix(entry, "PORT="):
			port = append(port, entry)
		}
	}
	assert.Equal(t, []string{"TZ=Asia/Kolkata"}, tz)
	assert.Equal(t, []string{"PORT=8000"}, port)
	assert.Contains(t, configFile.Config.Env, "PATH=/usr/local/bin:/usr/bin")
}

func TestImage_deterministic(t *testing.T) {
	t.Parallel()

	first, err := bakeexport.Image(empty.Image, testSource(), nil)
	require.NoError(t, err)
	second, err := bakeexport.Image(empty.Image, testSource(), nil)
	require.NoError(t, err)

	firstDigest, err := first.Digest()
	require.NoError(t, err)
	secondDigest, err := second.Digest()
	require.NoError(t, err)

	assert.Equal(t, firstDigest, secondDigest)
}

func TestImage_skipsEmptySitePackagesLayer(t *testing.T) {
	t.Parallel()

	image, err := bakeexport.Image(empty.Image, testSource(), nil)
	require.NoError(t, err)

	layers, err := image.Layers()
	require.NoError(t, err)
	// source + timezone only
	assert.Len(t, layers, 2)
}
