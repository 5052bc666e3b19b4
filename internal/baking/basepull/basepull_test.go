package basepull

import (
	"context"
	"testing"

	"github.com/google/go-containerregistry/pkg/crane"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseWithFiles(t *testing.T, files map[string][]byte) v1.Image {
	t.Helper()

	layer, err := crane.Layer(files)
	require.NoError(t, err)
	image, err := mutate.AppendLayers(empty.Image, layer)
	require.NoError(t, err)
	return image
}

func TestPuller(t *testing.T) {
	t.Parallel()

	var (
		gotRef  string
		numOpts int
	)
	puller := &Puller{
		cranePull: func(src string, opts ...crane.Option) (v1.Image, error) {
			gotRef = src
			numOpts = len(opts)
			return empty.Image, nil
		},
	}

	_, err := puller.Pull(context.Background(),
		"example.com/base@sha256:0b01",
		WithInsecure(true),
		WithPullSecret(`{"auths": {"example.com": {"username": "u", "password": "p"}}}`),
	)
	require.NoError(t, err)
	assert.Equal(t, "example.com/base@sha256:0b01", gotRef)
	// context + auth + insecure
	assert.Equal(t, 3, numOpts)
}

func TestPuller_badPullSecret(t *testing.T) {
	t.Parallel()

	puller := NewPuller()
	_, err := puller.Pull(context.Background(), "example.com/base:latest",
		WithPullSecret("not json"))
	require.Error(t, err)
}

func TestVerifyZoneinfo(t *testing.T) {
	t.Parallel()

	base := baseWithFiles(t, map[string][]byte{
		"usr/share/zoneinfo/Asia/Kolkata": {0x54, 0x5a, 0x69, 0x66},
		"usr/share/zoneinfo/UTC":          {0x54, 0x5a, 0x69, 0x66},
	})

	require.NoError(t, VerifyZoneinfo(base, "Asia/Kolkata"))
	require.NoError(t, VerifyZoneinfo(base, "UTC"))

	err := VerifyZoneinfo(base, "Europe/Berlin")
	require.ErrorIs(t, err, ErrZoneinfoMissing)
}
