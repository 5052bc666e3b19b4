package pip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWheelFilename(t *testing.T) {
	t.Parallel()

	tags, err := ParseWheelFilename("flask-2.2.5-py3-none-any.whl")
	require.NoError(t, err)
	assert.Equal(t, []string{"py3"}, tags.Python)
	assert.Equal(t, []string{"none"}, tags.ABI)
	assert.Equal(t, []string{"any"}, tags.Platform)
	assert.True(t, tags.Pure())

	_, err = ParseWheelFilename("flask-2.2.5.tar.gz")
	require.Error(t, err)

	_, err = ParseWheelFilename("short-1.0.whl")
	require.Error(t, err)
}

func TestWheelTagsCompatibleWith(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     bool
	}{
		{"flask-2.2.5-py3-none-any.whl", true},
		{"six-1.16.0-py2.py3-none-any.whl", true},
		{"cryptography-41.0.4-cp37-abi3-manylinux_2_28_x86_64.whl", true},
		{"regex-2023.8.8-cp310-cp310-manylinux_2_17_x86_64.manylinux2014_x86_64.whl", true},
		{"regex-2023.8.8-cp311-cp311-manylinux_2_17_x86_64.manylinux2014_x86_64.whl", false},
		{"cryptography-41.0.4-cp37-abi3-macosx_10_12_universal2.whl", false},
		{"numpy-1.25.2-cp310-cp310-win_amd64.whl", false},
	}

	for _, test := range tests {
		tags, err := ParseWheelFilename(test.filename)
		require.NoError(t, err)
		assert.Equal(t, test.want, tags.CompatibleWith("3.10"), test.filename)
	}
}
