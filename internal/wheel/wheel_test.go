package wheel_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery.run/internal/wheel"
)

func buildWheel(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	t.Parallel()

	data := buildWheel(t, map[string]string{
		"flask/__init__.py":                     "import werkzeug",
		"flask/app.py":                          "class Flask: ...",
		"flask-2.2.5.dist-info/METADATA":        "Name: Flask",
		"flask-2.2.5.dist-info/RECORD":          "flask/__init__.py,,",
		"flask-2.2.5.data/purelib/extra/mod.py": "x = 1",
		"flask-2.2.5.data/scripts/flask":        "#!python",
	})

	files, err := wheel.Extract(data)
	require.NoError(t, err)

	assert.Equal(t, map[string][]byte{
		"flask/__init__.py":              []byte("import werkzeug"),
		"flask/app.py":                   []byte("class Flask: ..."),
		"flask-2.2.5.dist-info/METADATA": []byte("Name: Flask"),
		"flask-2.2.5.dist-info/RECORD":   []byte("flask/__init__.py,,"),
		"extra/mod.py":                   []byte("x = 1"),
	}, files)
}

func TestExtract_notAZip(t *testing.T) {
	t.Parallel()

	_, err := wheel.Extract([]byte("definitely not a zip archive"))
	require.ErrorIs(t, err, wheel.ErrNotAWheel)
}

func TestExtract_pathTraversalDropped(t *testing.T) {
	t.Parallel()

	data := buildWheel(t, map[string]string{
		"../escape.py": "evil",
		"ok.py":        "fine",
	})

	files, err := wheel.Extract(data)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"ok.py": []byte("fine")}, files)
}
