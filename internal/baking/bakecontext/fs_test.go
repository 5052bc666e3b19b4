package bakecontext_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery.run/internal/baking/bakecontext"
)

func TestFS(t *testing.T) {
	t.Parallel()
	ctx := logr.NewContext(context.Background(), testr.New(t))

	ignoredEntries := bakecontext.Files{
		".git/HEAD":                  {1, 2},
		".git/objects/ab/cdef":       {3, 4},
		"bot/__pycache__/mod.pyc":    {5, 6},
		"bot/handlers/cached.pyc":    {7, 8},
		".bakery-cache/wheels/x.whl": {9, 10},
	}
	keptEntries := bakecontext.Files{
		"bakefile.yaml":                  {11, 12},
		"requirements.txt":               {13, 14},
		"server.py":                      {15, 16},
		"bot/handlers/event_handlers.py": {17, 18},
	}

	memFS := fstest.MapFS{}
	for k, v := range keptEntries {
		memFS[k] = &fstest.MapFile{Data: v}
	}
	for k, v := range ignoredEntries {
		memFS[k] = &fstest.MapFile{Data: v}
	}

	files, err := bakecontext.FS(ctx, memFS, bakecontext.WithIgnore{
		".git", "**/__pycache__", "*.pyc", ".bakery-cache",
	})
	require.NoError(t, err)
	assert.Equal(t, keptEntries, files)
}

func TestFS_includeVCS(t *testing.T) {
	t.Parallel()
	ctx := logr.NewContext(context.Background(), testr.New(t))

	memFS := fstest.MapFS{
		".git/HEAD": &fstest.MapFile{Data: []byte("ref: refs/heads/main")},
		"server.py": &fstest.MapFile{Data: []byte("print()")},
	}

	files, err := bakecontext.FS(ctx, memFS)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, ".git/HEAD")
}

func TestFS_invalidPattern(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := bakecontext.FS(ctx, fstest.MapFS{}, bakecontext.WithIgnore{"[["})
	require.Error(t, err)
}
