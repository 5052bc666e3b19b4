package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlan_RenderPlan(t *testing.T) {
	t.Parallel()

	mLoader := &sourceLoaderMock{}
	mLoader.
		On("LoadSource", mock.Anything, "src").
		Return(testLoaderSource(upToDateLock()), nil)

	plan := NewPlan(WithSourceLoader{Loader: mLoader})

	rendered, err := plan.RenderPlan(context.Background(), "src")
	require.NoError(t, err)

	// The manifest name heads the tree exactly once.
	assert.Contains(t, rendered, "BuildManifest incentives-bot")
	assert.Equal(t, 1, strings.Count(rendered, "incentives-bot"))

	assert.Contains(t, rendered, "base "+testBaseImage)
	assert.Contains(t, rendered, "pinned "+testBaseDigest)
	assert.Contains(t, rendered, "source layer /app")
	assert.Contains(t, rendered, "server.py")
	assert.Contains(t, rendered, "flask==2.2.2")
	assert.Contains(t, rendered, "timezone layer UTC")
	assert.Contains(t, rendered, "command python3 server.py")
}

func TestPlan_RenderPlan_unlocked(t *testing.T) {
	t.Parallel()

	mLoader := &sourceLoaderMock{}
	mLoader.
		On("LoadSource", mock.Anything, "src").
		Return(testLoaderSource(nil), nil)

	plan := NewPlan(WithSourceLoader{Loader: mLoader})

	rendered, err := plan.RenderPlan(context.Background(), "src")
	require.NoError(t, err)

	assert.Contains(t, rendered, "unpinned (no lock file)")
	assert.Contains(t, rendered, "unresolved requirements.txt (no lock file)")
}

func TestPlan_DistributionTable(t *testing.T) {
	t.Parallel()

	mLoader := &sourceLoaderMock{}
	mLoader.
		On("LoadSource", mock.Anything, "src").
		Return(testLoaderSource(upToDateLock()), nil)

	plan := NewPlan(WithSourceLoader{Loader: mLoader})

	table, err := plan.DistributionTable(context.Background(), "src",
		WithHeaders{"Name", "Version"})
	require.NoError(t, err)

	rows := table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []Field{
		{Name: "Name", Value: "flask"},
		{Name: "Version", Value: "2.2.2"},
	}, rows[0])
}

func TestPlan_DistributionTable_lockMissing(t *testing.T) {
	t.Parallel()

	mLoader := &sourceLoaderMock{}
	mLoader.
		On("LoadSource", mock.Anything, "src").
		Return(testLoaderSource(nil), nil)

	plan := NewPlan(WithSourceLoader{Loader: mLoader})

	_, err := plan.DistributionTable(context.Background(), "src")
	require.ErrorIs(t, err, ErrLockMissing)
}
