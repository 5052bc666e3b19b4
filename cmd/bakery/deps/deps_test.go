package deps

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery.run/cmd/bakery/rootcmd"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	streams := rootcmd.IOStreams{
		In:     &bytes.Buffer{},
		Out:    &bytes.Buffer{},
		ErrOut: &bytes.Buffer{},
	}

	container, err := Build(streams, []string{})
	require.NoError(t, err)

	err = container.Invoke(func(root *cobra.Command) {
		assert.Equal(t, "bakery", root.Name())
		assert.Len(t, root.Commands(), 6)
	})
	require.NoError(t, err)
}
