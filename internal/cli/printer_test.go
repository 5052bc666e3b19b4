package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery.run/internal/cmd"
)

func TestPrinter_streams(t *testing.T) {
	t.Parallel()

	var out, errOut strings.Builder
	printer := NewPrinter(WithOut{Out: &out}, WithErr{Err: &errOut})

	require.NoError(t, printer.PrintfOut("resolved %d distributions\n", 3))
	require.NoError(t, printer.PrintfErr("warning: %s\n", "lock file missing"))

	assert.Equal(t, "resolved 3 distributions\n", out.String())
	assert.Equal(t, "warning: lock file missing\n", errOut.String())
}

func TestPrinter_PrintTable(t *testing.T) {
	t.Parallel()

	table := cmd.NewDefaultTable(cmd.WithHeaders{"Name", "Version"})
	table.AddRow(
		cmd.Field{Name: "Name", Value: "flask"},
		cmd.Field{Name: "Version", Value: "2.2.2"},
	)

	var out strings.Builder
	printer := NewPrinter(WithOut{Out: &out})

	require.NoError(t, printer.PrintTable(table))

	assert.Contains(t, out.String(), "Name")
	assert.Contains(t, out.String(), "flask")
	assert.Contains(t, out.String(), "2.2.2")
}
