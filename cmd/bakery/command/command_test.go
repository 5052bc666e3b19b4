package command

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (code int, stdout, stderr *bytes.Buffer) {
	t.Helper()

	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	code = Run(context.Background(), &bytes.Buffer{}, stdout, stderr, args)

	return code, stdout, stderr
}

func TestRun_version(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := runCmd(t, "version", "--embedded")
	require.Equal(t, ReturnCodeSuccess, code)
	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), runtime.Version())
}

func TestRun_unknownCommand(t *testing.T) {
	t.Parallel()

	code, _, _ := runCmd(t, "frobnicate")
	require.Equal(t, ReturnCodeError, code)
}

func TestRun_help(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCmd(t, "--help")
	require.Equal(t, ReturnCodeSuccess, code)

	for _, sub := range []string{"build", "lock", "validate", "plan", "kickstart", "version"} {
		assert.Contains(t, stdout.String(), sub)
	}
}
