package buildcmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	internalcmd "bakery.run/internal/cmd"
)

type builderMock struct {
	mock.Mock
}

func (m *builderMock) BuildFromSource(
	ctx context.Context, srcPath string, opts ...internalcmd.BuildFromSourceOption,
) error {
	args := m.Called(ctx, srcPath, opts)
	return args.Error(0)
}

func executeCmd(t *testing.T, builder Builder, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()

	cmd := NewCmd(builder)
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	return stdout, stderr, cmd.Execute()
}

func TestBuild(t *testing.T) {
	t.Parallel()

	mBuilder := &builderMock{}
	mBuilder.
		On("BuildFromSource", mock.Anything, "src", mock.Anything).
		Return(nil)

	_, stderr, err := executeCmd(t, mBuilder, "src")
	require.NoError(t, err)
	require.Empty(t, stderr.String())
	mBuilder.AssertExpectations(t)
}

func TestBuild_invalidArgs(t *testing.T) {
	t.Parallel()

	for name, args := range map[string][]string{
		"no args":           {},
		"push without tags": {"src", "--push"},
		"output without tags": {
			"src", "--output", "out.tar",
		},
		"invalid tag": {"src", "--tag", "UPPERCASE/not-allowed"},
	} {
		args := args
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, stderr, err := executeCmd(t, &builderMock{}, args...)
			require.Error(t, err)
			require.NotEmpty(t, stderr.String())
		})
	}
}
