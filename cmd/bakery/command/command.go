package command

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"bakery.run/cmd/bakery/deps"
	"bakery.run/cmd/bakery/rootcmd"
)

const (
	// ReturnCodeSuccess is passed to os.Exit() when no error is reported.
	ReturnCodeSuccess = 0
	// ReturnCodeError is passed to os.Exit() if a command reports an error.
	ReturnCodeError = 1
)

func Run(ctx context.Context, inReader io.Reader, outWriter, errWriter io.Writer, args []string) int {
	streams := rootcmd.IOStreams{
		In:     inReader,
		Out:    outWriter,
		ErrOut: errWriter,
	}

	container, err := deps.Build(streams, args)
	if err != nil {
		return ReturnCodeError
	}

	err = container.Invoke(func(root *cobra.Command) error {
		return root.ExecuteContext(ctx)
	})
	if err != nil {
		return ReturnCodeError
	}

	return ReturnCodeSuccess
}
