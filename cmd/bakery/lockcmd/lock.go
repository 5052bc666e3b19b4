package lockcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bakery.run/internal/baking/bakemanifest"
	"bakery.run/internal/cli"
	internalcmd "bakery.run/internal/cmd"
)

type Locker interface {
	GenerateLockData(ctx context.Context, srcPath string, opts ...internalcmd.GenerateLockDataOption) ([]byte, error)
}

func NewCmd(locker Locker, printer *cli.Printer) *cobra.Command {
	const (
		lockUse   = "lock source_path"
		lockShort = "pin the base image digest and python distributions of a build context"
		lockLong  = "resolves the base image digest and every requirement against the package index, " +
			"storing the result in " + bakemanifest.LockFileName + " next to the build manifest."
	)

	cmd := &cobra.Command{
		Use:   lockUse,
		Short: lockShort,
		Long:  lockLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		srcPath := args[0]
		if srcPath == "" {
			return fmt.Errorf("%w: source path empty", internalcmd.ErrInvalidArgs)
		}

		data, err := locker.GenerateLockData(cmd.Context(), srcPath,
			internalcmd.WithInsecure(opts.Insecure))
		if errors.Is(err, internalcmd.ErrLockDataUnchanged) {
			return printer.PrintfOut("%s is up to date\n", bakemanifest.LockFileName)
		}
		if err != nil {
			return err
		}

		lockFilePath := filepath.Join(srcPath, bakemanifest.LockFileName)
		if err := os.WriteFile(lockFilePath, data, 0o644); err != nil {
			return fmt.Errorf("writing lock file: %w", err)
		}

		return printer.PrintfOut("%s written\n", lockFilePath)
	}

	return cmd
}

type options struct {
	Insecure bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.Insecure,
		"insecure",
		o.Insecure,
		"Allows resolving base image digests without TLS or using TLS with unverified certificates.",
	)
}
