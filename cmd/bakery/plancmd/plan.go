package plancmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bakery.run/internal/cli"
	internalcmd "bakery.run/internal/cmd"
)

type Planner interface {
	RenderPlan(ctx context.Context, srcPath string) (string, error)
	DistributionTable(ctx context.Context, srcPath string, opts ...internalcmd.TableOption) (internalcmd.Table, error)
}

func NewCmd(planner Planner, printer *cli.Printer) *cobra.Command {
	const (
		planUse   = "plan source_path"
		planShort = "show the layers a build of the given context would produce"
		planLong  = "renders the base image, source files, locked distributions and runtime " +
			"configuration a build would assemble, without pulling or building anything."
	)

	cmd := &cobra.Command{
		Use:   planUse,
		Short: planShort,
		Long:  planLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		srcPath := args[0]
		if srcPath == "" {
			return fmt.Errorf("%w: source path empty", internalcmd.ErrInvalidArgs)
		}

		if opts.Distributions {
			table, err := planner.DistributionTable(cmd.Context(), srcPath,
				internalcmd.WithHeaders{"Name", "Version", "Filename", "SHA256"})
			if err != nil {
				return err
			}

			return printer.PrintTable(table)
		}

		rendered, err := planner.RenderPlan(cmd.Context(), srcPath)
		if err != nil {
			return err
		}

		return printer.PrintfOut("%s", rendered)
	}

	return cmd
}

type options struct {
	Distributions bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.Distributions,
		"distributions",
		o.Distributions,
		"Print the locked distribution set as a table instead of the layer tree.",
	)
}
