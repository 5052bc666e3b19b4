package kickstartcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bakery.run/internal/kickstart"
)

type Kickstarter interface {
	KickStart(ctx context.Context, name string, opts ...kickstart.KickStartOption) (msg string, err error)
}

func NewCmd(kickstarter Kickstarter) *cobra.Command {
	const (
		cmdUse   = "kickstart project_name"
		cmdShort = "scaffold a new project with the given name"
		cmdLong  = "scaffolds a new project directory containing a build manifest, " +
			"a requirements stub and a minimal web server entrypoint."
	)

	cmd := &cobra.Command{
		Args:  cobra.ExactArgs(1),
		Use:   cmdUse,
		Short: cmdShort,
		Long:  cmdLong,
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		kickStartOptions := []kickstart.KickStartOption{}
		if opts.BaseImage != "" {
			kickStartOptions = append(kickStartOptions, kickstart.WithBaseImage(opts.BaseImage))
		}
		if opts.Timezone != "" {
			kickStartOptions = append(kickStartOptions, kickstart.WithTimezone(opts.Timezone))
		}

		msg, err := kickstarter.KickStart(cmd.Context(), args[0], kickStartOptions...)
		if err != nil {
			return fmt.Errorf("kickstarting project: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), msg)
		return err
	}

	return cmd
}

type options struct {
	BaseImage string
	Timezone  string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.BaseImage,
		"base-image",
		o.BaseImage,
		"Base image reference the scaffolded manifest builds on.",
	)
	flags.StringVar(
		&o.Timezone,
		"timezone",
		o.Timezone,
		"IANA zone name configured in the scaffolded manifest.",
	)
}
