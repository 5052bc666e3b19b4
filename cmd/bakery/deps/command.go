package deps

import (
	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"bakery.run/cmd/bakery/buildcmd"
	"bakery.run/cmd/bakery/kickstartcmd"
	"bakery.run/cmd/bakery/lockcmd"
	"bakery.run/cmd/bakery/plancmd"
	"bakery.run/cmd/bakery/rootcmd"
	"bakery.run/cmd/bakery/validatecmd"
	"bakery.run/cmd/bakery/versioncmd"
	"bakery.run/internal/cli"
	internalcmd "bakery.run/internal/cmd"
	"bakery.run/internal/kickstart"
)

type RootSubCommandResult struct {
	dig.Out

	SubCommand *cobra.Command `group:"rootSubCommands"`
}

func ProvidePrinter(streams rootcmd.IOStreams) *cli.Printer {
	return cli.NewPrinter(
		cli.WithOut{Out: streams.Out},
		cli.WithErr{Err: streams.ErrOut},
	)
}

func ProvideBuildCmd(builder buildcmd.Builder) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: buildcmd.NewCmd(builder),
	}
}

func ProvideBuilder(f LogFactory) buildcmd.Builder {
	return internalcmd.NewBuild(
		internalcmd.WithLog{Log: f.Logger()},
	)
}

func ProvideLockCmd(locker lockcmd.Locker, printer *cli.Printer) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: lockcmd.NewCmd(locker, printer),
	}
}

func ProvideLocker(f LogFactory) lockcmd.Locker {
	return internalcmd.NewLock(
		internalcmd.WithLog{Log: f.Logger()},
	)
}

func ProvideValidateCmd(validator validatecmd.Validator) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: validatecmd.NewCmd(validator),
	}
}

func ProvideValidator(f LogFactory) validatecmd.Validator {
	return internalcmd.NewValidate(
		internalcmd.WithLog{Log: f.Logger()},
	)
}

func ProvidePlanCmd(planner plancmd.Planner, printer *cli.Printer) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: plancmd.NewCmd(planner, printer),
	}
}

func ProvidePlanner(f LogFactory) plancmd.Planner {
	return internalcmd.NewPlan(
		internalcmd.WithLog{Log: f.Logger()},
	)
}

func ProvideKickstartCmd(kickstarter kickstartcmd.Kickstarter) RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: kickstartcmd.NewCmd(kickstarter),
	}
}

func ProvideKickstarter(f LogFactory) kickstartcmd.Kickstarter {
	return kickstart.NewKickstarter(
		kickstart.WithLog{Log: f.Logger()},
	)
}

func ProvideVersionCmd() RootSubCommandResult {
	return RootSubCommandResult{
		SubCommand: versioncmd.NewCmd(),
	}
}
