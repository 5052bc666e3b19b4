package deps

import (
	"go.uber.org/dig"

	"bakery.run/cmd/bakery/rootcmd"
)

// Build assembles the dependency container the CLI is run from.
func Build(streams rootcmd.IOStreams, args []string) (*dig.Container, error) {
	container := dig.New()

	constructors := []any{
		func() rootcmd.IOStreams { return streams },
		func() []string { return args },
		rootcmd.ProvideRootCmd,
		ProvideLogFactory,
		ProvidePrinter,
		ProvideBuildCmd,
		ProvideBuilder,
		ProvideLockCmd,
		ProvideLocker,
		ProvideValidateCmd,
		ProvideValidator,
		ProvidePlanCmd,
		ProvidePlanner,
		ProvideKickstartCmd,
		ProvideKickstarter,
		ProvideVersionCmd,
	}

	for _, c := range constructors {
		if err := container.Provide(c); err != nil {
			return nil, err
		}
	}

	return container, nil
}
