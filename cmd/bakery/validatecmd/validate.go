package validatecmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	internalcmd "bakery.run/internal/cmd"
)

type Validator interface {
	ValidateSource(ctx context.Context, opts ...internalcmd.ValidateSourceOption) error
}

func NewCmd(validator Validator) *cobra.Command {
	const (
		validateUse   = "validate [--pull] target"
		validateShort = "validate a build context or a built image"
		validateLong  = "validate a build context. Target is a source directory, " +
			"or a fully qualified image reference if --pull is set."
	)

	cmd := &cobra.Command{
		Use:   validateUse,
		Short: validateShort,
		Long:  validateLong,
		Args:  cobra.ExactArgs(1),
	}

	var opts options

	opts.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		target := args[0]
		if target == "" {
			return fmt.Errorf("%w: 'target' must not be empty", internalcmd.ErrInvalidArgs)
		}

		validateOptions := []internalcmd.ValidateSourceOption{
			internalcmd.WithInsecure(opts.Insecure),
		}

		if opts.Pull {
			validateOptions = append(validateOptions, internalcmd.WithRemoteReference(target))
		} else {
			validateOptions = append(validateOptions, internalcmd.WithPath(target))
		}

		if opts.PullSecretPath != "" {
			secret, err := os.ReadFile(opts.PullSecretPath)
			if err != nil {
				return fmt.Errorf("reading pull secret: %w", err)
			}
			validateOptions = append(validateOptions, internalcmd.WithPullSecret(secret))
		}

		if err := validator.ValidateSource(cmd.Context(), validateOptions...); err != nil {
			return fmt.Errorf("validating: %w", err)
		}

		return nil
	}

	return cmd
}

type options struct {
	Insecure       bool
	Pull           bool
	PullSecretPath string
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(
		&o.Insecure,
		"insecure",
		o.Insecure,
		"Allows pulling images without TLS or using TLS with unverified certificates.",
	)
	flags.BoolVar(
		&o.Pull,
		"pull",
		o.Pull,
		"Treat target as an image reference and pull it instead of looking on the filesystem.",
	)
	flags.StringVar(
		&o.PullSecretPath,
		"pull-secret",
		o.PullSecretPath,
		"Path to a docker config JSON file used to authenticate the image pull.",
	)
}
