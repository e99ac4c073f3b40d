package cli

import (
	"errors"
	"fmt"

	"github.com/rsxdalv/srt-tools/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		path      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration file",
		Long:        "Write the sample configuration to --path, or to ~/.config/srt-tools/config.toml.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.InitPath(path)
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			if err := config.CreateSample(target, overwrite); err != nil {
				if errors.Is(err, config.ErrExists) {
					return fmt.Errorf("%w (pass --overwrite to replace it)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Where to write the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.config.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
