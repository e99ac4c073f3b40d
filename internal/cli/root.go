package cli

import (
	"context"
	"strings"

	"github.com/rsxdalv/srt-tools/internal/config"
	"github.com/rsxdalv/srt-tools/internal/logging"
	"github.com/spf13/cobra"
)

const skipConfigAnnotation = "skipConfigLoad"

// state shared by all subcommands of one root command
type commandContext struct {
	verbose    bool
	configPath string

	config *config.Config
	logger *logging.Logger
}

func (c *commandContext) load() error {
	cfg, _, _, err := config.Load(strings.TrimSpace(c.configPath))
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: c.verbose,
	})
	if err != nil {
		return err
	}
	c.config = cfg
	c.logger = logger
	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{logger: logging.Nop()}

	rootCmd := &cobra.Command{
		Use:   "srt-tools",
		Short: "Convert SRT subtitles into JSON segments for TTS batching",
		Long: `srt-tools parses SRT subtitle files into timed text segments and
writes them as JSON, one file per input, ready for a speech-synthesis
batching pipeline.

Malformed blocks are skipped rather than failing the whole file, and a
file that cannot be read never stops the rest of the batch.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				ctx.logger = logging.NewLogger(ctx.verbose)
				return nil
			}
			return ctx.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = ctx.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newParseCommand(ctx))
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newLicenseCommand())

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}
