package cli

import (
	"fmt"

	"github.com/rsxdalv/srt-tools/internal/batch"
	"github.com/spf13/cobra"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [srt_file...]",
		Short: "Convert SRT files into JSON segment files",
		Long: `Parse each SRT file and write its segments to <output>/<name>.json.

Files are processed one at a time in the order given. Paths without the
.srt extension are ignored. When no output directory is given, the
configured output.dir is used, then output.default_dir.

The summary is printed as a table on a terminal and as JSON otherwise.

Examples:
  srt-tools parse episode01.srt episode02.srt
  srt-tools parse subs/*.srt -o ./segments
  srt-tools parse movie.srt --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, ctx, args)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output directory for JSON files")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

func runParse(cmd *cobra.Command, ctx *commandContext, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output")
	asJSON, _ := cmd.Flags().GetBool("json")

	opts := ctx.config.BatchOptions(outputDir)
	processor := batch.NewProcessor(opts, ctx.logger)

	summary, err := processor.Process(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON || !isTerminal(out) {
		return writeJSON(out, summary)
	}

	fmt.Fprintln(out, renderSummary(summary))
	return nil
}
