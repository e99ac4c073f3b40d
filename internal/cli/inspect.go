package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rsxdalv/srt-tools/internal/subtitle"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the segments of one SRT or segment JSON file",
		Long: `Print the segments of a file as JSON without writing anything.

An .srt file is parsed exactly as the parse command would; a .json file
previously written by parse is loaded and printed back.

Examples:
  srt-tools inspect episode01.srt
  srt-tools inspect processed_srt/episode01.json`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	var (
		segments []subtitle.Segment
		err      error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		segments, err = subtitle.ReadJSON(path)
	} else {
		segments, err = subtitle.ParseFile(path)
	}
	if err != nil {
		return err
	}

	data, err := subtitle.EncodeJSON(segments)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("failed to print segments: %w", err)
	}
	return nil
}
