package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/rsxdalv/srt-tools/internal/batch"
)

// encodes v as indented JSON without HTML escaping
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderSummary(summary *batch.Summary) string {
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"File", "Segments", "Result"})

	for _, f := range summary.Files {
		result := f.OutputJSON
		if f.Failed() {
			result = "error: " + f.Error
		}
		tw.AppendRow(table.Row{f.File, strconv.Itoa(f.Segments), result})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d files", summary.FileCount),
		strconv.Itoa(summary.TotalSegments),
		summary.OutputDir,
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}
