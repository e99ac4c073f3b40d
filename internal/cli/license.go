package cli

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
)

//go:embed license.txt
var licenseText string

func newLicenseCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "license",
		Short:       "Print license information",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), licenseText)
		},
	}
}
