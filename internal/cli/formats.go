package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported file extensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := newRegistry()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "EXTENSION\tFORMAT")
		for _, ext := range reg.Extensions() {
			fmt.Fprintf(tw, "%s\t%s\n", ext, reg.FormatFor(ext))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
