package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dgallion1/brailledoc/internal/pipeline"
)

var structureIn, structureOut string

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Build the structured JSON records from extracted text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rep, err := runStructure(cmd.Context(), or(structureIn, cfg.ProcessedDir), or(structureOut, cfg.StructuredFile()))
		if err != nil {
			return err
		}
		cmd.Printf("structure %s: %d records\n", rep.ID, rep.Count(pipeline.StatusStructured))
		return nil
	},
}

func init() {
	structureCmd.Flags().StringVar(&structureIn, "in", "", "directory of extracted text (default PROCESSED_DIR)")
	structureCmd.Flags().StringVar(&structureOut, "out", "", "structured data file (default OUTPUT_DIR/structured_data.json)")
	rootCmd.AddCommand(structureCmd)
}

func runStructure(ctx context.Context, in, out string) (*pipeline.Report, error) {
	rep, _, err := pipeline.StructureDir(in, out, logger)
	recordReport(ctx, rep)
	return rep, err
}
