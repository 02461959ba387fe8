package cli

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/brailledoc/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run extract, structure and translate in sequence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Fail on a missing engine before spending time on extraction.
		tr, err := openTranslator(cfg, logger)
		if err != nil {
			return err
		}
		defer tr.Close()

		ctx := cmd.Context()
		ext, err := runExtract(ctx, cfg.RawDir, cfg.ProcessedDir)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		st, err := runStructure(ctx, cfg.ProcessedDir, cfg.StructuredFile())
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		tl, err := runTranslate(ctx, tr, cfg.StructuredFile(), cfg.BrailleFile())
		if err != nil {
			return err
		}

		cmd.Printf("extract %s: %d extracted, %d empty, %d failed, %d skipped\n", ext.ID,
			ext.Count(pipeline.StatusExtracted), ext.Count(pipeline.StatusEmpty),
			ext.Count(pipeline.StatusFailed), ext.Count(pipeline.StatusSkipped))
		cmd.Printf("structure %s: %d records\n", st.ID, st.Count(pipeline.StatusStructured))
		cmd.Printf("translate %s: %d translated, %d dropped\n", tl.ID,
			tl.Count(pipeline.StatusTranslated), tl.Count(pipeline.StatusDropped))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
