package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/brailledoc/internal/braille"
	"github.com/dgallion1/brailledoc/internal/config"
	"github.com/dgallion1/brailledoc/internal/pipeline"
)

var translateIn, translateOut string

// openTranslator loads the braille engine. Tests swap it for a fake engine.
var openTranslator = func(c config.Config, log *slog.Logger) (*braille.Translator, error) {
	if err := c.ValidateTranslation(); err != nil {
		return nil, err
	}
	return braille.Open(c.BrailleConfig(), log)
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Transliterate structured records to Unicode braille",
	Long: `Reads the structured data file and writes one braille record per entry.
The liblouis library and table are checked before any entry is read; entries
that cannot be translated are dropped and logged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tr, err := openTranslator(cfg, logger)
		if err != nil {
			return err
		}
		defer tr.Close()

		rep, err := runTranslate(cmd.Context(), tr, or(translateIn, cfg.StructuredFile()), or(translateOut, cfg.BrailleFile()))
		if err != nil {
			return err
		}
		cmd.Printf("translate %s: %d translated, %d dropped\n", rep.ID,
			rep.Count(pipeline.StatusTranslated), rep.Count(pipeline.StatusDropped))
		return nil
	},
}

func init() {
	translateCmd.Flags().StringVar(&translateIn, "in", "", "structured data file (default OUTPUT_DIR/structured_data.json)")
	translateCmd.Flags().StringVar(&translateOut, "out", "", "braille output file (default OUTPUT_DIR/braille_output.json)")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(ctx context.Context, tr pipeline.Translator, in, out string) (*pipeline.Report, error) {
	rep, err := pipeline.TranslateFile(in, out, tr, logger)
	recordReport(ctx, rep)
	return rep, err
}
