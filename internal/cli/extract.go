package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dgallion1/brailledoc/internal/ocr"
	"github.com/dgallion1/brailledoc/internal/parser"
	"github.com/dgallion1/brailledoc/internal/pipeline"
)

var extractIn, extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract plain text from every file in the raw directory",
	Long: `Extracts the text of every supported file in the input directory and writes
it to <name>.txt in the output directory. Files whose extraction fails get an
empty .txt file; unsupported files are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rep, err := runExtract(cmd.Context(), or(extractIn, cfg.RawDir), or(extractOut, cfg.ProcessedDir))
		if err != nil {
			return err
		}
		cmd.Printf("extract %s: %d extracted, %d empty, %d failed, %d skipped\n", rep.ID,
			rep.Count(pipeline.StatusExtracted), rep.Count(pipeline.StatusEmpty),
			rep.Count(pipeline.StatusFailed), rep.Count(pipeline.StatusSkipped))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractIn, "in", "", "input directory (default RAW_DIR)")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output directory (default PROCESSED_DIR)")
	rootCmd.AddCommand(extractCmd)
}

func newRegistry() *parser.Registry {
	opts := parser.Options{
		OCRLanguage:       cfg.OCRLanguage,
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
	}
	if ocr.Available() {
		opts.OCR = ocr.NewTesseract()
	} else {
		logger.Debug("OCR unavailable in this build; image files will extract as empty")
	}
	return parser.NewDefault(opts)
}

func newExtractor(stats *pipeline.LatencyStats) *pipeline.Extractor {
	return pipeline.NewExtractor(newRegistry(), logger, pipeline.Options{
		Workers:      cfg.Workers,
		Timeout:      cfg.ExtractTimeout.Std(),
		MaxFileBytes: cfg.MaxFileBytes,
		Stats:        stats,
	})
}

func runExtract(ctx context.Context, in, out string) (*pipeline.Report, error) {
	rep, err := newExtractor(nil).ExtractDir(ctx, in, out)
	recordReport(ctx, rep)
	return rep, err
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
