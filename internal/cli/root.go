// Package cli wires the pipeline stages into the brailledoc command.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/brailledoc/internal/config"
	"github.com/dgallion1/brailledoc/internal/ledger"
	"github.com/dgallion1/brailledoc/internal/pipeline"
)

var (
	version = "dev"

	cfgFile   string
	logFormat string
	verbose   bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "brailledoc",
	Short: "Turn documents into Unicode braille",
	Long: `brailledoc extracts plain text from documents and images, structures it
into JSON records and transliterates each record to Unicode braille with liblouis.

Stages can be run one at a time (extract, structure, translate) or together (run).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	logger = newLogger(cmd.OutOrStdout(), cfg.LogFormat, verbose)
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, format string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// recordReport stores rep in the run ledger when one is configured. Ledger
// problems are logged and never fail the stage.
func recordReport(ctx context.Context, rep *pipeline.Report) {
	if cfg.LedgerPath == "" || rep == nil {
		return
	}
	l, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		logger.Warn("ledger unavailable", "path", cfg.LedgerPath, "error", err)
		return
	}
	defer l.Close()
	if err := l.Record(ctx, rep.Snapshot()); err != nil {
		logger.Warn("ledger record failed", "run_id", rep.ID, "error", err)
		return
	}
	logger.Debug("run recorded", "run_id", rep.ID, "ledger", cfg.LedgerPath)
}
