package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/brailledoc/internal/api"
	"github.com/dgallion1/brailledoc/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction and translation HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	stats := api.Stats{
		Extract:   pipeline.NewLatencyStats(time.Hour),
		Translate: pipeline.NewLatencyStats(time.Hour),
	}
	ext := newExtractor(stats.Extract)

	// The API still extracts when the engine is missing; /api/translate
	// reports it as unavailable.
	var tr pipeline.Translator
	if t, err := openTranslator(cfg, logger); err != nil {
		logger.Warn("braille engine unavailable, translation disabled", "error", err)
	} else {
		defer t.Close()
		tr = t.WithStats(stats.Translate)
	}

	srv := api.NewServer(ext, tr, stats, logger, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting brailledoc", "port", cfg.Port, "version", version)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
