// Command dashboard serves the data-refresh dashboard: a small web UI
// that triggers the exporter as a subprocess and shows its output.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nflverse/ingestion/internal/client"
	"nflverse/ingestion/internal/config"
	"nflverse/ingestion/internal/dashboard"
	"nflverse/ingestion/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting NFL data refresh dashboard")

	cfg := config.MustLoad()

	exporterPath, err := dashboard.LocateExporter(cfg.ExporterPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot locate exporter binary")
	}
	log.Info().Str("path", exporterPath).Msg("Exporter located")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.NewDatabase(ctx, repository.Config{Path: cfg.DatabasePath})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	nfl := client.NewClient(cfg.NFLverseBaseURL, cfg.NFLverseTimeout)
	currentSeason := nfl.CurrentSeason(time.Now())

	srv := dashboard.NewServer(cfg, &dashboard.ExecRunner{ExporterPath: exporterPath}, db, currentSeason)

	httpServer := &http.Server{
		Addr:    cfg.DashboardAddr,
		Handler: srv.Router(),
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Dashboard shutdown failed")
		}
		cancel()
	}()

	log.Info().Str("addr", cfg.DashboardAddr).Msg("Dashboard listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Dashboard server failed")
	}

	log.Info().Msg("Dashboard shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}
