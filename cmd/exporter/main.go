// Command exporter downloads nflverse datasets for one or more seasons and
// persists them into a local SQLite database, recording each write in the
// ingest_metadata ledger. Runs once and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nflverse/ingestion/internal/client"
	"nflverse/ingestion/internal/config"
	"nflverse/ingestion/internal/export"
	"nflverse/ingestion/internal/models"
	"nflverse/ingestion/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// seasonList collects repeated --season flags
type seasonList []int

func (s *seasonList) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (s *seasonList) Set(value string) error {
	season, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid season %q", value)
	}
	*s = append(*s, season)
	return nil
}

func main() {
	setupLogger()

	cfg := config.MustLoad()

	var seasons seasonList
	flag.Var(&seasons, "season", "season to export (repeat flag for multiple seasons; defaults to the current season)")
	summaryLevel := flag.String("summary-level", string(models.SummaryReg), "summary level for the team stats table (week, reg, post, reg+post)")
	advstatsSummary := flag.String("advstats-summary", string(models.AdvstatsWeek), "summary level for the PFR advanced stats tables (week, season)")
	dbPath := flag.String("db-path", cfg.DatabasePath, "SQLite database path")
	flag.Parse()

	opts := export.Options{
		SummaryLevel:    models.SummaryLevel(*summaryLevel),
		AdvstatsSummary: models.AdvstatsSummary(*advstatsSummary),
	}
	if !opts.SummaryLevel.Valid() {
		log.Fatal().Str("summary_level", *summaryLevel).Msg("Invalid --summary-level")
	}
	if !opts.AdvstatsSummary.Valid() {
		log.Fatal().Str("advstats_summary", *advstatsSummary).Msg("Invalid --advstats-summary")
	}

	ctx := context.Background()

	nfl := client.NewClient(cfg.NFLverseBaseURL, cfg.NFLverseTimeout)

	if len(seasons) == 0 {
		seasons = seasonList{nfl.CurrentSeason(time.Now())}
		log.Info().Int("season", seasons[0]).Msg("No seasons given; defaulting to current season")
	}

	db, err := repository.NewDatabase(ctx, repository.Config{Path: *dbPath})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	exporter := export.New(nfl, db)
	if err := exporter.Run(ctx, seasons, opts); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
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
