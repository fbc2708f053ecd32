package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"nflverse/ingestion/internal/metrics"
	"nflverse/ingestion/internal/models"
	"nflverse/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

// Provider is the subset of the nflverse client the exporter consumes
type Provider interface {
	LoadTeamStats(ctx context.Context, season int, summary models.SummaryLevel) (*models.Frame, error)
	LoadSchedules(ctx context.Context, season int) (*models.Frame, error)
	LoadRosters(ctx context.Context, season int) (*models.Frame, error)
	LoadInjuries(ctx context.Context, season int) (*models.Frame, error)
	LoadPFRAdvstats(ctx context.Context, season int, statType string, summary models.AdvstatsSummary) (*models.Frame, error)
}

// Options control aggregation granularity for one run
type Options struct {
	SummaryLevel    models.SummaryLevel
	AdvstatsSummary models.AdvstatsSummary
}

// Exporter downloads the per-season datasets and persists them.
//
// Team stats and schedules are required: a fetch failure there aborts the
// run. Rosters, injuries and the four PFR advanced stat kinds are optional:
// a fetch failure is logged and the dataset skipped. Each persisted table
// gets its prior season rows replaced and one ledger entry queued; all
// queued ledger entries are written in a single batch at the end of the run.
type Exporter struct {
	provider Provider
	db       *repository.Database

	// Out receives the final confirmation line. Defaults to stdout.
	Out io.Writer
}

// New creates a new exporter
func New(provider Provider, db *repository.Database) *Exporter {
	return &Exporter{
		provider: provider,
		db:       db,
		Out:      os.Stdout,
	}
}

// Run exports every requested season in order, then writes the accumulated
// ledger entries in one batch. The run timestamp is taken once, up front.
func (e *Exporter) Run(ctx context.Context, seasons []int, opts Options) error {
	timestamp := time.Now().UTC().Format(time.RFC3339)

	var ledger []models.LedgerEntry
	for _, season := range seasons {
		entries, err := e.exportSeason(ctx, season, opts, timestamp)
		if err != nil {
			return fmt.Errorf("failed to export season %d: %w", season, err)
		}
		ledger = append(ledger, entries...)
		metrics.SeasonsExported.Inc()
	}

	if err := e.db.Ledger.InsertBatch(ctx, ledger); err != nil {
		return err
	}

	fmt.Fprintf(e.Out, "Done. Updated tables stored in %s\n", e.db.Path)
	return nil
}

// exportSeason fetches and persists every dataset for one season and
// returns the ledger entries queued for it.
func (e *Exporter) exportSeason(ctx context.Context, season int, opts Options, timestamp string) ([]models.LedgerEntry, error) {
	log.Info().Int("season", season).Msg("Exporting season")

	// Required datasets: a failure here propagates.
	teamStats, err := e.fetch("team_stats", func() (*models.Frame, error) {
		return e.provider.LoadTeamStats(ctx, season, opts.SummaryLevel)
	})
	if err != nil {
		return nil, err
	}

	schedules, err := e.fetch("schedules", func() (*models.Frame, error) {
		return e.provider.LoadSchedules(ctx, season)
	})
	if err != nil {
		return nil, err
	}

	// Optional datasets: a failure skips the dataset for this season.
	rosters := e.tryFetch("rosters", func() (*models.Frame, error) {
		return e.provider.LoadRosters(ctx, season)
	})
	injuries := e.tryFetch("injuries", func() (*models.Frame, error) {
		return e.provider.LoadInjuries(ctx, season)
	})

	advFrames := make(map[string]*models.Frame, len(models.AdvStatTypes))
	for _, statType := range models.AdvStatTypes {
		st := statType
		table := models.AdvstatsTable(st, opts.AdvstatsSummary)
		advFrames[table] = e.tryFetch(fmt.Sprintf("pfr advanced stats (%s)", st), func() (*models.Frame, error) {
			return e.provider.LoadPFRAdvstats(ctx, season, st, opts.AdvstatsSummary)
		})
	}

	var entries []models.LedgerEntry
	created := make(map[string]bool)

	persist := func(table string, frame *models.Frame, summary string) error {
		if frame == nil {
			return nil
		}
		if frame.Empty() {
			log.Warn().Str("table", table).Int("season", season).Msg("Dataset empty; skipping")
			metrics.RecordSkip(table, "empty")
			return nil
		}

		if err := e.db.Ledger.DeleteFor(ctx, table, season); err != nil {
			return err
		}
		rows, err := e.db.Datasets.ReplaceSeason(ctx, table, season, frame)
		if err != nil {
			return err
		}
		metrics.RecordRowsWritten(table, rows)

		entries = append(entries, models.NewLedgerEntry(table, season, summary, timestamp))
		created[table] = true

		log.Info().
			Str("table", table).
			Int("season", season).
			Int("rows", rows).
			Msg("Dataset persisted")
		return nil
	}

	if err := persist("team_stats", teamStats, string(opts.SummaryLevel)); err != nil {
		return nil, err
	}
	if err := persist("schedules", schedules, ""); err != nil {
		return nil, err
	}
	if err := persist("rosters", rosters, ""); err != nil {
		return nil, err
	}
	if err := persist("injuries", injuries, ""); err != nil {
		return nil, err
	}
	for _, statType := range models.AdvStatTypes {
		table := models.AdvstatsTable(statType, opts.AdvstatsSummary)
		if err := persist(table, advFrames[table], string(opts.AdvstatsSummary)); err != nil {
			return nil, err
		}
	}

	if err := e.ensureIndexes(ctx, created, opts.AdvstatsSummary); err != nil {
		return nil, err
	}

	return entries, nil
}

// ensureIndexes creates the secondary indexes for every table touched this
// season. Idempotent: existing indexes are left alone.
func (e *Exporter) ensureIndexes(ctx context.Context, created map[string]bool, advSummary models.AdvstatsSummary) error {
	if created["team_stats"] {
		if err := e.db.Datasets.EnsureIndex(ctx, "team_stats", "season", "team"); err != nil {
			return err
		}
	}
	if created["schedules"] {
		if err := e.db.Datasets.EnsureIndex(ctx, "schedules", "season", "week"); err != nil {
			return err
		}
	}
	if created["rosters"] {
		if err := e.db.Datasets.EnsureIndex(ctx, "rosters", "season", "team"); err != nil {
			return err
		}
	}
	if created["injuries"] {
		if err := e.db.Datasets.EnsureIndex(ctx, "injuries", "season", "week", "team"); err != nil {
			return err
		}
	}
	for _, statType := range models.AdvStatTypes {
		table := models.AdvstatsTable(statType, advSummary)
		if created[table] {
			if err := e.db.Datasets.EnsureIndex(ctx, table, "season"); err != nil {
				return err
			}
		}
	}
	return nil
}

// fetch runs a required dataset load, recording fetch metrics
func (e *Exporter) fetch(label string, load func() (*models.Frame, error)) (*models.Frame, error) {
	start := time.Now()
	frame, err := load()
	if err != nil {
		metrics.RecordFetch(label, "error", time.Since(start).Seconds())
		return nil, err
	}
	metrics.RecordFetch(label, "success", time.Since(start).Seconds())
	return frame, nil
}

// tryFetch runs an optional dataset load. On failure it logs a warning and
// returns nil so the run continues without the dataset.
func (e *Exporter) tryFetch(label string, load func() (*models.Frame, error)) *models.Frame {
	frame, err := e.fetch(label, load)
	if err != nil {
		log.Warn().Err(err).Str("dataset", label).Msg("Dataset unavailable; skipping")
		metrics.RecordSkip(label, "fetch_failed")
		return nil
	}
	return frame
}
