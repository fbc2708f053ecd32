package repository

import (
	"context"
	"fmt"

	"nflverse/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// LedgerRepository handles the ingest_metadata table
type LedgerRepository struct {
	db *Database
}

// DeleteFor removes any prior ledger rows for a (table, season) pair.
// Together with InsertBatch this keeps at most one row per pair.
func (r *LedgerRepository) DeleteFor(ctx context.Context, table string, season int) error {
	const query = `DELETE FROM ingest_metadata WHERE table_name = ? AND season = ?`

	if _, err := r.db.DB.ExecContext(ctx, query, table, season); err != nil {
		return fmt.Errorf("failed to delete ledger rows for %s/%d: %w", table, season, err)
	}

	return nil
}

// InsertBatch appends ledger entries in one transaction
func (r *LedgerRepository) InsertBatch(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO ingest_metadata (table_name, season, summary_level, ingested_at)
		VALUES (?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare ledger insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.TableName, e.Season, e.SummaryLevel, e.IngestedAt); err != nil {
			return fmt.Errorf("failed to insert ledger row for %s/%d: %w", e.TableName, e.Season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger batch: %w", err)
	}

	log.Debug().Int("count", len(entries)).Msg("Ledger entries written")

	return nil
}

// CountFor returns the number of ledger rows for a (table, season) pair
func (r *LedgerRepository) CountFor(ctx context.Context, table string, season int) (int, error) {
	const query = `SELECT COUNT(*) FROM ingest_metadata WHERE table_name = ? AND season = ?`

	var n int
	if err := r.db.DB.QueryRowContext(ctx, query, table, season).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ledger rows: %w", err)
	}
	return n, nil
}

// ListRecent returns the most recently ingested ledger entries
func (r *LedgerRepository) ListRecent(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	const query = `
		SELECT table_name, season, summary_level, ingested_at
		FROM ingest_metadata
		ORDER BY ingested_at DESC, table_name, season
		LIMIT ?
	`

	rows, err := r.db.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.TableName, &e.Season, &e.SummaryLevel, &e.IngestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}

	return entries, nil
}
