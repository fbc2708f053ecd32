package repository

import (
	"context"
	"fmt"
	"strings"

	"nflverse/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// DatasetRepository persists provider frames into per-dataset tables.
// Tables are created lazily from the frame's own columns since the schema
// is owned by the provider.
type DatasetRepository struct {
	db *Database
}

// quoteIdent quotes a SQLite identifier. Provider column names can contain
// anything, so every identifier goes through here.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnType picks the declared type for a provider column. Everything is
// TEXT except the season key the exporter scopes rows by.
func columnType(name string) string {
	if strings.EqualFold(name, "season") {
		return "INTEGER"
	}
	return "TEXT"
}

// ReplaceSeason replaces the given season's rows in table with the frame's
// rows: delete old rows for the season, append the new ones. The table is
// created from the frame's columns on first write. Delete and insert run in
// one transaction so a dataset is never left half-written.
// Returns the number of rows inserted.
func (r *DatasetRepository) ReplaceSeason(ctx context.Context, table string, season int, frame *models.Frame) (int, error) {
	if frame.Empty() {
		return 0, fmt.Errorf("refusing to persist empty frame into %s", table)
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cols := make([]string, len(frame.Columns))
	defs := make([]string, len(frame.Columns))
	params := make([]string, len(frame.Columns))
	for i, c := range frame.Columns {
		cols[i] = quoteIdent(c)
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c), columnType(c))
		params[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE season = ?", quoteIdent(table))
	if _, err := tx.ExecContext(ctx, del, season); err != nil {
		return 0, fmt.Errorf("failed to delete season %d from %s: %w", season, table, err)
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(params, ", "),
	)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(frame.Columns))
	for _, row := range frame.Rows {
		for i := range args {
			if i < len(row) {
				args[i] = row[i]
			} else {
				args[i] = ""
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", table, err)
	}

	log.Debug().
		Str("table", table).
		Int("season", season).
		Int("rows", len(frame.Rows)).
		Msg("Season rows replaced")

	return len(frame.Rows), nil
}

// EnsureIndex creates the secondary index idx_<table>_<cols...> on the
// given columns if it does not already exist. Existing indexes are never
// rebuilt.
func (r *DatasetRepository) EnsureIndex(ctx context.Context, table string, columns ...string) error {
	name := "idx_" + table + "_" + strings.Join(columns, "_")

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}

	query := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
		quoteIdent(name), quoteIdent(table), strings.Join(quoted, ", "),
	)
	if _, err := r.db.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}

	return nil
}

// CountSeasonRows returns the number of rows stored for a season
func (r *DatasetRepository) CountSeasonRows(ctx context.Context, table string, season int) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE season = ?", quoteIdent(table))

	var n int
	if err := r.db.DB.QueryRowContext(ctx, query, season).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}
