package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// metadataSchema is the ingestion ledger. One row per (table_name, season)
// pair persisted by the most recent run touching that pair.
const metadataSchema = `
	CREATE TABLE IF NOT EXISTS ingest_metadata (
		table_name    TEXT NOT NULL,
		season        INTEGER NOT NULL,
		summary_level TEXT,
		ingested_at   TEXT NOT NULL
	)
`

// Database holds the SQLite handle and provides access to repositories
type Database struct {
	DB   *sql.DB
	Path string

	// Repositories
	Ledger   *LedgerRepository
	Datasets *DatasetRepository
}

// Config holds database configuration
type Config struct {
	Path string
}

// NewDatabase opens (creating if necessary) the SQLite database file and
// initializes repositories. The parent directory is created on demand.
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single local handle, never accessed concurrently.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, metadataSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ingest_metadata table: %w", err)
	}

	log.Info().
		Str("path", cfg.Path).
		Msg("Successfully opened database")

	d := &Database{
		DB:   db,
		Path: cfg.Path,
	}

	// Initialize repositories
	d.Ledger = &LedgerRepository{db: d}
	d.Datasets = &DatasetRepository{db: d}

	return d, nil
}

// Close closes the database handle
func (db *Database) Close() {
	if db.DB != nil {
		if err := db.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
			return
		}
		log.Info().Msg("Database closed")
	}
}

// Health checks if the database is reachable
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// TableExists reports whether a table of the given name exists
func (db *Database) TableExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`

	var n int
	if err := db.DB.QueryRowContext(ctx, query, name).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return n > 0, nil
}
