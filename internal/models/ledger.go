package models

import "database/sql"

// LedgerEntry is one row of the ingest_metadata table: a record that a
// (table, season) pair was persisted, and when.
type LedgerEntry struct {
	TableName    string
	Season       int
	SummaryLevel sql.NullString
	IngestedAt   string // UTC, ISO-8601
}

// NewLedgerEntry builds a ledger entry. summary may be empty for datasets
// that have no summary-level dimension (schedules, rosters, injuries).
func NewLedgerEntry(table string, season int, summary, ingestedAt string) LedgerEntry {
	e := LedgerEntry{
		TableName:  table,
		Season:     season,
		IngestedAt: ingestedAt,
	}
	if summary != "" {
		e.SummaryLevel = sql.NullString{String: summary, Valid: true}
	}
	return e
}
