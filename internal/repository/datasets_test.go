package repository

import (
	"testing"

	"nflverse/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamStatsFrame(season string) *models.Frame {
	return &models.Frame{
		Columns: []string{"season", "team", "points"},
		Rows: [][]string{
			{season, "KC", "371"},
			{season, "BUF", "451"},
		},
	}
}

func TestDatasetRepository_ReplaceSeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	rows, err := db.Datasets.ReplaceSeason(ctx, "team_stats", 2024, teamStatsFrame("2024"))
	require.NoError(t, err, "Should create table and insert rows")
	assert.Equal(t, 2, rows)

	exists, err := db.TableExists(ctx, "team_stats")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := db.Datasets.CountSeasonRows(ctx, "team_stats", 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDatasetRepository_ReplaceSeasonIsIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// Exporting the same season twice must not accumulate duplicates
	_, err := db.Datasets.ReplaceSeason(ctx, "team_stats", 2024, teamStatsFrame("2024"))
	require.NoError(t, err)
	_, err = db.Datasets.ReplaceSeason(ctx, "team_stats", 2024, teamStatsFrame("2024"))
	require.NoError(t, err)

	count, err := db.Datasets.CountSeasonRows(ctx, "team_stats", 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "Re-export should leave exactly one copy of the season's rows")
}

func TestDatasetRepository_ReplaceSeasonLeavesOtherSeasonsAlone(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Datasets.ReplaceSeason(ctx, "team_stats", 2023, teamStatsFrame("2023"))
	require.NoError(t, err)
	_, err = db.Datasets.ReplaceSeason(ctx, "team_stats", 2024, teamStatsFrame("2024"))
	require.NoError(t, err)

	// Overwrite 2024 with a single row; 2023 must be untouched
	smaller := &models.Frame{
		Columns: []string{"season", "team", "points"},
		Rows:    [][]string{{"2024", "DET", "493"}},
	}
	_, err = db.Datasets.ReplaceSeason(ctx, "team_stats", 2024, smaller)
	require.NoError(t, err)

	count2023, err := db.Datasets.CountSeasonRows(ctx, "team_stats", 2023)
	require.NoError(t, err)
	assert.Equal(t, 2, count2023)

	count2024, err := db.Datasets.CountSeasonRows(ctx, "team_stats", 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, count2024)
}

func TestDatasetRepository_ReplaceSeasonRejectsEmptyFrame(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Datasets.ReplaceSeason(ctx, "team_stats", 2024, &models.Frame{})
	assert.Error(t, err, "Empty frames are the caller's job to skip")
}

func TestDatasetRepository_EnsureIndex(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Datasets.ReplaceSeason(ctx, "team_stats", 2024, teamStatsFrame("2024"))
	require.NoError(t, err)

	require.NoError(t, db.Datasets.EnsureIndex(ctx, "team_stats", "season", "team"))
	// Second call must be a no-op, never a rebuild error
	require.NoError(t, db.Datasets.EnsureIndex(ctx, "team_stats", "season", "team"))

	var n int
	err = db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_team_stats_season_team'`,
	).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "Index should exist exactly once")
}

func TestDatasetRepository_SeasonColumnIsInteger(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Datasets.ReplaceSeason(ctx, "schedules", 2024, &models.Frame{
		Columns: []string{"season", "week", "home_team"},
		Rows:    [][]string{{"2024", "1", "KC"}},
	})
	require.NoError(t, err)

	// CSV values arrive as strings; season must still match integer queries
	var season int
	err = db.DB.QueryRowContext(ctx, `SELECT season FROM schedules WHERE season = 2024`).Scan(&season)
	require.NoError(t, err)
	assert.Equal(t, 2024, season)
}
