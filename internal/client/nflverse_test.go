package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nflverse/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second)
}

func TestClient_CurrentSeason(t *testing.T) {
	c := NewClient("http://example.invalid", time.Second)

	// Season year rolls over in September
	assert.Equal(t, 2025, c.CurrentSeason(time.Date(2025, time.September, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, c.CurrentSeason(time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2024, c.CurrentSeason(time.Date(2025, time.February, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2024, c.CurrentSeason(time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)))
}

func TestClient_LoadTeamStats(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("season,team,points\n2024,KC,371\n2024,BUF,451\n"))
	})

	frame, err := c.LoadTeamStats(context.Background(), 2024, models.SummaryReg)
	require.NoError(t, err)

	assert.Equal(t, "/stats_team/stats_team_reg_2024.csv", gotPath)
	assert.Equal(t, []string{"season", "team", "points"}, frame.Columns)
	require.Len(t, frame.Rows, 2)
	assert.Equal(t, []string{"2024", "KC", "371"}, frame.Rows[0])
}

func TestClient_LoadTeamStatsRegPostFileTag(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("season,team\n2024,KC\n"))
	})

	_, err := c.LoadTeamStats(context.Background(), 2024, models.SummaryRegPost)
	require.NoError(t, err)
	assert.Equal(t, "/stats_team/stats_team_reg_post_2024.csv", gotPath, "reg+post is published as reg_post")
}

func TestClient_LoadSchedulesFiltersSeason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules/games.csv", r.URL.Path)
		w.Write([]byte("season,week,home_team\n2023,1,KC\n2024,1,BAL\n2024,2,KC\n"))
	})

	frame, err := c.LoadSchedules(context.Background(), 2024)
	require.NoError(t, err)

	require.Len(t, frame.Rows, 2, "Only the requested season's games survive")
	for _, row := range frame.Rows {
		assert.Equal(t, "2024", row[0])
	}
}

func TestClient_LoadPFRAdvstatsPaths(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("season,player\n2024,P.Mahomes\n"))
	})

	_, err := c.LoadPFRAdvstats(context.Background(), 2024, "pass", models.AdvstatsWeek)
	require.NoError(t, err)
	assert.Equal(t, "/pfr_advstats/advstats_week_pass_2024.csv", gotPath)

	_, err = c.LoadPFRAdvstats(context.Background(), 2024, "def", models.AdvstatsSeason)
	require.NoError(t, err)
	assert.Equal(t, "/pfr_advstats/advstats_season_def_2024.csv", gotPath)
}

func TestClient_NotFoundIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	_, err := c.LoadRosters(context.Background(), 1999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestDecodeCSV(t *testing.T) {
	t.Run("pads short rows", func(t *testing.T) {
		frame, err := decodeCSV(strings.NewReader("a,b,c\n1,2\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", ""}, frame.Rows[0])
	})

	t.Run("truncates long rows", func(t *testing.T) {
		frame, err := decodeCSV(strings.NewReader("a,b\n1,2,3\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, frame.Rows[0])
	})

	t.Run("empty stream is an empty frame", func(t *testing.T) {
		frame, err := decodeCSV(strings.NewReader(""))
		require.NoError(t, err)
		assert.True(t, frame.Empty())
	})

	t.Run("header only is not empty", func(t *testing.T) {
		frame, err := decodeCSV(strings.NewReader("a,b\n"))
		require.NoError(t, err)
		assert.False(t, frame.Empty())
		assert.Empty(t, frame.Rows)
	})
}
