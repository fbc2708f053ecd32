package client

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"nflverse/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// Client downloads nflverse data release files.
//
// Each dataset is a CSV asset on a nflverse-data release; the schema of
// every file is owned by nflverse, so everything comes back as a generic
// models.Frame.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new nflverse release client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// CurrentSeason returns the provider's notion of the current season: the
// NFL season year rolls over in September.
func (c *Client) CurrentSeason(now time.Time) int {
	if now.Month() >= time.September {
		return now.Year()
	}
	return now.Year() - 1
}

// get fetches one release asset and decodes it into a frame
func (c *Client) get(ctx context.Context, path string) (*models.Frame, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", "nflverse-ingestion/1.0")

	log.Debug().Str("url", url).Msg("Downloading release asset")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download %s returned status %d: %s", url, resp.StatusCode, string(body))
	}

	frame, err := decodeCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	log.Debug().
		Str("url", url).
		Int("columns", len(frame.Columns)).
		Int("rows", len(frame.Rows)).
		Msg("Release asset downloaded")

	return frame, nil
}

// decodeCSV reads a whole CSV stream into a frame. Short rows are padded
// to the header width so every row lines up with the columns.
func decodeCSV(r io.Reader) (*models.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &models.Frame{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	frame := &models.Frame{Columns: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		} else if len(rec) > len(header) {
			rec = rec[:len(header)]
		}
		frame.Rows = append(frame.Rows, rec)
	}

	return frame, nil
}

// LoadTeamStats fetches team stats for a season at the given summary level
func (c *Client) LoadTeamStats(ctx context.Context, season int, summary models.SummaryLevel) (*models.Frame, error) {
	path := fmt.Sprintf("stats_team/stats_team_%s_%d.csv", summary.FileTag(), season)
	frame, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team stats: %w", err)
	}
	return frame, nil
}

// LoadSchedules fetches the schedule for a season.
// nflverse publishes one games file covering all seasons, so the result is
// filtered down to the requested one.
func (c *Client) LoadSchedules(ctx context.Context, season int) (*models.Frame, error) {
	frame, err := c.get(ctx, "schedules/games.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	return frame.FilterEq("season", strconv.Itoa(season)), nil
}

// LoadRosters fetches rosters for a season
func (c *Client) LoadRosters(ctx context.Context, season int) (*models.Frame, error) {
	path := fmt.Sprintf("rosters/roster_%d.csv", season)
	frame, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rosters: %w", err)
	}
	return frame, nil
}

// LoadInjuries fetches injury reports for a season
func (c *Client) LoadInjuries(ctx context.Context, season int) (*models.Frame, error) {
	path := fmt.Sprintf("injuries/injuries_%d.csv", season)
	frame, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch injuries: %w", err)
	}
	return frame, nil
}

// LoadPFRAdvstats fetches one Pro Football Reference advanced stats kind
// (pass, rush, rec or def) for a season at the given granularity
func (c *Client) LoadPFRAdvstats(ctx context.Context, season int, statType string, summary models.AdvstatsSummary) (*models.Frame, error) {
	path := fmt.Sprintf("pfr_advstats/advstats_%s_%s_%d.csv", summary, statType, season)
	frame, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pfr advanced stats (%s): %w", statType, err)
	}
	return frame, nil
}
