package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrame_Empty(t *testing.T) {
	var nilFrame *Frame
	assert.True(t, nilFrame.Empty())
	assert.True(t, (&Frame{}).Empty())

	// Columns but no rows is "no data for this season", not empty
	assert.False(t, (&Frame{Columns: []string{"season"}}).Empty())
}

func TestFrame_ColumnIndex(t *testing.T) {
	f := &Frame{Columns: []string{"Season", "team", "points"}}

	assert.Equal(t, 0, f.ColumnIndex("season"), "Column match is case-insensitive")
	assert.Equal(t, 2, f.ColumnIndex("points"))
	assert.Equal(t, -1, f.ColumnIndex("week"))
	assert.True(t, f.HasColumn("TEAM"))
}

func TestFrame_FilterEq(t *testing.T) {
	f := &Frame{
		Columns: []string{"season", "team"},
		Rows: [][]string{
			{"2023", "KC"},
			{"2024", "KC"},
			{"2024", "BUF"},
		},
	}

	filtered := f.FilterEq("season", "2024")
	assert.Len(t, filtered.Rows, 2)

	// Unknown column: frame passes through unchanged
	same := f.FilterEq("week", "1")
	assert.Len(t, same.Rows, 3)
}

func TestSummaryLevel_Valid(t *testing.T) {
	for _, l := range SummaryLevels {
		assert.True(t, l.Valid())
	}
	assert.False(t, SummaryLevel("season").Valid())
	assert.Equal(t, "reg_post", SummaryRegPost.FileTag())
}

func TestAdvstatsTable(t *testing.T) {
	assert.Equal(t, "pfr_advstats_pass_week", AdvstatsTable("pass", AdvstatsWeek))
	assert.Equal(t, "pfr_advstats_def_season", AdvstatsTable("def", AdvstatsSeason))
}
