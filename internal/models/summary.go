package models

import "strings"

// SummaryLevel controls the aggregation granularity of the team stats table.
type SummaryLevel string

const (
	SummaryWeek    SummaryLevel = "week"
	SummaryReg     SummaryLevel = "reg"
	SummaryPost    SummaryLevel = "post"
	SummaryRegPost SummaryLevel = "reg+post"
)

// SummaryLevels lists the accepted --summary-level values.
var SummaryLevels = []SummaryLevel{SummaryWeek, SummaryReg, SummaryPost, SummaryRegPost}

// Valid reports whether s is one of the accepted summary levels.
func (s SummaryLevel) Valid() bool {
	for _, l := range SummaryLevels {
		if s == l {
			return true
		}
	}
	return false
}

// FileTag returns the tag used in nflverse release file names
// ("reg+post" is published as "reg_post").
func (s SummaryLevel) FileTag() string {
	return strings.ReplaceAll(string(s), "+", "_")
}

// AdvstatsSummary controls the granularity of the PFR advanced stats tables.
type AdvstatsSummary string

const (
	AdvstatsWeek   AdvstatsSummary = "week"
	AdvstatsSeason AdvstatsSummary = "season"
)

// AdvstatsSummaries lists the accepted --advstats-summary values.
var AdvstatsSummaries = []AdvstatsSummary{AdvstatsWeek, AdvstatsSeason}

// Valid reports whether a is one of the accepted advstats summary levels.
func (a AdvstatsSummary) Valid() bool {
	return a == AdvstatsWeek || a == AdvstatsSeason
}

// AdvStatTypes are the four PFR advanced stat kinds, in fetch order.
var AdvStatTypes = []string{"pass", "rush", "rec", "def"}

// AdvstatsTable returns the database table name for one advanced stat kind
// at the given granularity, e.g. pfr_advstats_pass_week.
func AdvstatsTable(statType string, summary AdvstatsSummary) string {
	return "pfr_advstats_" + statType + "_" + string(summary)
}
