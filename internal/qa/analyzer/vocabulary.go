package analyzer

import "regexp"

type keywordSet struct {
	name     string
	keywords []string
}

// statKeywords is matched by substring, in this order.
var statKeywords = []keywordSet{
	{"points", []string{"points", "scored", "scoring", "pts"}},
	{"rebounds", []string{"rebounds", "rebound", "rebs", "boards"}},
	{"assists", []string{"assists", "assist", "ast"}},
	{"steals", []string{"steals", "steal", "stl"}},
	{"blocks", []string{"blocks", "block", "blk"}},
	{"turnovers", []string{"turnovers", "turnover", "tov"}},
	{"three_pointers", []string{
		"three pointers", "3 pointers", "3-pointers", "3pt made",
		"three point field goals", "3pt field goals", "threes made",
	}},
	{"field_goal_percentage", []string{"field goal percentage", "fg%", "shooting percentage", "fg percent"}},
	{"three_point_percentage", []string{"three point percentage", "3pt%", "3-point percentage"}},
	{"free_throw_percentage", []string{"free throw percentage", "ft%", "ft percent"}},
	{"minutes", []string{"minutes", "playing time", "min"}},
	{"average", []string{"average", "avg", "per game", "ppg", "rpg", "apg"}},
}

var (
	lastKeywords       = []string{"last", "most recent", "previous", "latest"}
	thisSeasonKeywords = []string{"this season", "current season", "2024-25", "2025"}
	careerKeywords     = []string{"career", "all-time", "all time", "lifetime"}
	seasonKeywords     = []string{"season", "year"}

	rankingKeywords = []string{
		"top", "most", "best", "leader", "leaders", "record", "records",
		"history", "all time", "all-time", "league",
	}
	comparisonKeywords = []string{"vs", "versus", "compare"}
	playKeywords       = []string{"play by play", "shot", "play"}
	gameKeywords       = []string{"game", "score"}
)

var (
	datePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4}`)
	gameIDPattern = regexp.MustCompile(`00\d{8}`)

	topNPatterns = []*regexp.Regexp{
		regexp.MustCompile(`top\s+(\d+)`),
		regexp.MustCompile(`(\d+)\s+best`),
		regexp.MustCompile(`(\d+)\s+most`),
		regexp.MustCompile(`first\s+(\d+)`),
	}
)

const (
	// nameWindow bounds the distance between first and last name occurrences.
	nameWindow = 30
	maxTopN    = 100
)
