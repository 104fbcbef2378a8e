package synthesis

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// formatCount renders whole numbers without a decimal part and keeps the
// shortest representation otherwise.
func formatCount(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// groupedInt truncates v and groups thousands with commas.
func groupedInt(v float64) string {
	return humanize.Comma(int64(v))
}

func perGame(total, games float64) float64 {
	if games > 0 {
		return total / games
	}
	return 0
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
