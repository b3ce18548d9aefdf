package records

import (
	"sort"

	"github.com/marocz/scoreboard/pkg/types"
)

// SortRanked orders s in place, descending by Count for ModeTotal and by
// Percent for ModePercent. Records with equal keys keep their source order.
func SortRanked(s RankedSet, mode types.RankingMode) {
	if mode == types.ModePercent {
		sort.SliceStable(s, func(i, j int) bool { return s[i].Percent > s[j].Percent })
		return
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].Count > s[j].Count })
}

// Prepare normalizes rows for dt and, for ranked pages, sorts them by mode.
// It is the full row-to-display pipeline used by each poll.
func Prepare(dt types.DisplayType, rows [][]string, mode types.RankingMode) Set {
	set := Normalize(dt, rows)
	if ranked, ok := set.(RankedSet); ok {
		SortRanked(ranked, mode)
	}
	return set
}
