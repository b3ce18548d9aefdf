package records

import (
	"strconv"
	"strings"

	"github.com/marocz/scoreboard/pkg/types"
)

// Column positions in the ranked sheet. Column 2 is a derived column in the
// source sheet and is never read.
const (
	colLabel   = 0
	colCount   = 1
	colPercent = 3
)

// Column positions in the awards sheet.
const (
	colTitle     = 0
	colRecipient = 1
	colGroup     = 2
)

// Normalize converts rows into the Set variant for dt. An unknown display
// type yields an empty RankedSet so callers never receive a nil Set.
func Normalize(dt types.DisplayType, rows [][]string) Set {
	if dt == types.AwardList {
		return NormalizeAwards(rows)
	}
	return NormalizeRanked(rows)
}

// NormalizeRanked maps each row to a RankedRecord. Short rows are treated as
// having empty trailing cells.
func NormalizeRanked(rows [][]string) RankedSet {
	out := make(RankedSet, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.RankedRecord{
			Label:   cell(row, colLabel),
			Count:   parseCount(cell(row, colCount)),
			Percent: parsePercent(cell(row, colPercent)),
		})
	}
	return out
}

// NormalizeAwards maps each row to an AwardRecord, keeping row order.
func NormalizeAwards(rows [][]string) AwardSet {
	out := make(AwardSet, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.AwardRecord{
			Title:     cell(row, colTitle),
			Recipient: cell(row, colRecipient),
			Group:     cell(row, colGroup),
		})
	}
	return out
}

// cell returns row[i], or "" when the row is too short.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseCount reads the leading integer of s. Empty, non-numeric and
// out-of-range text yields 0; negative values clamp to 0.
func parseCount(s string) int {
	n, err := strconv.Atoi(numericPrefix(s, false))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parsePercent reads the leading decimal number of s, clamped to [0, 100].
func parsePercent(s string) float64 {
	f, err := strconv.ParseFloat(numericPrefix(s, true), 64)
	if err != nil {
		return 0
	}
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	}
	return f
}

// numericPrefix returns the longest prefix of the trimmed input that looks
// like a number: an optional sign, digits, and when fraction is set an
// optional decimal part and exponent. Thousands separators end the prefix.
func numericPrefix(s string, fraction bool) string {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := scanDigits(s, i)
	end := digits
	if fraction {
		if end < len(s) && s[end] == '.' {
			if frac := scanDigits(s, end+1); frac > end+1 || digits > i {
				end = frac
			}
		}
		if end > i && end < len(s) && (s[end] == 'e' || s[end] == 'E') {
			j := end + 1
			if j < len(s) && (s[j] == '+' || s[j] == '-') {
				j++
			}
			if exp := scanDigits(s, j); exp > j {
				end = exp
			}
		}
	}
	if end == i {
		return ""
	}
	return s[:end]
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
