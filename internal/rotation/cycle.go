package rotation

import "github.com/marocz/scoreboard/pkg/types"

// Next returns the page after current in cycle order, skipping the optional
// page when includeOptional is false. It is the single transition function
// used by both the timer and manual navigation.
//
// A current page that is not in the cycle restarts at the first eligible
// page. When no page is eligible current is returned unchanged.
func Next(cycle types.PageTable, current types.PageID, includeOptional bool) types.PageID {
	return step(cycle, current, includeOptional, 1)
}

// Prev is Next in the opposite direction.
func Prev(cycle types.PageTable, current types.PageID, includeOptional bool) types.PageID {
	return step(cycle, current, includeOptional, -1)
}

func step(cycle types.PageTable, current types.PageID, includeOptional bool, dir int) types.PageID {
	n := len(cycle)
	if n == 0 {
		return current
	}

	idx := -1
	for i, p := range cycle {
		if p.ID == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if first, ok := firstEligible(cycle, includeOptional); ok {
			return first
		}
		return current
	}

	for k := 1; k <= n; k++ {
		p := cycle[((idx+dir*k)%n+n)%n]
		if eligible(p, includeOptional) {
			return p.ID
		}
	}
	return current
}

func eligible(p types.Page, includeOptional bool) bool {
	return includeOptional || !p.Optional
}

func firstEligible(cycle types.PageTable, includeOptional bool) (types.PageID, bool) {
	for _, p := range cycle {
		if eligible(p, includeOptional) {
			return p.ID, true
		}
	}
	return "", false
}
