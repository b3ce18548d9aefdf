package records

// Equal reports whether a and b hold the same records in the same order.
// Sets of different variants are never equal.
func Equal(a, b Set) bool {
	switch av := a.(type) {
	case RankedSet:
		bv, ok := b.(RankedSet)
		return ok && EqualRanked(av, bv)
	case AwardSet:
		bv, ok := b.(AwardSet)
		return ok && EqualAwards(av, bv)
	}
	return false
}

// EqualRanked compares label, count and percent position by position.
func EqualRanked(a, b RankedSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label ||
			a[i].Count != b[i].Count ||
			a[i].Percent != b[i].Percent {
			return false
		}
	}
	return true
}

// EqualAwards compares title, recipient and group position by position.
// An absent group is already normalized to "" so plain string equality
// covers the optional field.
func EqualAwards(a, b AwardSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Title != b[i].Title ||
			a[i].Recipient != b[i].Recipient ||
			a[i].Group != b[i].Group {
			return false
		}
	}
	return true
}
