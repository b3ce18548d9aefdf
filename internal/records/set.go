package records

import "github.com/marocz/scoreboard/pkg/types"

// Set is an ordered sequence of records for one page. It is implemented only
// by RankedSet and AwardSet.
type Set interface {
	// DisplayType is the variant tag of the set.
	DisplayType() types.DisplayType
	// Len is the number of records in the set.
	Len() int

	sealed()
}

// RankedSet is the payload of a RankedChart page, already in display order.
type RankedSet []types.RankedRecord

// AwardSet is the payload of an AwardList page, in source row order.
type AwardSet []types.AwardRecord

func (RankedSet) DisplayType() types.DisplayType { return types.RankedChart }
func (s RankedSet) Len() int                     { return len(s) }
func (RankedSet) sealed()                        {}

func (AwardSet) DisplayType() types.DisplayType { return types.AwardList }
func (s AwardSet) Len() int                     { return len(s) }
func (AwardSet) sealed()                        {}
