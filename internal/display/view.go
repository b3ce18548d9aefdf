package display

import (
	"time"

	"github.com/marocz/scoreboard/internal/records"
	"github.com/marocz/scoreboard/pkg/types"
)

// View is everything a renderer needs to draw the active page.
// Ranked and Awards are never null in JSON; at most one of them is non-empty.
type View struct {
	ActivePage      types.PageID         `json:"active_page"`
	DisplayType     types.DisplayType    `json:"display_type"`
	Header          string               `json:"header"`
	AccentColor     string               `json:"accent_color,omitempty"`
	Mode            types.RankingMode    `json:"mode"`
	Paused          bool                 `json:"paused"`
	IncludeOptional bool                 `json:"include_optional"`
	Ranked          []types.RankedRecord `json:"ranked"`
	Awards          []types.AwardRecord  `json:"awards"`
	Pages           []PageInfo           `json:"pages"`

	// Version is the commit version of the active page's records; 0 until
	// the first poll for that page commits.
	Version uint64 `json:"version"`
}

// PageInfo describes one configured page for navigation UIs.
type PageInfo struct {
	ID          types.PageID      `json:"id"`
	DisplayType types.DisplayType `json:"display_type"`
	Header      string            `json:"header"`
	AccentColor string            `json:"accent_color,omitempty"`
	Optional    bool              `json:"optional"`

	// InCycle is false only for the optional page while it is excluded.
	InCycle bool `json:"in_cycle"`
}

// PageRecords is the committed data for one page, whether or not it is the
// active page.
type PageRecords struct {
	Page        PageInfo             `json:"page"`
	Ranked      []types.RankedRecord `json:"ranked"`
	Awards      []types.AwardRecord  `json:"awards"`
	Version     uint64               `json:"version"`
	Mode        types.RankingMode    `json:"mode,omitempty"`
	CommittedAt *time.Time           `json:"committed_at,omitempty"`
}

func pageInfo(p types.Page, includeOptional bool) PageInfo {
	return PageInfo{
		ID:          p.ID,
		DisplayType: p.DisplayType,
		Header:      p.Header,
		AccentColor: p.AccentColor,
		Optional:    p.Optional,
		InCycle:     includeOptional || !p.Optional,
	}
}

// splitSet returns the records of set as the two JSON lists, with the unused
// one empty rather than nil.
func splitSet(set records.Set) ([]types.RankedRecord, []types.AwardRecord) {
	ranked := []types.RankedRecord{}
	awards := []types.AwardRecord{}
	switch s := set.(type) {
	case records.RankedSet:
		if s != nil {
			ranked = s
		}
	case records.AwardSet:
		if s != nil {
			awards = s
		}
	}
	return ranked, awards
}
