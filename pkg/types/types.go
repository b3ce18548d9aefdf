package types

import "fmt"

// RankedRecord is one category's standing on a ranked chart page, e.g. one
// office's attendance. Count is always >= 0 and Percent is within [0, 100].
type RankedRecord struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AwardRecord is one entry on the awards page. Group is optional and is the
// empty string when the source row does not carry it.
type AwardRecord struct {
	Title     string `json:"title"`
	Recipient string `json:"recipient"`
	Group     string `json:"group,omitempty"`
}

// RankingMode selects the sort key and displayed unit for ranked pages.
type RankingMode string

const (
	ModeTotal   RankingMode = "total"
	ModePercent RankingMode = "percent"
)

// Valid reports whether m is a known ranking mode.
func (m RankingMode) Valid() bool {
	return m == ModeTotal || m == ModePercent
}

// Toggle returns the other ranking mode.
func (m RankingMode) Toggle() RankingMode {
	if m == ModePercent {
		return ModeTotal
	}
	return ModePercent
}

// ParseRankingMode converts a config or wire string into a RankingMode.
func ParseRankingMode(s string) (RankingMode, error) {
	m := RankingMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown ranking mode %q: want total|percent", s)
	}
	return m, nil
}

// DisplayType is the variant tag of a page: ranked bar chart or award list.
type DisplayType string

const (
	RankedChart DisplayType = "chart"
	AwardList   DisplayType = "list"
)

// Valid reports whether d is a known display type.
func (d DisplayType) Valid() bool {
	return d == RankedChart || d == AwardList
}

// PageID identifies one logical page of the display cycle.
type PageID string

// Page binds a PageID to its data source and presentation attributes.
// Pages are static configuration, never mutated at runtime.
type Page struct {
	ID            PageID
	SourceLocator string
	DisplayType   DisplayType
	Header        string
	AccentColor   string

	// Optional marks the one page that the viewer may drop from the cycle.
	Optional bool
}

// PageTable is the ordered set of configured pages. Order is rotation order.
type PageTable []Page

// Lookup returns the page with the given id.
func (t PageTable) Lookup(id PageID) (Page, bool) {
	for _, p := range t {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

// IDs returns the page ids in rotation order.
func (t PageTable) IDs() []PageID {
	out := make([]PageID, len(t))
	for i, p := range t {
		out[i] = p.ID
	}
	return out
}

// OptionalID returns the id of the optional page, or "" when none is configured.
func (t PageTable) OptionalID() PageID {
	for _, p := range t {
		if p.Optional {
			return p.ID
		}
	}
	return ""
}
