package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marocz/scoreboard/pkg/types"
)

var kioskPages = types.PageTable{
	{ID: "core", DisplayType: types.RankedChart},
	{ID: "har", DisplayType: types.RankedChart, Optional: true},
	{ID: "awards", DisplayType: types.AwardList},
}

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		current  types.PageID
		include  bool
		wantNext types.PageID
		wantPrev types.PageID
	}{
		{"core with har", "core", true, "har", "awards"},
		{"har with har", "har", true, "awards", "core"},
		{"awards with har", "awards", true, "core", "har"},
		{"core without har", "core", false, "awards", "awards"},
		{"awards without har", "awards", false, "core", "core"},
		{"har while excluded", "har", false, "awards", "core"},
		{"unknown page", "lobby", true, "core", "core"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantNext, Next(kioskPages, tc.current, tc.include))
			assert.Equal(t, tc.wantPrev, Prev(kioskPages, tc.current, tc.include))
		})
	}
}

func TestNext_FullCycle(t *testing.T) {
	var got []types.PageID
	p := types.PageID("core")
	for i := 0; i < 4; i++ {
		p = Next(kioskPages, p, true)
		got = append(got, p)
	}
	assert.Equal(t, []types.PageID{"har", "awards", "core", "har"}, got)
}

func TestNext_Degenerate(t *testing.T) {
	assert.Equal(t, types.PageID("x"), Next(nil, "x", true))

	single := types.PageTable{{ID: "only"}}
	assert.Equal(t, types.PageID("only"), Next(single, "only", false))

	onlyOptional := types.PageTable{{ID: "opt", Optional: true}}
	assert.Equal(t, types.PageID("opt"), Next(onlyOptional, "opt", false))
	assert.Equal(t, types.PageID("elsewhere"), Next(onlyOptional, "elsewhere", false))
}
