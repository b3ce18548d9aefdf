package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marocz/scoreboard/internal/records"
	"github.com/marocz/scoreboard/internal/sheets"
	"github.com/marocz/scoreboard/pkg/types"
)

var testPages = types.PageTable{
	{ID: "core", SourceLocator: "Core!A:D", DisplayType: types.RankedChart, Header: "Scoreboard"},
	{ID: "har", SourceLocator: "HAR!A:D", DisplayType: types.RankedChart, Header: "Scoreboard", Optional: true},
	{ID: "awards", SourceLocator: "Awards!A:C", DisplayType: types.AwardList, Header: "Stats"},
}

// values builds a ValueRange with a header row followed by rows.
func values(rows ...[]string) *sheets.ValueRange {
	vr := &sheets.ValueRange{Values: []sheets.Row{{"h0", "h1", "h2", "h3"}}}
	for _, r := range rows {
		vr.Values = append(vr.Values, sheets.Row(r))
	}
	return vr
}

// staticFetcher returns a fixed response per locator.
type staticFetcher struct {
	mu    sync.Mutex
	resp  map[string]*sheets.ValueRange
	err   error
	calls int
}

func newStaticFetcher() *staticFetcher {
	return &staticFetcher{resp: make(map[string]*sheets.ValueRange)}
}

func (f *staticFetcher) set(locator string, vr *sheets.ValueRange, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp[locator] = vr
	f.err = err
}

func (f *staticFetcher) Fetch(_ context.Context, locator string) (*sheets.ValueRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp[locator], nil
}

// gatedFetcher blocks every Fetch until the test resolves it, so responses
// can be delivered in any order.
type gatedFetcher struct {
	calls chan *pendingFetch
}

type pendingFetch struct {
	locator string
	resp    chan *sheets.ValueRange
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{calls: make(chan *pendingFetch, 8)}
}

func (f *gatedFetcher) Fetch(ctx context.Context, locator string) (*sheets.ValueRange, error) {
	p := &pendingFetch{locator: locator, resp: make(chan *sheets.ValueRange, 1)}
	f.calls <- p
	select {
	case vr := <-p.resp:
		return vr, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *gatedFetcher) next(t *testing.T) *pendingFetch {
	t.Helper()
	select {
	case p := <-f.calls:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch")
		return nil
	}
}

// pollAsync starts a poll and returns a channel that receives its outcome.
func pollAsync(c *Coordinator, page types.PageID, mode types.RankingMode) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() { out <- c.Poll(context.Background(), page, mode) }()
	return out
}

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poll outcome")
		return OutcomeFailed
	}
}

func rankedLabels(t *testing.T, c *Coordinator, page types.PageID) []string {
	t.Helper()
	set, ok := c.Committed(page)
	require.True(t, ok, "nothing committed for %s", page)
	rs, ok := set.(records.RankedSet)
	require.True(t, ok, "committed set for %s is %T", page, set)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Label
	}
	return out
}

func TestPoll_CommitsSortedByTotal(t *testing.T) {
	f := newStaticFetcher()
	f.set("Core!A:D", values(
		[]string{"L", "5", "", "50"},
		[]string{"M", "9", "", "10"},
		[]string{"N", "5", "", "20"},
	), nil)
	c := New(testPages, f)

	assert.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "core", types.ModeTotal))
	assert.Equal(t, []string{"M", "L", "N"}, rankedLabels(t, c, "core"))
	assert.Equal(t, uint64(1), c.Version("core"))
	assert.Equal(t, int64(1), c.Latest())
}

func TestPoll_SortsByModeAtStart(t *testing.T) {
	f := newStaticFetcher()
	f.set("Core!A:D", values(
		[]string{"L", "5", "", "50"},
		[]string{"M", "9", "", "10"},
	), nil)
	c := New(testPages, f)

	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "core", types.ModeTotal))
	assert.Equal(t, []string{"M", "L"}, rankedLabels(t, c, "core"))

	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "core", types.ModePercent))
	assert.Equal(t, []string{"L", "M"}, rankedLabels(t, c, "core"))

	e, ok := c.Entry("core")
	require.True(t, ok)
	assert.Equal(t, types.ModePercent, e.Mode)
}

func TestPoll_EqualDataKeepsCommittedSlice(t *testing.T) {
	f := newStaticFetcher()
	f.set("Core!A:D", values([]string{"A", "3", "", "30"}, []string{"B", "2", "", "20"}), nil)
	c := New(testPages, f)

	var commits int
	c.OnCommit(func(types.PageID) { commits++ })

	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "core", types.ModeTotal))
	first, _ := c.Committed("core")

	// Fresh but structurally identical payload.
	f.set("Core!A:D", values([]string{"A", "3", "", "30"}, []string{"B", "2", "", "20"}), nil)
	assert.Equal(t, OutcomeUnchanged, c.Poll(context.Background(), "core", types.ModeTotal))
	second, _ := c.Committed("core")

	a, b := first.(records.RankedSet), second.(records.RankedSet)
	assert.True(t, &a[0] == &b[0], "unchanged poll must keep the committed slice")
	assert.Equal(t, uint64(1), c.Version("core"))
	assert.Equal(t, 1, commits)

	st := c.Stats()
	assert.Equal(t, uint64(2), st.Attempts)
	assert.Equal(t, uint64(1), st.Committed)
	assert.Equal(t, uint64(1), st.Unchanged)
}

func TestPoll_StaleResponseArrivingLateIsDiscarded(t *testing.T) {
	f := newGatedFetcher()
	c := New(testPages, f)

	outA := pollAsync(c, "core", types.ModeTotal)
	pA := f.next(t)
	outB := pollAsync(c, "core", types.ModeTotal)
	pB := f.next(t)

	pB.resp <- values([]string{"from-B", "2", "", "0"})
	assert.Equal(t, OutcomeCommitted, waitOutcome(t, outB))

	pA.resp <- values([]string{"from-A", "1", "", "0"})
	assert.Equal(t, OutcomeStale, waitOutcome(t, outA))

	assert.Equal(t, []string{"from-B"}, rankedLabels(t, c, "core"))
	assert.Equal(t, uint64(1), c.Version("core"))
	assert.Equal(t, uint64(1), c.Stats().Stale)
}

func TestPoll_SupersededResponseArrivingFirstIsDiscarded(t *testing.T) {
	f := newGatedFetcher()
	c := New(testPages, f)

	outA := pollAsync(c, "core", types.ModeTotal)
	pA := f.next(t)
	outB := pollAsync(c, "core", types.ModeTotal)
	pB := f.next(t)

	pA.resp <- values([]string{"from-A", "1", "", "0"})
	assert.Equal(t, OutcomeStale, waitOutcome(t, outA))
	_, committed := c.Committed("core")
	assert.False(t, committed, "superseded poll must not commit")

	pB.resp <- values([]string{"from-B", "2", "", "0"})
	assert.Equal(t, OutcomeCommitted, waitOutcome(t, outB))
	assert.Equal(t, []string{"from-B"}, rankedLabels(t, c, "core"))
}

func TestPoll_StaleAcrossPages(t *testing.T) {
	f := newGatedFetcher()
	c := New(testPages, f)

	outCore := pollAsync(c, "core", types.ModeTotal)
	pCore := f.next(t)
	outAwards := pollAsync(c, "awards", types.ModeTotal)
	pAwards := f.next(t)

	pCore.resp <- values([]string{"late", "1", "", "0"})
	assert.Equal(t, OutcomeStale, waitOutcome(t, outCore))

	pAwards.resp <- values([]string{"MVP", "Kim", "Denver"})
	assert.Equal(t, OutcomeCommitted, waitOutcome(t, outAwards))

	_, ok := c.Committed("core")
	assert.False(t, ok)
	set, ok := c.Committed("awards")
	require.True(t, ok)
	assert.Equal(t, records.AwardSet{{Title: "MVP", Recipient: "Kim", Group: "Denver"}}, set)
}

func TestPoll_FetchErrorKeepsPreviousData(t *testing.T) {
	f := newStaticFetcher()
	f.set("Core!A:D", values([]string{"A", "3", "", "30"}), nil)
	c := New(testPages, f)
	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "core", types.ModeTotal))

	f.set("Core!A:D", nil, errors.New("connection refused"))
	assert.Equal(t, OutcomeFailed, c.Poll(context.Background(), "core", types.ModeTotal))

	assert.Equal(t, []string{"A"}, rankedLabels(t, c, "core"))
	assert.Equal(t, uint64(1), c.Stats().Failed)
}

func TestPoll_NoValuesIsSilentNoop(t *testing.T) {
	f := newStaticFetcher()
	f.set("Awards!A:C", &sheets.ValueRange{Range: "Awards!A1:C1"}, nil)
	c := New(testPages, f)

	assert.Equal(t, OutcomeEmpty, c.Poll(context.Background(), "awards", types.ModeTotal))
	_, ok := c.Committed("awards")
	assert.False(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Empty)
}

func TestPoll_HeaderOnlyClearsPage(t *testing.T) {
	f := newStaticFetcher()
	f.set("Awards!A:C", values([]string{"MVP", "Kim"}), nil)
	c := New(testPages, f)
	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "awards", types.ModeTotal))

	f.set("Awards!A:C", values(), nil)
	assert.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "awards", types.ModeTotal))

	set, _ := c.Committed("awards")
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, uint64(2), c.Version("awards"))
}

func TestPoll_UnknownPage(t *testing.T) {
	c := New(testPages, newStaticFetcher())
	assert.Equal(t, OutcomeFailed, c.Poll(context.Background(), "nope", types.ModeTotal))
	assert.Equal(t, int64(0), c.Latest(), "unknown page must not take a sequence number")
}

func TestPoll_PagesCommitIndependently(t *testing.T) {
	f := newStaticFetcher()
	f.set("Core!A:D", values([]string{"core-office", "1", "", "1"}), nil)
	f.set("HAR!A:D", values([]string{"har-office", "2", "", "2"}), nil)
	c := New(testPages, f)

	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "core", types.ModeTotal))
	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "har", types.ModeTotal))

	assert.Equal(t, []string{"core-office"}, rankedLabels(t, c, "core"))
	assert.Equal(t, []string{"har-office"}, rankedLabels(t, c, "har"))
}

func TestPoll_CommittedAtUsesClock(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := newStaticFetcher()
	f.set("Core!A:D", values([]string{"A", "1", "", "1"}), nil)
	c := New(testPages, f)
	c.now = func() time.Time { return at }

	require.Equal(t, OutcomeCommitted, c.Poll(context.Background(), "core", types.ModeTotal))
	e, _ := c.Entry("core")
	assert.Equal(t, at, e.CommittedAt)
	assert.Equal(t, int64(1), e.Seq)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "committed", OutcomeCommitted.String())
	assert.Equal(t, "stale", OutcomeStale.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
