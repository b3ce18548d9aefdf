package poll

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marocz/scoreboard/internal/records"
	"github.com/marocz/scoreboard/internal/sheets"
	"github.com/marocz/scoreboard/pkg/types"
)

// Outcome describes what a single poll did to the committed state.
type Outcome int

const (
	// OutcomeCommitted means the fetched set differed and replaced the old one.
	OutcomeCommitted Outcome = iota
	// OutcomeUnchanged means the fetched set equalled the committed one.
	OutcomeUnchanged
	// OutcomeStale means a newer poll was issued while this one was in flight.
	OutcomeStale
	// OutcomeEmpty means the source returned no values array.
	OutcomeEmpty
	// OutcomeFailed means the fetch or decode failed, or the page is unknown.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeStale:
		return "stale"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Entry is the committed record set for one page.
type Entry struct {
	Set records.Set

	// Version increases by one on every commit for this page.
	Version uint64

	// Seq is the sequence number of the poll that produced Set.
	Seq int64

	// Mode is the ranking mode the poll was started under.
	Mode types.RankingMode

	CommittedAt time.Time
}

// Stats counts poll outcomes since the coordinator was created.
type Stats struct {
	Attempts  uint64 `json:"attempts"`
	Committed uint64 `json:"committed"`
	Unchanged uint64 `json:"unchanged"`
	Stale     uint64 `json:"stale"`
	Empty     uint64 `json:"empty"`
	Failed    uint64 `json:"failed"`
}

// Coordinator fetches page data, discards superseded responses, and commits
// a page's records only when they differ from what is already committed.
//
// Coordinator is the only writer of poll state. All exported methods are
// safe for concurrent use.
type Coordinator struct {
	pages   types.PageTable
	fetcher sheets.Fetcher
	seq     Sequence
	now     func() time.Time // injectable for deterministic tests

	mu        sync.Mutex
	committed map[types.PageID]*Entry
	onCommit  func(types.PageID)

	attempts, commits, unchanged, stale, empty, failed atomic.Uint64
}

// New creates a Coordinator for the given page table and data source.
func New(pages types.PageTable, fetcher sheets.Fetcher) *Coordinator {
	return &Coordinator{
		pages:     pages,
		fetcher:   fetcher,
		now:       time.Now,
		committed: make(map[types.PageID]*Entry),
	}
}

// OnCommit registers fn to be called after every commit, outside the lock.
// It must be set before polling starts.
func (c *Coordinator) OnCommit(fn func(types.PageID)) {
	c.mu.Lock()
	c.onCommit = fn
	c.mu.Unlock()
}

// Poll runs one poll for page under the given ranking mode. It never returns
// an error: failures are logged and leave the committed data untouched.
func (c *Coordinator) Poll(ctx context.Context, page types.PageID, mode types.RankingMode) Outcome {
	p, ok := c.pages.Lookup(page)
	if !ok {
		slog.Warn("poll: unknown page", "page", page)
		c.failed.Add(1)
		return OutcomeFailed
	}

	seq := c.seq.Next()
	c.attempts.Add(1)

	vr, err := c.fetcher.Fetch(ctx, p.SourceLocator)
	if err != nil {
		if ctx.Err() != nil {
			slog.Debug("poll: fetch cancelled", "page", page, "seq", seq)
		} else {
			slog.Warn("poll: fetch failed, keeping previous data",
				"page", page, "seq", seq, "err", err)
		}
		c.failed.Add(1)
		return OutcomeFailed
	}

	if c.seq.Current() != seq {
		c.stale.Add(1)
		slog.Debug("poll: discarded superseded response", "page", page, "seq", seq, "latest", c.seq.Current())
		return OutcomeStale
	}
	if !vr.HasData() {
		c.empty.Add(1)
		slog.Debug("poll: no values yet", "page", page, "seq", seq)
		return OutcomeEmpty
	}

	next := records.Prepare(p.DisplayType, vr.Rows(), mode)
	return c.commit(page, seq, mode, next)
}

// commit re-checks staleness and applies next under the lock, so a response
// that passed the first check cannot overwrite a newer commit.
func (c *Coordinator) commit(page types.PageID, seq int64, mode types.RankingMode, next records.Set) Outcome {
	c.mu.Lock()
	if c.seq.Current() != seq {
		c.mu.Unlock()
		c.stale.Add(1)
		return OutcomeStale
	}

	prev, had := c.committed[page]
	if had && records.Equal(prev.Set, next) {
		c.mu.Unlock()
		c.unchanged.Add(1)
		return OutcomeUnchanged
	}

	var version uint64 = 1
	if had {
		version = prev.Version + 1
	}
	c.committed[page] = &Entry{
		Set:         next,
		Version:     version,
		Seq:         seq,
		Mode:        mode,
		CommittedAt: c.now(),
	}
	fn := c.onCommit
	c.mu.Unlock()

	c.commits.Add(1)
	slog.Debug("poll: committed", "page", page, "seq", seq, "records", next.Len(), "version", version)
	if fn != nil {
		fn(page)
	}
	return OutcomeCommitted
}

// Committed returns the committed set for page, if any poll has committed one.
func (c *Coordinator) Committed(page types.PageID) (records.Set, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.committed[page]
	if !ok {
		return nil, false
	}
	return e.Set, true
}

// Entry returns a copy of the committed entry for page.
func (c *Coordinator) Entry(page types.PageID) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.committed[page]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Version returns the commit version for page, or 0 if nothing is committed.
func (c *Coordinator) Version(page types.PageID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.committed[page]; ok {
		return e.Version
	}
	return 0
}

// Latest returns the most recently issued sequence number.
func (c *Coordinator) Latest() int64 {
	return c.seq.Current()
}

// Stats returns a snapshot of the outcome counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Attempts:  c.attempts.Load(),
		Committed: c.commits.Load(),
		Unchanged: c.unchanged.Load(),
		Stale:     c.stale.Load(),
		Empty:     c.empty.Load(),
		Failed:    c.failed.Load(),
	}
}
