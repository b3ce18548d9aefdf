package poll

import (
	"context"
	"sync"
	"time"

	"github.com/marocz/scoreboard/pkg/types"
)

// Target reports which page to poll and under which ranking mode. It is
// read once at the start of every poll.
type Target func() (types.PageID, types.RankingMode)

// Run polls target once immediately and then every interval until ctx is
// cancelled. Each poll runs in its own goroutine so a slow fetch never delays
// the next tick; the sequence check decides which response wins. Page and
// mode changes never trigger a poll of their own.
//
// Run waits for in-flight polls to return before it does, so the Fetcher
// must abandon its request when ctx is cancelled (sheets.Client does, via
// the request context). A fetch that never resolves never commits, but it
// also holds up shutdown if the Fetcher ignores ctx.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration, target Target) {
	var wg sync.WaitGroup
	defer wg.Wait()

	start := func() {
		page, mode := target()
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Poll(ctx, page, mode)
		}()
	}

	start()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			start()
		}
	}
}
