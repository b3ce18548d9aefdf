// Package poll keeps the displayed records in sync with the spreadsheet.
//
// Coordinator.Poll(ctx, page, mode) is one poll:
//  1. take the next number from the process-wide Sequence
//  2. fetch the page's range through a sheets.Fetcher
//  3. drop the response if a newer poll has been issued since (stale)
//  4. drop it if the source returned no values array (empty)
//  5. normalize and, for ranked pages, sort by the mode read at step 1
//  6. commit only if the result differs from the committed set
//
// Failures are logged and never change committed state. The staleness check
// is a strict "is this still the latest sequence number" comparison and is
// repeated under the commit lock.
//
// Coordinator.Run drives polls from a ticker: once at start, then every
// interval, each poll in its own goroutine. Rotation never resets the ticker.
package poll
