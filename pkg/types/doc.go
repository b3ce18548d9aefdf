// Package types defines the shared Go types used across the scoreboard:
// the two record shapes produced from spreadsheet rows, the ranking mode,
// and the static page table that binds each page to its data source.
// These are the canonical in-memory representations, separate from the
// JSON shapes served to renderers.
package types
