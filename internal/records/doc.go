// Package records turns raw spreadsheet rows into display-ready records.
//
// normalize.go maps rows (header already stripped) onto the two record
// shapes. Numeric cells are parsed leniently: the leading numeric prefix is
// used ("45%" → 45) and anything without one falls back to 0. Nothing in this
// package returns an error or panics on malformed cell text.
//
// equal.go is the equality oracle used by the poll coordinator to decide
// whether a freshly fetched set differs from what is already displayed.
// Comparison is by value and by position.
//
// sort.go orders ranked records by the active ranking mode, descending and
// stable so rows with equal keys keep their source order.
//
// Set is a sealed interface with two variants, RankedSet and AwardSet. The
// variant is chosen from the page's DisplayType, never from the row shape.
package records
