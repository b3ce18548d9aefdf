// Package rotation selects which page the display shows.
//
// Next and Prev (cycle.go) are the only transition functions. They walk the
// configured page order and skip the optional page when it is excluded.
//
// Scheduler holds the rotation state {active page, paused, include optional}.
// Run advances the page every interval. Pausing stops the ticker outright
// and resuming starts a new one, so no advance fires immediately after a
// resume. Forward and Backward are manual navigation through the same
// transition functions; they do not touch the ticker phase.
//
// Excluding the optional page while it is active leaves it on screen until
// the next transition.
package rotation
