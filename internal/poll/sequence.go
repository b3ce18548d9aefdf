package poll

import "sync/atomic"

// Sequence is the process-wide poll counter. Every poll attempt takes the
// next number; a poll whose number is no longer Current when its fetch
// resolves has been superseded.
//
// Safe for concurrent use.
type Sequence struct {
	seq atomic.Int64
}

// Next increments the counter and returns the new value. The first call
// returns 1.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the most recently issued number without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
