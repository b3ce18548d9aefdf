package rotation

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marocz/scoreboard/pkg/types"
)

// State is the rotation state shown to renderers.
type State struct {
	Active          types.PageID `json:"active_page"`
	Paused          bool         `json:"paused"`
	IncludeOptional bool         `json:"include_optional"`
}

// Ticker is the subset of *time.Ticker the scheduler uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

// Scheduler owns the rotation state. Run advances the active page on a
// timer; Forward and Backward advance it on demand using the same cycle.
//
// All exported methods are safe for concurrent use.
type Scheduler struct {
	pages     types.PageTable
	interval  time.Duration
	newTicker func(time.Duration) Ticker // injectable for tests

	mu       sync.Mutex
	state    State
	onChange func(State)

	rotations atomic.Uint64

	// rearm wakes Run so it stops or recreates its ticker.
	rearm chan struct{}
}

// NewScheduler returns a Scheduler positioned on the first configured page,
// running, with the optional page included.
func NewScheduler(pages types.PageTable, interval time.Duration) *Scheduler {
	s := &Scheduler{
		pages:     pages,
		interval:  interval,
		newTicker: newTimeTicker,
		state:     State{IncludeOptional: true},
		rearm:     make(chan struct{}, 1),
	}
	if len(pages) > 0 {
		s.state.Active = pages[0].ID
	}
	return s
}

// OnChange registers fn to be called after every state change, outside the
// lock. It must be set before Run starts.
func (s *Scheduler) OnChange(fn func(State)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// State returns the current rotation state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rotations returns how many page changes have happened, by timer or by hand.
func (s *Scheduler) Rotations() uint64 {
	return s.rotations.Load()
}

// Forward moves to the next page. The timer's phase is left alone, so an
// automatic advance may follow shortly after.
func (s *Scheduler) Forward() State {
	return s.update(func(st *State) bool {
		return s.move(st, Next(s.pages, st.Active, st.IncludeOptional))
	}, false)
}

// Backward moves to the previous page.
func (s *Scheduler) Backward() State {
	return s.update(func(st *State) bool {
		return s.move(st, Prev(s.pages, st.Active, st.IncludeOptional))
	}, false)
}

// Tick is one automatic advance. It does nothing while paused.
func (s *Scheduler) Tick() (State, bool) {
	var moved bool
	st := s.update(func(st *State) bool {
		if st.Paused {
			return false
		}
		moved = s.move(st, Next(s.pages, st.Active, st.IncludeOptional))
		return moved
	}, false)
	return st, moved
}

// SetPaused pauses or resumes automatic rotation. While paused the ticker is
// stopped; on resume a fresh ticker starts, so the first advance comes a full
// interval later.
func (s *Scheduler) SetPaused(paused bool) State {
	return s.update(func(st *State) bool {
		if st.Paused == paused {
			return false
		}
		st.Paused = paused
		return true
	}, true)
}

// TogglePause flips the paused flag.
func (s *Scheduler) TogglePause() State {
	return s.update(func(st *State) bool {
		st.Paused = !st.Paused
		return true
	}, true)
}

// SetIncludeOptional adds or removes the optional page from the cycle. The
// active page is not moved: if the optional page is showing when it is
// excluded it stays until the next transition. The ticker phase restarts.
func (s *Scheduler) SetIncludeOptional(include bool) State {
	return s.update(func(st *State) bool {
		if st.IncludeOptional == include {
			return false
		}
		st.IncludeOptional = include
		return true
	}, true)
}

// ToggleOptional flips the optional-page inclusion flag.
func (s *Scheduler) ToggleOptional() State {
	return s.update(func(st *State) bool {
		st.IncludeOptional = !st.IncludeOptional
		return true
	}, true)
}

// Run advances the active page every interval while not paused. It blocks
// until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		var (
			t     Ticker
			ticks <-chan time.Time
		)
		if !s.State().Paused {
			t = s.newTicker(s.interval)
			ticks = t.C()
		}
		if !s.wait(ctx, ticks) {
			if t != nil {
				t.Stop()
			}
			return
		}
		if t != nil {
			t.Stop()
		}
	}
}

// wait handles ticks until the ticker must be re-armed (true) or ctx is
// done (false). A nil ticks channel blocks, which is how pause suspends the
// timer.
func (s *Scheduler) wait(ctx context.Context, ticks <-chan time.Time) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-s.rearm:
			return true
		case <-ticks:
			if st, moved := s.Tick(); moved {
				slog.Debug("rotation: advanced", "page", st.Active)
			}
		}
	}
}

// move sets the active page and reports whether it changed.
func (s *Scheduler) move(st *State, next types.PageID) bool {
	if next == st.Active {
		return false
	}
	st.Active = next
	s.rotations.Add(1)
	return true
}

// update applies fn under the lock. When fn reports a change the OnChange
// callback runs, and when rearm is set the Run loop is woken.
func (s *Scheduler) update(fn func(*State) bool, rearm bool) State {
	s.mu.Lock()
	changed := fn(&s.state)
	st := s.state
	cb := s.onChange
	s.mu.Unlock()

	if !changed {
		return st
	}
	if rearm {
		select {
		case s.rearm <- struct{}{}:
		default:
		}
	}
	if cb != nil {
		cb(st)
	}
	return st
}
