package display

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marocz/scoreboard/internal/poll"
	"github.com/marocz/scoreboard/internal/rotation"
	"github.com/marocz/scoreboard/pkg/types"
)

// Session is one kiosk display: the ranking mode plus the poll and rotation
// loops that feed it. The zero value is not usable; call NewSession.
type Session struct {
	pages        types.PageTable
	poller       *poll.Coordinator
	rot          *rotation.Scheduler
	pollInterval time.Duration
	started      time.Time

	mu        sync.Mutex
	mode      types.RankingMode
	listeners []func()
}

// Options configures a Session.
type Options struct {
	PollInterval   time.Duration
	RotateInterval time.Duration
	InitialMode    types.RankingMode
}

// NewSession wires a session over pages, polling through poller.
// poller must have been created for the same page table.
func NewSession(pages types.PageTable, poller *poll.Coordinator, opts Options) *Session {
	mode := opts.InitialMode
	if !mode.Valid() {
		mode = types.ModeTotal
	}
	s := &Session{
		pages:        pages,
		poller:       poller,
		rot:          rotation.NewScheduler(pages, opts.RotateInterval),
		pollInterval: opts.PollInterval,
		started:      time.Now(),
		mode:         mode,
	}
	poller.OnCommit(s.committed)
	s.rot.OnChange(s.rotated)
	return s
}

// Subscribe registers fn to be called after any change that alters View:
// a commit for the active page, a rotation, or user input. fn runs on the
// goroutine that made the change and must not block.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Run starts polling and rotation and blocks until ctx is cancelled and both
// loops have returned.
func (s *Session) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.poller.Run(ctx, s.pollInterval, s.target)
	}()
	go func() {
		defer wg.Done()
		s.rot.Run(ctx)
	}()
	slog.Info("display: session started",
		"page", s.rot.State().Active, "mode", s.Mode(),
		"poll_interval", s.pollInterval)
	wg.Wait()
	slog.Info("display: session stopped")
}

// target is read by the poll loop at the start of every poll.
func (s *Session) target() (types.PageID, types.RankingMode) {
	return s.rot.State().Active, s.Mode()
}

// Mode returns the current ranking mode.
func (s *Session) Mode() types.RankingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode changes the ranking mode used by the next poll. Committed data is
// never re-sorted in place, and a poll already in flight still commits under
// the mode it started with.
func (s *Session) SetMode(m types.RankingMode) {
	s.mu.Lock()
	if s.mode == m || !m.Valid() {
		s.mu.Unlock()
		return
	}
	s.mode = m
	s.mu.Unlock()

	slog.Debug("display: mode changed", "mode", m)
	s.notify()
}

// ToggleMode flips between total and percent ranking.
func (s *Session) ToggleMode() {
	s.SetMode(s.Mode().Toggle())
}

// ToggleOptional adds or removes the optional page from the cycle.
func (s *Session) ToggleOptional() { s.rot.ToggleOptional() }

// TogglePause pauses or resumes rotation. Polling is unaffected.
func (s *Session) TogglePause() { s.rot.TogglePause() }

// Next shows the next page in the cycle.
func (s *Session) Next() { s.rot.Forward() }

// Prev shows the previous page in the cycle.
func (s *Session) Prev() { s.rot.Backward() }

// Apply dispatches a user action and returns the resulting view.
func (s *Session) Apply(a Action) View {
	switch a {
	case ActionModeTotal:
		s.SetMode(types.ModeTotal)
	case ActionModePercent:
		s.SetMode(types.ModePercent)
	case ActionToggleMode:
		s.ToggleMode()
	case ActionToggleOptional:
		s.ToggleOptional()
	case ActionTogglePause:
		s.TogglePause()
	case ActionNext:
		s.Next()
	case ActionPrev:
		s.Prev()
	default:
		slog.Warn("display: ignoring unknown action", "action", a)
	}
	return s.View()
}

// Rotation returns the current rotation state.
func (s *Session) Rotation() rotation.State { return s.rot.State() }

// Rotations returns the number of page changes so far.
func (s *Session) Rotations() uint64 { return s.rot.Rotations() }

// PollStats returns the poll outcome counters.
func (s *Session) PollStats() poll.Stats { return s.poller.Stats() }

// Pages returns the page table annotated with current cycle membership.
func (s *Session) Pages() []PageInfo {
	include := s.rot.State().IncludeOptional
	out := make([]PageInfo, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, pageInfo(p, include))
	}
	return out
}

// View builds the rendering contract for the active page.
func (s *Session) View() View {
	st := s.rot.State()
	p, _ := s.pages.Lookup(st.Active)

	v := View{
		ActivePage:      st.Active,
		DisplayType:     p.DisplayType,
		Header:          p.Header,
		AccentColor:     p.AccentColor,
		Mode:            s.Mode(),
		Paused:          st.Paused,
		IncludeOptional: st.IncludeOptional,
		Pages:           s.Pages(),
	}
	e, ok := s.poller.Entry(st.Active)
	if ok {
		v.Version = e.Version
	}
	v.Ranked, v.Awards = splitSet(e.Set)
	return v
}

// PageRecords returns the committed records for any configured page,
// including the optional page while it is excluded from the cycle.
func (s *Session) PageRecords(id types.PageID) (PageRecords, bool) {
	p, ok := s.pages.Lookup(id)
	if !ok {
		return PageRecords{}, false
	}
	pr := PageRecords{Page: pageInfo(p, s.rot.State().IncludeOptional)}
	e, ok := s.poller.Entry(id)
	if ok {
		pr.Version = e.Version
		pr.Mode = e.Mode
		at := e.CommittedAt
		pr.CommittedAt = &at
	}
	pr.Ranked, pr.Awards = splitSet(e.Set)
	return pr, true
}

// LastCommit returns the most recent commit time across all pages, or the
// zero time when nothing has committed yet.
func (s *Session) LastCommit() time.Time {
	var last time.Time
	for _, p := range s.pages {
		if e, ok := s.poller.Entry(p.ID); ok && e.CommittedAt.After(last) {
			last = e.CommittedAt
		}
	}
	return last
}

// Uptime reports how long ago the session was created.
func (s *Session) Uptime() time.Duration { return time.Since(s.started) }

// committed is the poll coordinator's commit callback.
func (s *Session) committed(page types.PageID) {
	if page != s.rot.State().Active {
		return
	}
	s.notify()
}

// rotated is the scheduler's change callback. It does not poll: the next
// tick fetches whatever page is then active.
func (s *Session) rotated(rotation.State) {
	s.notify()
}

func (s *Session) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
