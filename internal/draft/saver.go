package draft

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet window applied between a state change and the
// persisted save.
const DefaultDebounce = 2 * time.Second

// Saver debounces draft saves: each Schedule call re-arms a single timer, so
// only the final snapshot after a burst of edits is persisted (trailing-edge
// debounce, no intermediate writes). Save failures are logged and swallowed;
// a lost draft degrades to a non-resumable session, never a blocked
// conversation.
type Saver struct {
	store  *Store
	window time.Duration
	logger zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *pendingSave
	gen     uint64
	closed  bool

	// saveMu orders store writes; savedGen is the generation of the last
	// snapshot that landed, so a delayed write can never regress a newer one.
	saveMu   sync.Mutex
	savedGen uint64
}

type pendingSave struct {
	userID string
	draft  Draft
	gen    uint64
}

// NewSaver creates a debounced saver with the given quiet window. A zero
// window persists each snapshot as soon as it is scheduled; a negative window
// falls back to the default.
func NewSaver(store *Store, window time.Duration, logger zerolog.Logger) *Saver {
	if window < 0 {
		window = DefaultDebounce
	}
	return &Saver{store: store, window: window, logger: logger}
}

// Schedule arms (or re-arms) the debounce timer with the latest snapshot.
// Any save pending from an earlier call within the window is superseded.
func (s *Saver) Schedule(userID string, d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.gen++
	s.pending = &pendingSave{userID: userID, draft: d, gen: s.gen}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.fire)
}

// fire persists the pending snapshot, if any.
func (s *Saver) fire() {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	s.persist(p)
}

// Flush persists any pending snapshot immediately, cancelling the timer.
// Call on teardown so a write cannot land after disposal.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	p := s.pending
	s.pending = nil
	s.mu.Unlock()

	if p != nil {
		s.persist(p)
	}
}

// Pending returns the snapshot still waiting out its quiet window, if any.
// Readers consult it so a burst of edits is never observed stale.
func (s *Saver) Pending() (*Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, false
	}
	d := s.pending.draft
	return &d, true
}

// Cancel drops any pending snapshot without persisting it.
func (s *Saver) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
}

// Close flushes pending work and rejects further scheduling.
func (s *Saver) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Flush()
}

func (s *Saver) persist(p *pendingSave) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if p.gen <= s.savedGen {
		// A newer snapshot already landed.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Save(ctx, p.userID, p.draft); err != nil {
		s.logger.Warn().Err(err).Str("user_id", p.userID).Msg("draft save failed")
		return
	}
	s.savedGen = p.gen
}
