package draft

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Savers hands out one debounced Saver per user so concurrent conversations
// do not supersede each other's pending snapshots.
type Savers struct {
	store  *Store
	window time.Duration
	logger zerolog.Logger

	mu     sync.Mutex
	savers map[string]*Saver
}

// NewSavers creates a per-user saver registry sharing one store and window.
func NewSavers(store *Store, window time.Duration, logger zerolog.Logger) *Savers {
	return &Savers{
		store:  store,
		window: window,
		logger: logger,
		savers: make(map[string]*Saver),
	}
}

// For returns the saver owned by the given user, creating it on first use.
func (m *Savers) For(userID string) *Saver {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.savers[userID]
	if !ok {
		s = NewSaver(m.store, m.window, m.logger.With().Str("user_id", userID).Logger())
		m.savers[userID] = s
	}
	return s
}

// Close flushes and closes every saver. Used on server shutdown.
func (m *Savers) Close() {
	m.mu.Lock()
	savers := make([]*Saver, 0, len(m.savers))
	for _, s := range m.savers {
		savers = append(savers, s)
	}
	m.savers = make(map[string]*Saver)
	m.mu.Unlock()

	for _, s := range savers {
		s.Close()
	}
}
