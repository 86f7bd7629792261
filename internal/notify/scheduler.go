// Package notify provides a fire-and-forget in-process reminder scheduler,
// used to nudge users back to an incomplete draft. It is never relied upon
// for correctness.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Reminder is the payload delivered when a scheduled notification fires.
type Reminder struct {
	ID      string
	UserID  string
	Message string
}

// Scheduler schedules reminders by ID. Scheduling an ID that is already
// pending replaces it; cancelling an unknown ID is a no-op.
type Scheduler struct {
	deliver func(Reminder)
	logger  zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewScheduler creates a scheduler delivering reminders through deliver.
func NewScheduler(deliver func(Reminder), logger zerolog.Logger) *Scheduler {
	if deliver == nil {
		deliver = func(Reminder) {}
	}
	return &Scheduler{
		deliver: deliver,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
	}
}

// ScheduleAt arms a reminder to fire at the given time. Times in the past
// fire immediately.
func (s *Scheduler) ScheduleAt(id string, at time.Time, r Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
	}
	r.ID = id

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()

		s.logger.Debug().Str("reminder_id", id).Str("user_id", r.UserID).Msg("reminder fired")
		s.deliver(r)
	})
}

// Cancel drops a pending reminder.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Close cancels all pending reminders and rejects further scheduling.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
