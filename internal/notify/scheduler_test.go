package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	fired []Reminder
}

func (r *recorder) deliver(rem Reminder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, rem)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func TestSchedulerFires(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(rec.deliver, zerolog.Nop())
	defer s.Close()

	s.ScheduleAt("r1", time.Now().Add(10*time.Millisecond), Reminder{UserID: "u1", Message: "finish your resume"})

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerCancel(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(rec.deliver, zerolog.Nop())
	defer s.Close()

	s.ScheduleAt("r1", time.Now().Add(20*time.Millisecond), Reminder{UserID: "u1"})
	s.Cancel("r1")

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, rec.count())
}

func TestSchedulerReplacesPendingID(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(rec.deliver, zerolog.Nop())
	defer s.Close()

	s.ScheduleAt("r1", time.Now().Add(10*time.Millisecond), Reminder{Message: "first"})
	s.ScheduleAt("r1", time.Now().Add(30*time.Millisecond), Reminder{Message: "second"})

	assert.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "second", rec.fired[0].Message)
}

func TestSchedulerClosedRejects(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(rec.deliver, zerolog.Nop())
	s.Close()

	s.ScheduleAt("r1", time.Now(), Reminder{})
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, rec.count())
}
