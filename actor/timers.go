package actor

import (
	"sync"
	"time"
)

// Timers is the per-actor facade over the Scheduler, indexing handles by a
// user-supplied integer key (spec §4.6). A Timers that outlives its actor
// without CancelAll leaks and silently delivers to dead letters — every
// cell releases all of its Timers' handles during its final stop, so
// user code does not need to remember to call CancelAll itself, though it
// may.
type Timers struct {
	mu        sync.Mutex
	scheduler *Scheduler
	handles   map[int]TaskHandle
}

func newTimers(s *Scheduler) *Timers {
	return &Timers{scheduler: s, handles: make(map[int]TaskHandle)}
}

// StartSingle schedules a one-shot that calls toRef.Tell(message, selfRef)
// after delay.
func (t *Timers) StartSingle(key int, selfRef, toRef ActorRef, delay time.Duration, message interface{}) {
	t.set(key, t.scheduler.ScheduleOnce(delay, func() {
		toRef.Tell(message, selfRef)
	}))
}

// StartPeriodic schedules a periodic tick that calls
// toRef.Tell(messageFactory(), selfRef) every interval. messageFactory is
// invoked fresh on every firing so the message it produces can vary.
func (t *Timers) StartPeriodic(key int, selfRef, toRef ActorRef, interval time.Duration, messageFactory func() interface{}) {
	t.set(key, t.scheduler.SchedulePeriodic(interval, func() {
		toRef.Tell(messageFactory(), selfRef)
	}))
}

func (t *Timers) set(key int, h TaskHandle) {
	t.mu.Lock()
	if old, ok := t.handles[key]; ok {
		old.Cancel()
	}
	t.handles[key] = h
	t.mu.Unlock()
}

// Cancel stops the timer registered under key, if any.
func (t *Timers) Cancel(key int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.handles[key]; ok {
		h.Cancel()
		delete(t.handles, key)
	}
}

// CancelAll stops every timer this facade has started.
func (t *Timers) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, h := range t.handles {
		h.Cancel()
		delete(t.handles, k)
	}
}
