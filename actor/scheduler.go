package actor

import (
	"sync"
	"time"
)

// TaskHandle is an opaque token whose destruction (Cancel) stops further
// firings of a scheduled task.
type TaskHandle interface {
	Cancel()
}

// Scheduler exposes one-shot and periodic wall-clock task scheduling. It is
// backed by time.AfterFunc/time.Ticker — the exact mechanism the teacher
// already uses for its own receive-timeout timer
// (ctx.extras.initReceiveTimeoutTimer(time.AfterFunc(...))) — rather than a
// third-party scheduling library, since none appears anywhere in the
// example pack (see SPEC_FULL §4.6).
type Scheduler struct{}

// NewScheduler returns a ready Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

type onceHandle struct {
	timer *time.Timer
}

func (h *onceHandle) Cancel() { h.timer.Stop() }

// ScheduleOnce runs fn once after delay, on the goroutine time.AfterFunc
// starts for that firing.
func (s *Scheduler) ScheduleOnce(delay time.Duration, fn func()) TaskHandle {
	t := time.AfterFunc(delay, fn)
	return &onceHandle{timer: t}
}

type periodicHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *periodicHandle) Cancel() {
	h.once.Do(func() { close(h.stop) })
}

// SchedulePeriodic runs fn every interval until the returned handle is
// cancelled.
func (s *Scheduler) SchedulePeriodic(interval time.Duration, fn func()) TaskHandle {
	h := &periodicHandle{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-h.stop:
				return
			}
		}
	}()
	return h
}
