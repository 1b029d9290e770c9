package actor

import "github.com/nexusrt/actorkit/internal/executor"

// DefaultDispatcherName is the dispatcher every Props resolves to unless
// WithDispatcher names another one registered on the ActorSystem.
const DefaultDispatcherName = "default"

// PinnedDispatcherName is always available on every ActorSystem: one
// dedicated goroutine per cell, draining its mailbox to empty on every
// invoke pass.
const PinnedDispatcherName = "pinned"

// Dispatcher schedules invoke passes for cells. Exactly one of Dispatch's
// submitted tasks may be running for a given cell at any moment — enforced
// by the mailbox's planned flag, not by the dispatcher itself (spec §5).
type Dispatcher interface {
	// Dispatch asks the dispatcher to run an invoke pass for c if one is not
	// already in flight.
	Dispatch(c *cell)
	// Stop releases any resources the dispatcher owns. SharedPoolDispatcher's
	// Stop is a no-op (the pool is shared); PinnedDispatcher's Stop retires
	// the cell's dedicated goroutine.
	Stop()
}

// SharedPoolDispatcher processes at most one user envelope (preceded by any
// pending system messages) per invoke submission, re-submitting itself while
// the mailbox still has work — a bounded quantum per actor per turn so one
// busy actor cannot starve the others sharing the pool (spec §5,
// "shared-pool dispatcher").
type SharedPoolDispatcher struct {
	pool *executor.Pool
}

// NewSharedPoolDispatcher wraps an already-constructed worker pool.
func NewSharedPoolDispatcher(pool *executor.Pool) *SharedPoolDispatcher {
	return &SharedPoolDispatcher{pool: pool}
}

func (d *SharedPoolDispatcher) Dispatch(c *cell) {
	if !c.mailbox.TryPlan() {
		return
	}
	d.submit(c)
}

func (d *SharedPoolDispatcher) submit(c *cell) {
	d.pool.Execute(func() {
		c.invokeOne()
		c.mailbox.Unplan()
		if c.mailbox.HasMessages() && c.mailbox.TryPlan() {
			d.submit(c)
		}
	}, c.bid)
}

func (d *SharedPoolDispatcher) Stop() {}

// PinnedDispatcher gives one cell a dedicated goroutine that loops until the
// mailbox is empty, draining it fully on every wakeup instead of handing
// back control to a shared pool between messages (spec §5, "pinned
// dispatcher").
type PinnedDispatcher struct {
	wake chan struct{}
	done chan struct{}
}

// NewPinnedDispatcher starts the dedicated goroutine for c. c must already
// have its mailbox/bid assigned.
func NewPinnedDispatcher(c *cell) *PinnedDispatcher {
	d := &PinnedDispatcher{wake: make(chan struct{}, 1), done: make(chan struct{})}
	go d.loop(c)
	return d
}

func (d *PinnedDispatcher) loop(c *cell) {
	for {
		select {
		case <-d.wake:
			d.drain(c)
		case <-d.done:
			return
		}
	}
}

// drain runs invoke passes until the mailbox is empty, re-checking after
// Unplan to close the race where a sender's TryPlan failed (believing a
// pass was already in flight) just as this pass was about to declare the
// mailbox empty.
func (d *PinnedDispatcher) drain(c *cell) {
	for {
		for c.invokeOne() {
		}
		c.mailbox.Unplan()
		if c.mailbox.HasMessages() && c.mailbox.TryPlan() {
			continue
		}
		return
	}
}

func (d *PinnedDispatcher) Dispatch(c *cell) {
	if !c.mailbox.TryPlan() {
		return
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *PinnedDispatcher) Stop() {
	close(d.done)
}
