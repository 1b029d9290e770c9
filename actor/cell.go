package actor

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/nexusrt/actorkit/internal/log"
)

var cellLog = log.New("cell")

// pendingAction tracks which async teardown/restart the cell's children are
// currently draining toward. tryFinalize only acts once every child has
// reported its own termination, mirroring the teacher's own
// tryRestartOrTerminate (children.Empty() gate) rather than blocking the
// current worker thread on a channel — blocking would risk starving the
// shared pool whenever a parent and one of its children land on the same
// placement hint (see DESIGN.md).
type pendingAction int32

const (
	pendingNone pendingAction = iota
	pendingStop
	pendingRestart
)

// cell is the kernel-side runtime identity of an actor: ActorCell from the
// spec. Fields touched only by the cell's own worker-thread-of-the-moment
// (actor, children, stash, timers, currentMessage/currentSender) need no
// synchronization beyond the dispatcher's planned-flag/placement-hint
// guarantee; fields read or written from arbitrary goroutines (suspended,
// stopping/finalized, the children map's size check from tryFinalize) use
// atomics or a short leaf-level mutex.
type cell struct {
	id         CellId
	path       ActorPath
	system     *ActorSystem
	mailbox    Mailbox
	dispatcher Dispatcher
	ownsDisp   bool
	bid        int
	props      *Props
	strategy   SupervisionStrategy

	parent    *cell
	parentRef ActorRef
	self      ActorRef

	actor Actor

	childrenMu sync.Mutex
	children   map[string]*cell

	suspended atomic.Bool
	stopped   atomic.Bool
	pending   atomic.Int32

	finalizing atomic.Bool

	stash *fifoStash
	timer *Timers

	currentMessage interface{}
	currentSender  ActorRef

	terminatedCh   chan struct{}
	terminatedOnce sync.Once
}

func newCell(system *ActorSystem, id CellId, path ActorPath, props *Props, parent *cell, dispatcher Dispatcher, ownsDisp bool, bid int) *cell {
	c := &cell{
		id:           id,
		path:         path,
		system:       system,
		mailbox:      NewUnboundedMailbox(system.metrics),
		dispatcher:   dispatcher,
		ownsDisp:     ownsDisp,
		bid:          bid,
		props:        props,
		strategy:     props.strategy,
		parent:       parent,
		terminatedCh: make(chan struct{}),
	}
	c.stopped.Store(true)
	if parent != nil {
		c.parentRef = parent.self
	}
	return c
}

// --- send path -----------------------------------------------------------

// send is ActorCell.send: divert to dead letters while stopped/suspended,
// otherwise enqueue and ask the dispatcher to schedule an invoke pass.
func (c *cell) send(env MessageEnvelope) {
	if c.stopped.Load() || c.suspended.Load() {
		c.system.deadLetters.tellTo(env.Message, env.Sender, c.path)
		return
	}
	c.mailbox.Enqueue(env)
	c.dispatcher.Dispatch(c)
}

// forceSend bypasses the stopped/suspended gate; used to deliver the
// internal PoisonPill that drives teardown.
func (c *cell) forceSend(env MessageEnvelope) {
	c.mailbox.Enqueue(env)
	c.dispatcher.Dispatch(c)
}

func (c *cell) sendSystem(msg systemMessage) {
	c.mailbox.EnqueueSystem(msg)
	c.dispatcher.Dispatch(c)
}

// --- invoke: called by a dispatcher on the cell's assigned worker ---------

// invokeSystemBatch drains every pending system message. It always runs
// first in an invoke pass, giving kernel commands priority over user
// envelopes (SPEC_FULL §4.2).
func (c *cell) invokeSystemBatch() {
	for {
		msg, ok := c.mailbox.DequeueSystem()
		if !ok {
			return
		}
		c.handleSystemMessage(msg)
	}
}

func (c *cell) handleSystemMessage(msg systemMessage) {
	switch m := msg.(type) {
	case sysStop:
		c.beginStop()
	case sysFail:
		c.fail(m.err)
	case sysChildTerminated:
		c.childTerminated(m.who.Path())
	}
}

// invokeOne processes the system batch then, if present, exactly one user
// envelope. It reports whether the mailbox still has work afterward.
func (c *cell) invokeOne() (more bool) {
	c.invokeSystemBatch()
	env, ok := c.mailbox.Dequeue()
	if !ok {
		return c.mailbox.HasMessages()
	}
	c.processUserEnvelope(env)
	return c.mailbox.HasMessages()
}

func (c *cell) processUserEnvelope(env MessageEnvelope) {
	if c.stopped.Load() {
		// already torn down between scheduling and running; drop silently,
		// matching the spec's "stopped actor drops inbound messages".
		return
	}
	sender := env.Sender
	if sender == nil {
		sender = c.system.deadLetters
	}
	c.currentMessage = env.Message
	c.currentSender = sender
	ctx := &actorContext{cell: c, sender: sender, message: env.Message}

	handled, err := c.invokeReceive(ctx, env.Message)
	if err != nil {
		c.fail(err)
	} else if !handled {
		if !c.internalReceive(env.Message) {
			c.system.deadLetters.tellTo(env.Message, sender, c.path)
		}
	} else if c.system.metrics != nil {
		c.system.metrics.MessagesProcessed.Inc()
	}

	c.currentMessage = nil
	c.currentSender = nil
}

func (c *cell) invokeReceive(ctx Context, msg interface{}) (handled bool, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("actor: panic in receive: %v", r)
		}
		if c.system.metrics != nil {
			c.system.metrics.DispatchLatency.Observe(time.Since(start).Seconds())
		}
	}()
	return c.actor.Receive(ctx, msg)
}

// internalReceive recognizes PoisonPill (spec §4.2 step 5); any other
// message remains unhandled.
func (c *cell) internalReceive(msg interface{}) bool {
	if _, ok := msg.(PoisonPill); ok {
		c.suspended.Store(true)
		c.mailbox.CleanUp(c.self, c.system.deadLetters)
		c.beginStop()
		return true
	}
	return false
}

// --- lifecycle -------------------------------------------------------------

// start is ActorCell.start: call pre_start, then clear stopped. Called
// synchronously by the creating goroutine before the cell has ever been
// reachable by a sender (see SPEC_FULL §4.1 step order).
func (c *cell) start() {
	ctx := &actorContext{cell: c, sender: c.system.deadLetters, message: Started{}}
	callPreStart(c.actor, ctx)
	c.stopped.Store(false)
	if c.system.metrics != nil {
		c.system.metrics.ActorsStarted.Inc()
	}
}

// beginStop is the async, idempotent entry point into teardown — invoked
// either directly (PoisonPill handling, on the cell's own thread) or via a
// sysStop system message (when a parent is stopping its children).
func (c *cell) beginStop() {
	if !c.pending.CompareAndSwap(int32(pendingNone), int32(pendingStop)) {
		return
	}
	c.suspended.Store(true)
	c.fanOutChildStop()
	c.tryFinalize()
}

// beginRestart mirrors beginStop but finalizes into a re-incarnation
// instead of a permanent stop.
func (c *cell) beginRestart(reason error) {
	if !c.pending.CompareAndSwap(int32(pendingNone), int32(pendingRestart)) {
		return
	}
	c.suspended.Store(true)
	c.fanOutChildStop()
	c.tryFinalize()
}

func (c *cell) fanOutChildStop() {
	c.childrenMu.Lock()
	kids := make([]*cell, 0, len(c.children))
	for _, ch := range c.children {
		kids = append(kids, ch)
	}
	c.childrenMu.Unlock()
	for _, ch := range kids {
		ch.sendSystem(sysStop{})
	}
}

// childTerminated is delivered via sysChildTerminated once a child has
// fully finalized; it un-registers the child and re-checks whether this
// cell can now finalize its own pending stop/restart.
func (c *cell) childTerminated(path ActorPath) {
	c.childrenMu.Lock()
	for name, ch := range c.children {
		if ch.path.Equal(path) {
			delete(c.children, name)
			break
		}
	}
	c.childrenMu.Unlock()
	c.tryFinalize()
}

func (c *cell) childCount() int {
	c.childrenMu.Lock()
	defer c.childrenMu.Unlock()
	return len(c.children)
}

// tryFinalize completes a pending stop or restart once every child has
// terminated — the non-blocking analogue of the teacher's
// tryRestartOrTerminate.
func (c *cell) tryFinalize() {
	if c.childCount() > 0 {
		return
	}
	switch pendingAction(c.pending.Load()) {
	case pendingStop:
		c.finalizeStop()
	case pendingRestart:
		c.finalizeRestart()
	}
}

func (c *cell) finalizeStop() {
	if !c.finalizing.CompareAndSwap(false, true) {
		return
	}
	ctx := &actorContext{cell: c, sender: c.system.deadLetters, message: Stopped{}}
	callPostStop(c.actor, ctx)

	c.stopped.Store(true)
	if c.system.metrics != nil {
		c.system.metrics.ActorsStopped.Inc()
	}
	c.system.watcher.registerTerminated(c.self)
	if c.parent != nil {
		c.parent.sendSystem(sysChildTerminated{who: c.self})
	}
	if c.timer != nil {
		c.timer.CancelAll()
	}
	if c.ownsDisp {
		c.dispatcher.Stop()
	}
	c.system.removeCell(c.id)
	c.terminatedOnce.Do(func() { close(c.terminatedCh) })
}

// finalizeRestart is restart's stop-then-start-then-post_restart (spec
// §4.2): it runs post_stop against the failed incarnation, re-incarnates via
// the same pre_start path start() uses, then post_restart against the fresh
// one.
func (c *cell) finalizeRestart() {
	ctx := &actorContext{cell: c, sender: c.system.deadLetters, message: Stopped{}}
	callPostStop(c.actor, ctx)

	c.actor = c.props.producer()
	c.suspended.Store(false)
	c.pending.Store(int32(pendingNone))
	if c.system.metrics != nil {
		c.system.metrics.Restarts.Inc()
	}

	startCtx := &actorContext{cell: c, sender: c.system.deadLetters, message: Started{}}
	callPreStart(c.actor, startCtx)
	c.stopped.Store(false)
	if c.system.metrics != nil {
		c.system.metrics.ActorsStarted.Inc()
	}

	callPostRestart(c.actor, startCtx)

	if c.stash != nil && !c.stash.Empty() {
		c.stash.UnstashAll()
	}
}

// fail is the supervision entry point (spec §4.2 fail); it always runs on
// the cell's own worker thread, whether invoked directly from a failed
// receive() or via a sysFail message escalated from a child.
func (c *cell) fail(err error) {
	ctx := &actorContext{cell: c, sender: c.system.deadLetters, message: c.currentMessage}
	callPreFail(c.actor, ctx, err, c.strategy)

	switch c.strategy {
	case Resume:
		// no state change
	case Stop:
		c.beginStop()
	case Restart:
		c.beginRestart(err)
	case Escalate:
		if c.parent == nil {
			panicKernel(KindEscalatePastRoot, err.Error())
		}
		c.parent.sendSystem(sysFail{err: err})
	}
}

// --- stash/timers lazy init (always called from this cell's own thread) --

func (c *cell) ensureStash() Stash {
	if c.stash == nil {
		c.stash = newFifoStash(c)
	}
	return c.stash
}

func (c *cell) ensureTimers() *Timers {
	if c.timer == nil {
		c.timer = newTimers(c.system.scheduler)
	}
	return c.timer
}

// --- optional lifecycle hook dispatch --------------------------------------

func callPreStart(a Actor, ctx Context) {
	if h, ok := a.(PreStarter); ok {
		safeHook(func() { h.PreStart(ctx) })
	}
}

func callPostStop(a Actor, ctx Context) {
	if h, ok := a.(PostStopper); ok {
		safeHook(func() { h.PostStop(ctx) })
	}
}

func callPreFail(a Actor, ctx Context, err error, strategy SupervisionStrategy) {
	if h, ok := a.(PreFailer); ok {
		safeHook(func() { h.PreFail(ctx, err, strategy) })
	}
}

func callPostRestart(a Actor, ctx Context) {
	if h, ok := a.(PostRestarter); ok {
		safeHook(func() { h.PostRestart(ctx) })
	}
}

func safeHook(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			cellLog.Error("recovered panic in lifecycle hook", log.Field{Key: "panic", Value: r})
		}
	}()
	fn()
}
