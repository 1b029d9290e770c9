package actor

import (
	"fmt"
	"sync"
	"time"
)

// fsmTimerKey is the Timers key every FSM reserves for its own state
// timeout, distinct from any key user code might use directly.
const fsmTimerKey = -1

type fsmActionKind int

const (
	fsmGoto fsmActionKind = iota
	fsmStay
	fsmStop
	fsmUnhandled
)

// FSMAction is the value a state handler returns: one of Goto, GotoUsing,
// Stay, StayUsing, FSMStop, or Unhandled (spec §4.8).
type FSMAction[S comparable, D any] struct {
	kind    fsmActionKind
	state   S
	data    D
	hasData bool
}

// Goto transitions to s, keeping the current data unchanged.
func Goto[S comparable, D any](s S) FSMAction[S, D] {
	return FSMAction[S, D]{kind: fsmGoto, state: s}
}

// GotoUsing transitions to s and replaces the current data with d.
func GotoUsing[S comparable, D any](s S, d D) FSMAction[S, D] {
	return FSMAction[S, D]{kind: fsmGoto, state: s, data: d, hasData: true}
}

// Stay remains in the current state with unchanged data.
func Stay[S comparable, D any]() FSMAction[S, D] {
	return FSMAction[S, D]{kind: fsmStay}
}

// StayUsing remains in the current state but replaces the data.
func StayUsing[S comparable, D any](d D) FSMAction[S, D] {
	return FSMAction[S, D]{kind: fsmStay, data: d, hasData: true}
}

// FSMStop stops the owning actor. Named FSMStop (not Stop) to avoid
// colliding with SupervisionStrategy's Stop constant.
func FSMStop[S comparable, D any]() FSMAction[S, D] {
	return FSMAction[S, D]{kind: fsmStop}
}

// Unhandled delegates to the registered unhandled callback, or leaves the
// message unhandled if none was registered.
func Unhandled[S comparable, D any]() FSMAction[S, D] {
	return FSMAction[S, D]{kind: fsmUnhandled}
}

// StateHandler is the per-state message handler a FSM dispatches to.
type StateHandler[S comparable, D any] func(msg interface{}, ctx Context, data D) FSMAction[S, D]

type fsmState[S comparable, D any] struct {
	handler StateHandler[S, D]
	timeout time.Duration
}

// FSM is the generic state/data machine behavioral layer built on top of
// the actor protocol (spec §4.8). Embed one in an Actor and forward
// Receive to it.
type FSM[S comparable, D any] struct {
	mu     sync.Mutex
	states map[S]fsmState[S, D]

	current S
	data    D

	onTransition func(from, to S)
	onUnhandled  func(msg interface{}, ctx Context, state S, data D)
}

// NewFSM constructs a FSM starting in initial with initialData. Register
// state handlers with When before the owning actor receives any messages.
func NewFSM[S comparable, D any](initial S, initialData D) *FSM[S, D] {
	return &FSM[S, D]{
		states:  make(map[S]fsmState[S, D]),
		current: initial,
		data:    initialData,
	}
}

// When registers the handler and idle timeout for state s.
func (f *FSM[S, D]) When(s S, timeout time.Duration, h StateHandler[S, D]) *FSM[S, D] {
	f.mu.Lock()
	f.states[s] = fsmState[S, D]{handler: h, timeout: timeout}
	f.mu.Unlock()
	return f
}

// OnTransition registers a callback fired whenever the state changes.
func (f *FSM[S, D]) OnTransition(fn func(from, to S)) *FSM[S, D] {
	f.onTransition = fn
	return f
}

// OnUnhandled registers a callback for messages the current state's
// handler declines via Unhandled.
func (f *FSM[S, D]) OnUnhandled(fn func(msg interface{}, ctx Context, state S, data D)) *FSM[S, D] {
	f.onUnhandled = fn
	return f
}

// State returns the current state and data.
func (f *FSM[S, D]) State() (S, D) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.data
}

// Start arms the initial state's timer. Call once from the owning actor's
// PreStart.
func (f *FSM[S, D]) Start(ctx Context) {
	f.armTimer(ctx)
}

// Receive implements the FSM's half of the actor protocol: cancel the
// stale timer, drop stale StateTimeouts, let PoisonPill fall through
// unhandled so the cell's own teardown path takes over, then dispatch to
// the current state's handler and apply the resulting action.
func (f *FSM[S, D]) Receive(ctx Context, msg interface{}) (bool, error) {
	if st, ok := msg.(StateTimeout); ok {
		f.mu.Lock()
		stale := st.State != fmt.Sprint(f.current)
		f.mu.Unlock()
		if stale {
			return true, nil
		}
	}
	if _, ok := msg.(PoisonPill); ok {
		return false, nil
	}

	ctx.Timers().Cancel(fsmTimerKey)

	f.mu.Lock()
	state := f.current
	data := f.data
	s, ok := f.states[state]
	f.mu.Unlock()
	if !ok {
		return false, nil
	}

	action := s.handler(msg, ctx, data)
	return f.apply(ctx, msg, state, action)
}

func (f *FSM[S, D]) apply(ctx Context, msg interface{}, from S, action FSMAction[S, D]) (bool, error) {
	switch action.kind {
	case fsmGoto:
		f.mu.Lock()
		to := action.state
		if action.hasData {
			f.data = action.data
		}
		f.current = to
		f.mu.Unlock()
		if f.onTransition != nil && !isEqual(from, to) {
			f.onTransition(from, to)
		}
		f.armTimer(ctx)
		return true, nil
	case fsmStay:
		if action.hasData {
			f.mu.Lock()
			f.data = action.data
			f.mu.Unlock()
		}
		f.armTimer(ctx)
		return true, nil
	case fsmStop:
		ctx.Self().Tell(PoisonPill{}, ctx.Self())
		return true, nil
	default: // fsmUnhandled
		if f.onUnhandled != nil {
			f.mu.Lock()
			state, data := f.current, f.data
			f.mu.Unlock()
			f.onUnhandled(msg, ctx, state, data)
			return true, nil
		}
		return false, nil
	}
}

func (f *FSM[S, D]) armTimer(ctx Context) {
	f.mu.Lock()
	state := f.current
	s, ok := f.states[state]
	f.mu.Unlock()
	if !ok || s.timeout <= 0 {
		return
	}
	label := fmt.Sprint(state)
	ctx.Timers().StartSingle(fsmTimerKey, ctx.Self(), ctx.Self(), s.timeout, StateTimeout{State: label})
}

func isEqual[S comparable](a, b S) bool { return a == b }
