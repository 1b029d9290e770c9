package actor

import "time"

// CellId is the stable integer identity used to look a cell up in its
// system's cell arena. Replacing direct *cell pointers with CellId breaks
// the cyclic ownership (parent/children, watcher subscriptions, timer
// targets) the source expresses with shared pointers (see SPEC_FULL §3,
// Design Notes §9).
type CellId uint64

// ActorRef is a cheap, cloneable handle to a cell, local or remote.
// Equality is by path. tell never blocks; ask blocks the caller until its
// internal future resolves, and returns the resolved value.
type ActorRef interface {
	// Tell enqueues msg for asynchronous processing; sender may be nil, in
	// which case the cell treats dead letters as the effective sender.
	Tell(msg interface{}, sender ActorRef)
	// Ask sends msg and blocks until the first non-PoisonPill reply arrives,
	// returning it, or returns AskTimeout after the default timeout.
	Ask(sys *ActorSystem, msg interface{}) (interface{}, error)
	// AskTimeout is Ask with an explicit timeout.
	AskTimeout(sys *ActorSystem, timeout time.Duration, msg interface{}) (interface{}, error)
	Path() ActorPath
	Equal(other ActorRef) bool
}

// LocalActorRef is a handle to a cell owned by this process. It holds a
// CellId, not a *cell, and resolves through the owning system's cell arena
// on every operation so that holding a ref can never keep a stopped cell's
// mailbox/goroutines alive.
type LocalActorRef struct {
	system *ActorSystem
	id     CellId
	path   ActorPath
}

func newLocalRef(system *ActorSystem, id CellId, path ActorPath) *LocalActorRef {
	return &LocalActorRef{system: system, id: id, path: path}
}

func (r *LocalActorRef) cell() *cell {
	return r.system.lookupCell(r.id)
}

// Tell implements ActorRef. If the cell has since been removed from the
// arena (fully stopped and reaped), the message is routed to dead letters.
func (r *LocalActorRef) Tell(msg interface{}, sender ActorRef) {
	c := r.cell()
	if c == nil {
		r.system.deadLetters.tellTo(msg, sender, r.path)
		return
	}
	c.send(MessageEnvelope{Message: msg, Sender: sender})
}

func (r *LocalActorRef) Ask(sys *ActorSystem, msg interface{}) (interface{}, error) {
	return ask(sys, r, msg, defaultAskTimeout)
}

func (r *LocalActorRef) AskTimeout(sys *ActorSystem, timeout time.Duration, msg interface{}) (interface{}, error) {
	return ask(sys, r, msg, timeout)
}

func (r *LocalActorRef) Path() ActorPath { return r.path }

func (r *LocalActorRef) Equal(other ActorRef) bool {
	return other != nil && r.Path().Equal(other.Path())
}

const defaultAskTimeout = 3 * time.Second
