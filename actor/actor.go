package actor

// Actor is the user-implementable contract every actor fulfills. Only
// Receive is required; the lifecycle hooks are optional and, if an actor
// type doesn't need them, need not be embedded at all — ActorCell checks for
// their presence with a type assertion before calling them, exactly as the
// teacher's protoactor-go checks for Initialiser/Terminator-style optional
// interfaces on its own Actor values.
type Actor interface {
	// Receive handles one message. Returning handled=false tells the cell
	// the message was not understood by user code so the kernel can try its
	// own internal-receive (PoisonPill) and, failing that, route to dead
	// letters. Returning a non-nil error invokes supervision; the message is
	// considered handled either way.
	Receive(ctx Context, msg interface{}) (handled bool, err error)
}

// PreStarter is called before the cell begins accepting user messages: on
// the goroutine that creates the cell, and again on the cell's worker thread
// for each fresh incarnation after a Restart.
type PreStarter interface {
	PreStart(ctx Context)
}

// PostStopper is called once teardown has begun: after the cell stops
// accepting new user work and after all of its children have themselves
// stopped.
type PostStopper interface {
	PostStop(ctx Context)
}

// PreFailer is invoked at the start of every fail() regardless of which
// strategy will ultimately run, so user code can observe/log the failure
// before the cell acts on it.
type PreFailer interface {
	PreFail(ctx Context, err error, strategy SupervisionStrategy)
}

// PostRestarter is called once a Restart has finished re-incarnating the
// user actor and the cell has resumed accepting messages.
type PostRestarter interface {
	PostRestart(ctx Context)
}

// ActorFunc adapts a plain function into an Actor, for simple actors that
// need no lifecycle hooks.
type ActorFunc func(ctx Context, msg interface{}) (bool, error)

func (f ActorFunc) Receive(ctx Context, msg interface{}) (bool, error) { return f(ctx, msg) }
