package actor

import "time"

// PoisonPill is a built-in message that, when dequeued, stops the receiving
// actor: the cell suspends, drains its mailbox to dead letters, and tears
// down.
type PoisonPill struct{}

// Terminated is delivered to subscribers of death watch once an observed
// actor's post_stop has returned.
type Terminated struct {
	Who ActorRef
}

// StateTimeout is the message an FSM's per-state idle timer sends to itself.
// State carries the name of the state the timer was armed for, so a stale
// timeout firing after a transition can be recognized and ignored.
type StateTimeout struct {
	State string
}

// AskTimeout is the failure value an ask/ask_timeout future resolves with
// when no reply arrives in time.
type AskTimeout struct {
	Elapsed time.Duration
}

func (AskTimeout) Error() string { return "actor: ask timed out waiting for a reply" }

// Restarting, Stopping, Started, and Stopped are lifecycle notices, matching
// the teacher's own lifecycle message types. The kernel sets Started as
// ctx.Message() while PreStart and PostRestart run, and Stopped while
// PostStop runs; they are never routed through Receive. Stopping and
// Restarting are not set by the kernel.
type (
	Started    struct{}
	Stopping   struct{}
	Stopped    struct{}
	Restarting struct{}
)
