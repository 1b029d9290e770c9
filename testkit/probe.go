// Package testkit provides a minimal actor test probe, the standard way
// tests in this module observe what a running actor system actually does
// without reaching into its internals.
package testkit

import (
	"testing"
	"time"

	"github.com/nexusrt/actorkit/actor"
)

// received pairs a delivered message with its sender, mirroring
// actor.MessageEnvelope.
type received struct {
	msg    interface{}
	sender actor.ActorRef
}

// TestProbe is an Actor that buffers the messages it receives onto a channel
// of capacity 64, for tests to assert against with
// ExpectMsg/ExpectNoMsg/ExpectTerminated. Messages that arrive while the
// channel is full are dropped.
type TestProbe struct {
	ref ActorRef
	ch  chan received
}

// ActorRef is a narrow alias so callers don't need to import the actor
// package just to name the probe's own type.
type ActorRef = actor.ActorRef

// NewProbe spawns a TestProbe as a top-level actor on sys and returns it along
// with its ref.
func NewProbe(sys *actor.ActorSystem) (*TestProbe, actor.ActorRef) {
	p := &TestProbe{ch: make(chan received, 64)}
	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return p }), "")
	if err != nil {
		panic(err)
	}
	p.ref = ref
	return p, ref
}

// Ref returns the probe's own ActorRef.
func (p *TestProbe) Ref() actor.ActorRef { return p.ref }

// Receive implements actor.Actor by buffering every message it sees.
func (p *TestProbe) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	select {
	case p.ch <- received{msg: msg, sender: ctx.Sender()}:
	default:
	}
	return true, nil
}

// ExpectMsg waits up to timeout for the next buffered message and fails t
// if none arrives.
func (p *TestProbe) ExpectMsg(t *testing.T, timeout time.Duration) interface{} {
	t.Helper()
	select {
	case r := <-p.ch:
		return r.msg
	case <-time.After(timeout):
		t.Fatalf("testkit: no message received within %s", timeout)
		return nil
	}
}

// ExpectNoMsg fails t if a message arrives before timeout elapses.
func (p *TestProbe) ExpectNoMsg(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case r := <-p.ch:
		t.Fatalf("testkit: expected no message, got %#v", r.msg)
	case <-time.After(timeout):
	}
}

// ExpectTerminated waits for an actor.Terminated message naming who and
// fails t if it doesn't arrive within timeout.
func (p *TestProbe) ExpectTerminated(t *testing.T, who actor.ActorRef, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case r := <-p.ch:
			if term, ok := r.msg.(actor.Terminated); ok && term.Who.Equal(who) {
				return
			}
		case <-deadline:
			t.Fatalf("testkit: Terminated for %s not received within %s", who.Path(), timeout)
			return
		}
	}
}
