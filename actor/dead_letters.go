package actor

import (
	"time"

	"github.com/nexusrt/actorkit/internal/log"
)

var deadLetterLog = log.New("deadletters")

// deadLettersRef is the sink every unroutable message eventually reaches:
// messages sent to a stopped/suspended cell, messages a Receive left
// unhandled, and messages addressed to an unknown path. It is never
// scheduled by a dispatcher — Tell is synchronous, logs, and drops (spec
// §4.3, "DeadLetters").
type deadLettersRef struct {
	system *ActorSystem
	path   ActorPath
}

func newDeadLettersRef(system *ActorSystem) *deadLettersRef {
	return &deadLettersRef{system: system, path: RootPath().Child("deadLetters")}
}

func (d *deadLettersRef) Tell(msg interface{}, sender ActorRef) {
	d.tellTo(msg, sender, d.path)
}

// tellTo is Tell with an explicit receiver path, used by internal call sites
// (cell.send, cell.processUserEnvelope, mailbox.CleanUp, a dangling
// LocalActorRef) that know the real target a message failed to reach. Public
// callers always go through Tell, whose receiver is dead letters itself — the
// correct record for a reply with nowhere to go (Context.Respond with no
// sender).
func (d *deadLettersRef) tellTo(msg interface{}, sender ActorRef, receiver ActorPath) {
	if d.system.metrics != nil {
		d.system.metrics.DeadLetters.Inc()
	}
	senderPath := "unknown"
	if sender != nil {
		senderPath = sender.Path().String()
	}
	deadLetterLog.Info("DeadLetter received from "+senderPath+" to "+receiver.String(), log.Message(msg))
}

// Ask on dead letters never replies; the caller always observes AskTimeout
// once the configured interval elapses, which is the correct behavior for a
// message that landed nowhere.
func (d *deadLettersRef) Ask(sys *ActorSystem, msg interface{}) (interface{}, error) {
	return ask(sys, d, msg, defaultAskTimeout)
}

func (d *deadLettersRef) AskTimeout(sys *ActorSystem, timeout time.Duration, msg interface{}) (interface{}, error) {
	return ask(sys, d, msg, timeout)
}

func (d *deadLettersRef) Path() ActorPath { return d.path }

func (d *deadLettersRef) Equal(other ActorRef) bool {
	return other != nil && d.path.Equal(other.Path())
}
