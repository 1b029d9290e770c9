package actor

import (
	"time"

	"github.com/nexusrt/actorkit/internal/future"
)

// askActor is the ephemeral actor ask spawns under the hood: it owns a
// future, forwards msg to target with itself as sender, and resolves the
// future with whatever arrives first — or AskTimeout once the timer fires
// first (spec §4.7).
type askActor struct {
	fut     *future.Future[interface{}]
	timeout time.Duration
	timer   TaskHandle
}

func (a *askActor) Receive(ctx Context, msg interface{}) (bool, error) {
	if _, ok := msg.(PoisonPill); ok {
		// Let the kernel's own PoisonPill handling stop this guardian; the
		// future is left to resolve off its own timer, per spec §4.7
		// ("first non-PoisonPill message").
		return false, nil
	}
	if a.timer != nil {
		a.timer.Cancel()
	}
	a.fut.Complete(msg, nil)
	return true, nil
}

// ask implements ActorRef.Ask/AskTimeout: spawn a one-shot guardian child,
// tell target the message with the guardian as sender, and wait for either
// a reply or the timeout.
func ask(sys *ActorSystem, target ActorRef, msg interface{}, timeout time.Duration) (interface{}, error) {
	fut := future.New[interface{}]()
	a := &askActor{fut: fut, timeout: timeout}

	props := PropsFromProducer(func() Actor { return a })
	ref, err := sys.spawnAskGuardian(props)
	if err != nil {
		return nil, err
	}
	a.timer = sys.scheduler.ScheduleOnce(timeout, func() {
		if sys.metrics != nil {
			sys.metrics.AskTimeouts.Inc()
		}
		fut.Complete(nil, &AskTimeout{Elapsed: timeout})
	})

	target.Tell(msg, ref)

	result, err := fut.Wait()
	sys.Stop(ref)
	if err != nil {
		return nil, err
	}
	return result, nil
}
