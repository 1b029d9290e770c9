package actor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexusrt/actorkit/actor"
	"github.com/nexusrt/actorkit/testkit"
)

// TestWatchAlreadyTerminated covers the case where Watch is called after the
// observed actor has already stopped: Terminated must still be delivered,
// synchronously with respect to the watch call rather than requiring a new
// failure to trigger it.
func TestWatchAlreadyTerminated(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return nopActor{} }), "short-lived")
	require.NoError(t, err)

	ref.Tell(actor.PoisonPill{}, nil)
	require.Eventually(t, func() bool {
		return len(sys.ActorSelect("/root/short-lived")) == 0
	}, time.Second, 5*time.Millisecond)

	probe, probeRef := testkit.NewProbe(sys)
	sys.Watch(probeRef, ref)
	probe.ExpectTerminated(t, ref, time.Second)
}

// TestUnwatchSuppressesTerminated covers the refcounted unwatch path: once a
// watcher unwatches, it must not receive Terminated for a later stop.
func TestUnwatchSuppressesTerminated(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return nopActor{} }), "watched")
	require.NoError(t, err)

	probe, probeRef := testkit.NewProbe(sys)
	sys.Watch(probeRef, ref)
	sys.Unwatch(probeRef, ref)

	ref.Tell(actor.PoisonPill{}, nil)
	probe.ExpectNoMsg(t, 200*time.Millisecond)
}

// TestMultipleWatchersEachNotified covers the fan-out side of the refcounted
// map: every distinct watcher gets exactly one Terminated.
func TestMultipleWatchersEachNotified(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return nopActor{} }), "watched-multi")
	require.NoError(t, err)

	probe1, probeRef1 := testkit.NewProbe(sys)
	probe2, probeRef2 := testkit.NewProbe(sys)
	sys.Watch(probeRef1, ref)
	sys.Watch(probeRef2, ref)

	ref.Tell(actor.PoisonPill{}, nil)
	probe1.ExpectTerminated(t, ref, time.Second)
	probe2.ExpectTerminated(t, ref, time.Second)
}
