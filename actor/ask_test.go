package actor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/nexusrt/actorkit/actor"
)

type qMsg struct{}
type lateReply struct{}

// silentActor records the sender of the first qMsg it sees but never
// replies, so the ask future is left to resolve purely off its timer.
type silentActor struct {
	mu     sync.Mutex
	sender actor.ActorRef
}

func (s *silentActor) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	if _, ok := msg.(qMsg); ok {
		s.mu.Lock()
		s.sender = ctx.Sender()
		s.mu.Unlock()
		return true, nil
	}
	return false, nil
}

// TestAskTimeout is scenario S5: an actor that never replies causes
// AskTimeout to resolve as a failure well within its deadline, and a reply
// that arrives after the guardian has already been stopped lands in dead
// letters instead of being silently dropped or panicking.
func TestAskTimeout(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	silent := &silentActor{}
	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return silent }), "silent")
	require.NoError(t, err)

	start := time.Now()
	_, askErr := ref.AskTimeout(sys, 50*time.Millisecond, qMsg{})
	elapsed := time.Since(start)

	require.Error(t, askErr)
	var timeoutErr *actor.AskTimeout
	require.ErrorAs(t, askErr, &timeoutErr)
	require.Less(t, elapsed, 100*time.Millisecond)

	before := testutil.ToFloat64(sys.Metrics().DeadLetters)

	silent.mu.Lock()
	asker := silent.sender
	silent.mu.Unlock()
	require.NotNil(t, asker)

	asker.Tell(lateReply{}, ref)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(sys.Metrics().DeadLetters) > before
	}, time.Second, 5*time.Millisecond)
}
