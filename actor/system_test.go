package actor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/nexusrt/actorkit/actor"
	"github.com/nexusrt/actorkit/testkit"
)

type printMsg struct{ Text string }
type ackMsg struct{ Len int }

type echoActor struct {
	mu      sync.Mutex
	printed []string
}

func (e *echoActor) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	p, ok := msg.(printMsg)
	if !ok {
		return false, nil
	}
	e.mu.Lock()
	e.printed = append(e.printed, p.Text)
	e.mu.Unlock()
	ctx.Respond(ackMsg{Len: len(p.Text)})
	return true, nil
}

// TestHelloEcho is scenario S1: tell(Print) then expect_msg(Ack), with the
// capture sink observing the printed line.
func TestHelloEcho(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	echo := &echoActor{}
	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return echo }), "echo")
	require.NoError(t, err)

	probe, probeRef := testkit.NewProbe(sys)
	ref.Tell(printMsg{Text: "Hello"}, probeRef)

	msg := probe.ExpectMsg(t, time.Second)
	ack, ok := msg.(ackMsg)
	require.True(t, ok, "expected ackMsg, got %#v", msg)
	require.Equal(t, 5, ack.Len)

	echo.mu.Lock()
	defer echo.mu.Unlock()
	require.Equal(t, []string{"Hello"}, echo.printed)
}

type nopActor struct{}

func (nopActor) Receive(actor.Context, interface{}) (bool, error) { return false, nil }

// TestPoisonPillStops is scenario S2: a watched actor stopped via PoisonPill
// delivers exactly one Terminated, and further sends to it land in dead
// letters.
func TestPoisonPillStops(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return nopActor{} }), "victim")
	require.NoError(t, err)

	probe, probeRef := testkit.NewProbe(sys)
	sys.Watch(probeRef, ref)

	ref.Tell(actor.PoisonPill{}, nil)
	probe.ExpectTerminated(t, ref, time.Second)

	before := testutil.ToFloat64(sys.Metrics().DeadLetters)
	ref.Tell(struct{ X int }{X: 1}, probeRef)
	probe.ExpectNoMsg(t, 100*time.Millisecond)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(sys.Metrics().DeadLetters) > before
	}, time.Second, 5*time.Millisecond)
}

// TestFIFOOrdering is scenario S6: messages sent in order from a single
// goroutine are received in the same order.
func TestFIFOOrdering(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(4))
	defer sys.Terminate()

	var (
		mu  sync.Mutex
		log []int
	)
	recorder := actor.ActorFunc(func(ctx actor.Context, msg interface{}) (bool, error) {
		n, ok := msg.(int)
		if !ok {
			return false, nil
		}
		mu.Lock()
		log = append(log, n)
		mu.Unlock()
		return true, nil
	})

	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return recorder }), "recorder")
	require.NoError(t, err)

	ref.Tell(1, nil)
	ref.Tell(2, nil)
	ref.Tell(3, nil)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(log) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2, 3}, log)
}

// TestSelectMissingPath is scenario S7.
func TestSelectMissingPath(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(1))
	defer sys.Terminate()

	refs := sys.ActorSelect("/root/missing")
	require.Empty(t, refs)
}

func TestSelectResolvesLiveActor(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(1))
	defer sys.Terminate()

	_, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return nopActor{} }), "a")
	require.NoError(t, err)

	refs := sys.ActorSelect("/root/a")
	require.Len(t, refs, 1)
	require.Equal(t, "/root/a", refs[0].Path().String())
}
