package actor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexusrt/actorkit/actor"
)

type turnstileState int

const (
	locked turnstileState = iota
	unlocked
)

type coinMsg struct{}
type pushMsg struct{}

type turnstileActor struct {
	fsm *actor.FSM[turnstileState, int]

	mu          sync.Mutex
	transitions []string
}

func newTurnstile() *turnstileActor {
	t := &turnstileActor{}
	t.fsm = actor.NewFSM[turnstileState, int](locked, 0)
	t.fsm.When(locked, 0, func(msg interface{}, ctx actor.Context, coins int) actor.FSMAction[turnstileState, int] {
		if _, ok := msg.(coinMsg); ok {
			return actor.GotoUsing[turnstileState, int](unlocked, coins+1)
		}
		return actor.Unhandled[turnstileState, int]()
	})
	t.fsm.When(unlocked, 50*time.Millisecond, func(msg interface{}, ctx actor.Context, coins int) actor.FSMAction[turnstileState, int] {
		switch msg.(type) {
		case pushMsg:
			return actor.Goto[turnstileState, int](locked)
		case actor.StateTimeout:
			return actor.Goto[turnstileState, int](locked)
		}
		return actor.Unhandled[turnstileState, int]()
	})
	t.fsm.OnTransition(func(from, to turnstileState) {
		t.mu.Lock()
		t.transitions = append(t.transitions, stateName(from)+"->"+stateName(to))
		t.mu.Unlock()
	})
	return t
}

func stateName(s turnstileState) string {
	if s == locked {
		return "locked"
	}
	return "unlocked"
}

func (t *turnstileActor) PreStart(ctx actor.Context) { t.fsm.Start(ctx) }

func (t *turnstileActor) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	return t.fsm.Receive(ctx, msg)
}

// TestFSMCoinPush drives a turnstile through coin -> push and back to
// locked, asserting the transition log and that the state/data mutate as
// each action dictates.
func TestFSMCoinPush(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	turnstile := newTurnstile()
	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return turnstile }), "turnstile")
	require.NoError(t, err)

	ref.Tell(coinMsg{}, nil)
	require.Eventually(t, func() bool {
		s, coins := turnstile.fsm.State()
		return s == unlocked && coins == 1
	}, time.Second, 5*time.Millisecond)

	ref.Tell(pushMsg{}, nil)
	require.Eventually(t, func() bool {
		s, _ := turnstile.fsm.State()
		return s == locked
	}, time.Second, 5*time.Millisecond)

	turnstile.mu.Lock()
	defer turnstile.mu.Unlock()
	require.Equal(t, []string{"locked->unlocked", "unlocked->locked"}, turnstile.transitions)
}

// TestFSMStateTimeout exercises the idle timer: unlocked with no push within
// its timeout reverts to locked on its own.
func TestFSMStateTimeout(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	turnstile := newTurnstile()
	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return turnstile }), "turnstile-timeout")
	require.NoError(t, err)

	ref.Tell(coinMsg{}, nil)
	require.Eventually(t, func() bool {
		s, _ := turnstile.fsm.State()
		return s == unlocked
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		s, _ := turnstile.fsm.State()
		return s == locked
	}, time.Second, 5*time.Millisecond)

	turnstile.mu.Lock()
	defer turnstile.mu.Unlock()
	require.Equal(t, []string{"locked->unlocked", "unlocked->locked"}, turnstile.transitions)
}
