package actor_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexusrt/actorkit/actor"
)

type boomMsg struct{}
type pingMsg struct{}
type pongMsg struct{}

// restartChild fails on boomMsg and records the order its lifecycle hooks
// fire in, guarded by a mutex since hooks and receive may run on a
// different worker goroutine than the test's own.
type restartChild struct {
	mu    *sync.Mutex
	order *[]string
}

func (c *restartChild) PreFail(ctx actor.Context, err error, strategy actor.SupervisionStrategy) {
	c.mu.Lock()
	*c.order = append(*c.order, "pre_fail")
	c.mu.Unlock()
}

func (c *restartChild) PostStop(ctx actor.Context) {
	c.mu.Lock()
	*c.order = append(*c.order, "post_stop")
	c.mu.Unlock()
}

func (c *restartChild) PreStart(ctx actor.Context) {
	c.mu.Lock()
	*c.order = append(*c.order, "pre_start")
	c.mu.Unlock()
}

func (c *restartChild) PostRestart(ctx actor.Context) {
	c.mu.Lock()
	*c.order = append(*c.order, "post_restart")
	c.mu.Unlock()
}

func (c *restartChild) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	switch msg.(type) {
	case boomMsg:
		return false, errors.New("boom")
	case pingMsg:
		c.mu.Lock()
		*c.order = append(*c.order, "receive(Ping)")
		c.mu.Unlock()
		ctx.Respond(pongMsg{})
		return true, nil
	}
	return false, nil
}

// TestRestartStrategy is scenario S3.
func TestRestartStrategy(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	var (
		mu    sync.Mutex
		order []string
	)
	props := actor.PropsFromProducer(func() actor.Actor {
		return &restartChild{mu: &mu, order: &order}
	}).WithSupervisionStrategy(actor.Restart)

	child, err := sys.ActorOf(props, "restart-child")
	require.NoError(t, err)

	child.Tell(boomMsg{}, nil)

	reply, err := child.AskTimeout(sys, time.Second, pingMsg{})
	require.NoError(t, err)
	require.IsType(t, pongMsg{}, reply)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t,
		[]string{"pre_start", "pre_fail", "post_stop", "pre_start", "post_restart", "receive(Ping)"},
		order,
	)
}

// escalator records every PreFail it observes; its strategy comes from the
// Props it is spawned with.
type escalator struct {
	name string
	mu   *sync.Mutex
	seen *[]string
	fail bool
}

func (e *escalator) PreFail(ctx actor.Context, err error, strategy actor.SupervisionStrategy) {
	e.mu.Lock()
	*e.seen = append(*e.seen, e.name)
	e.mu.Unlock()
}

func (e *escalator) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	if _, ok := msg.(boomMsg); ok {
		if e.fail {
			return false, errors.New("boom")
		}
		return false, nil
	}
	if spawn, ok := msg.(spawnChildMsg); ok {
		ref, err := ctx.Spawn(spawn.props, spawn.name)
		if err != nil {
			return false, err
		}
		ctx.Respond(ref)
		return true, nil
	}
	return false, nil
}

type spawnChildMsg struct {
	props *actor.Props
	name  string
}

// TestEscalateChain is scenario S4: A(Restart) <- B(Escalate) <- C(Escalate),
// C fails on Boom, and every level's PreFail observes it in child-to-root
// order.
func TestEscalateChain(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	var (
		mu   sync.Mutex
		seen []string
	)

	aProps := actor.PropsFromProducer(func() actor.Actor {
		return &escalator{name: "A", mu: &mu, seen: &seen}
	}).WithSupervisionStrategy(actor.Restart)
	a, err := sys.ActorOf(aProps, "a")
	require.NoError(t, err)

	bProps := actor.PropsFromProducer(func() actor.Actor {
		return &escalator{name: "B", mu: &mu, seen: &seen}
	}).WithSupervisionStrategy(actor.Escalate)
	bRef, err := a.Ask(sys, spawnChildMsg{props: bProps, name: "b"})
	require.NoError(t, err)
	b := bRef.(actor.ActorRef)

	cProps := actor.PropsFromProducer(func() actor.Actor {
		return &escalator{name: "C", mu: &mu, seen: &seen, fail: true}
	}).WithSupervisionStrategy(actor.Escalate)
	cRef, err := b.Ask(sys, spawnChildMsg{props: cProps, name: "c"})
	require.NoError(t, err)
	c := cRef.(actor.ActorRef)

	c.Tell(boomMsg{}, nil)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"C", "B", "A"}, seen)
}
