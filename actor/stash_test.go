package actor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexusrt/actorkit/actor"
)

type openMsg struct{}
type itemMsg struct{ N int }

// gatedActor stashes every itemMsg it sees until openMsg arrives, then
// unstashes everything and should observe items in the order they arrived.
type gatedActor struct {
	open bool

	mu   sync.Mutex
	seen []int
}

func (g *gatedActor) Receive(ctx actor.Context, msg interface{}) (bool, error) {
	switch m := msg.(type) {
	case openMsg:
		g.open = true
		ctx.Stash().UnstashAll()
		return true, nil
	case itemMsg:
		if !g.open {
			ctx.Stash().Stash()
			return true, nil
		}
		g.mu.Lock()
		g.seen = append(g.seen, m.N)
		g.mu.Unlock()
		return true, nil
	}
	return false, nil
}

// TestStashReplaysInOrder is scenario coverage for the stash's unstash_all
// invariant: messages replay in the order they were stashed, not reversed.
func TestStashReplaysInOrder(t *testing.T) {
	sys := actor.NewActorSystem(actor.WithPoolSize(2))
	defer sys.Terminate()

	gated := &gatedActor{}
	ref, err := sys.ActorOf(actor.PropsFromProducer(func() actor.Actor { return gated }), "gated")
	require.NoError(t, err)

	ref.Tell(itemMsg{N: 1}, nil)
	ref.Tell(itemMsg{N: 2}, nil)
	ref.Tell(itemMsg{N: 3}, nil)
	ref.Tell(openMsg{}, nil)

	require.Eventually(t, func() bool {
		gated.mu.Lock()
		defer gated.mu.Unlock()
		return len(gated.seen) == 3
	}, time.Second, 5*time.Millisecond)

	gated.mu.Lock()
	defer gated.mu.Unlock()
	require.Equal(t, []int{1, 2, 3}, gated.seen)
}
