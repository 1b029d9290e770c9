package actor

import "github.com/emirpasic/gods/queues/linkedlistqueue"

// Stash is the per-actor user-side queue of deferred messages, distinct
// from the mailbox (spec §4.9).
type Stash interface {
	// Stash appends the message currently being processed, along with its
	// sender, to the stash.
	Stash()
	// UnstashAll re-tells every stashed envelope to self, in the order it
	// was stashed, preserving each envelope's original sender.
	UnstashAll()
	Empty() bool
	Size() int
}

// fifoStash is the standard Stash implementation. The teacher's own Stash
// uses emirpasic/gods' linkedliststack (LIFO) for both push and
// unstash-replay, which silently reverses replay order; the spec's
// unstash_all invariant requires messages to replay in the order they were
// stashed, so this implementation uses gods' linkedlistqueue (FIFO) instead
// — the one deliberate behavioral deviation from the teacher, required by
// an explicit spec invariant rather than taste (see SPEC_FULL §4.9).
type fifoStash struct {
	cell  *cell
	queue *linkedlistqueue.Queue
}

func newFifoStash(c *cell) *fifoStash {
	return &fifoStash{cell: c, queue: linkedlistqueue.New()}
}

func (s *fifoStash) Stash() {
	s.queue.Enqueue(MessageEnvelope{Message: s.cell.currentMessage, Sender: s.cell.currentSender})
}

func (s *fifoStash) UnstashAll() {
	for {
		v, ok := s.queue.Dequeue()
		if !ok {
			return
		}
		env := v.(MessageEnvelope)
		s.cell.self.Tell(env.Message, env.Sender)
	}
}

func (s *fifoStash) Empty() bool { return s.queue.Empty() }
func (s *fifoStash) Size() int   { return s.queue.Size() }

// nopStash is a stub Stash so an actor can hold a field of Stash type
// without an Option wrapper even before its cell has ever called
// ensureStash (spec §4.9: "a stub variant exists so actors can own a field
// of stash type without Option wrapping").
type nopStash struct{}

func (nopStash) Stash()      {}
func (nopStash) UnstashAll() {}
func (nopStash) Empty() bool { return true }
func (nopStash) Size() int   { return 0 }

// NopStash is the zero-value Stash: an actor struct can initialize a Stash
// field to NopStash and safely call its methods before the owning cell has
// ever built a real stash via Context.Stash().
var NopStash Stash = nopStash{}
