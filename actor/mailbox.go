package actor

import (
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"go.uber.org/atomic"

	"github.com/nexusrt/actorkit/internal/metrics"
)

// Mailbox is an ordered FIFO of envelopes, plus a boolean "planned" flag
// used by the dispatcher to guarantee at most one concurrent invoke pass per
// cell (see SPEC_FULL §5).
type Mailbox interface {
	Enqueue(env MessageEnvelope)
	EnqueueSystem(msg systemMessage)
	Dequeue() (MessageEnvelope, bool)
	DequeueSystem() (systemMessage, bool)
	HasMessages() bool
	Planned() bool
	// TryPlan atomically transitions planned false->true and reports
	// whether it succeeded; a dispatcher only submits an invoke task when
	// this returns true, guaranteeing at most one outstanding invoke per
	// cell (see SPEC_FULL §5).
	TryPlan() bool
	// Unplan clears planned; called once an invoke pass finds the mailbox
	// empty (pool dispatcher: after every pass; pinned dispatcher: after
	// fully draining).
	Unplan()
	// CleanUp moves every pending user envelope to dead letters, tagging
	// owner as both the sender and the receiver on each resulting
	// dead-letter record — the envelope was addressed to owner's own cell.
	CleanUp(owner ActorRef, deadLetters *deadLettersRef)
}

// unboundedMailbox is the standard mailbox variant named by the spec; bounded
// variants are out of scope for the core. User envelopes and system
// messages are queued separately so that system messages (stop/fail/
// child-terminated) always drain before the next user envelope is
// processed, per SPEC_FULL §4.2.
type unboundedMailbox struct {
	mu       sync.Mutex
	sysQueue *linkedlistqueue.Queue
	usrQueue *linkedlistqueue.Queue
	planned  atomic.Bool
	metrics  *metrics.Registry
}

// NewUnboundedMailbox constructs the standard FIFO mailbox. metrics may be
// nil, in which case depth is not recorded.
func NewUnboundedMailbox(m *metrics.Registry) Mailbox {
	return &unboundedMailbox{
		sysQueue: linkedlistqueue.New(),
		usrQueue: linkedlistqueue.New(),
		metrics:  m,
	}
}

func (mb *unboundedMailbox) Enqueue(env MessageEnvelope) {
	mb.mu.Lock()
	mb.usrQueue.Enqueue(env)
	mb.mu.Unlock()
	if mb.metrics != nil {
		mb.metrics.MailboxDepth.Inc()
	}
}

func (mb *unboundedMailbox) EnqueueSystem(msg systemMessage) {
	mb.mu.Lock()
	mb.sysQueue.Enqueue(msg)
	mb.mu.Unlock()
}

func (mb *unboundedMailbox) Dequeue() (MessageEnvelope, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	v, ok := mb.usrQueue.Dequeue()
	if !ok {
		return MessageEnvelope{}, false
	}
	if mb.metrics != nil {
		mb.metrics.MailboxDepth.Dec()
	}
	return v.(MessageEnvelope), true
}

func (mb *unboundedMailbox) DequeueSystem() (systemMessage, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	v, ok := mb.sysQueue.Dequeue()
	if !ok {
		return nil, false
	}
	return v.(systemMessage), true
}

func (mb *unboundedMailbox) HasMessages() bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return !mb.sysQueue.Empty() || !mb.usrQueue.Empty()
}

func (mb *unboundedMailbox) Planned() bool { return mb.planned.Load() }
func (mb *unboundedMailbox) TryPlan() bool { return mb.planned.CompareAndSwap(false, true) }
func (mb *unboundedMailbox) Unplan()       { mb.planned.Store(false) }

func (mb *unboundedMailbox) CleanUp(owner ActorRef, deadLetters *deadLettersRef) {
	mb.mu.Lock()
	pending := make([]MessageEnvelope, 0, mb.usrQueue.Size())
	for {
		v, ok := mb.usrQueue.Dequeue()
		if !ok {
			break
		}
		pending = append(pending, v.(MessageEnvelope))
	}
	if mb.metrics != nil {
		mb.metrics.MailboxDepth.Sub(float64(len(pending)))
	}
	mb.mu.Unlock()

	for _, env := range pending {
		deadLetters.tellTo(env.Message, owner, owner.Path())
	}
}
