// Package executor provides the thread-pool collaborator the spec treats as
// an external blackbox: something implementing execute(task, placement_hint)
// and stop(). It is intentionally minimal — it is not the subject of this
// module, just a real seam for the dispatcher to schedule onto.
package executor

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size worker-goroutine pool. Tasks are placed onto a worker
// chosen by a placement hint ("bid") modulo the pool size, so that a given
// hint always lands on the same worker goroutine — the property the
// dispatcher relies on to pin a cell's invoke passes to one thread.
type Pool struct {
	queues []chan func()
	group  errgroup.Group
	once   sync.Once
}

// New starts a Pool with n worker goroutines.
func New(n int) *Pool {
	if n <= 0 {
		n = 1
	}
	p := &Pool{queues: make([]chan func(), n)}
	for i := range p.queues {
		q := make(chan func(), 256)
		p.queues[i] = q
		p.group.Go(func() error {
			for task := range q {
				task()
			}
			return nil
		})
	}
	return p
}

// Size reports the number of worker goroutines.
func (p *Pool) Size() int { return len(p.queues) }

// Execute submits task to run on the worker selected by hint. Execute never
// blocks the caller beyond the queue's buffer; a full queue will block the
// submitting goroutine, mirroring a bounded executor's backpressure.
func (p *Pool) Execute(task func(), hint int) {
	idx := hint % len(p.queues)
	if idx < 0 {
		idx += len(p.queues)
	}
	p.queues[idx] <- task
}

// Stop closes every worker queue and waits for in-flight tasks to drain.
func (p *Pool) Stop() {
	p.once.Do(func() {
		for _, q := range p.queues {
			close(q)
		}
	})
	_ = p.group.Wait()
}
