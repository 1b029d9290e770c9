package actor

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/nexusrt/actorkit/internal/executor"
	"github.com/nexusrt/actorkit/internal/log"
	"github.com/nexusrt/actorkit/internal/metrics"
)

var sysLog = log.New("system")

// ActorSystem is the process-wide root of the actor hierarchy: it owns the
// cell arena, the dispatcher registry, the scheduler, the watcher bus, and
// dead letters (spec §4.10). A process normally constructs exactly one.
type ActorSystem struct {
	arena   sync.Map // CellId -> *cell
	nextID  atomic.Uint64
	nextBid atomic.Uint64

	dispatchersMu sync.Mutex
	dispatchers   map[string]Dispatcher

	pool      *executor.Pool
	scheduler *Scheduler
	watcher   *watcher
	metrics   *metrics.Registry

	deadLetters *deadLettersRef
	root        *cell
}

// Option configures a new ActorSystem.
type Option func(*systemConfig)

type systemConfig struct {
	poolSize int
	metrics  *metrics.Registry
}

// WithPoolSize overrides the shared dispatcher's worker count (default 8).
func WithPoolSize(n int) Option {
	return func(c *systemConfig) { c.poolSize = n }
}

// WithMetrics installs an already-constructed metrics registry, e.g. one
// also registered with an external Prometheus gatherer.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *systemConfig) { c.metrics = m }
}

// NewActorSystem builds a ready ActorSystem: a shared pool dispatcher, a
// pinned dispatcher factory, a scheduler, a watcher bus, dead letters, and a
// started root guardian.
func NewActorSystem(opts ...Option) *ActorSystem {
	cfg := systemConfig{poolSize: 8}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.metrics == nil {
		cfg.metrics = metrics.New()
	}

	sys := &ActorSystem{
		dispatchers: make(map[string]Dispatcher),
		pool:        executor.New(cfg.poolSize),
		scheduler:   NewScheduler(),
		watcher:     newWatcher(),
		metrics:     cfg.metrics,
	}
	sys.deadLetters = newDeadLettersRef(sys)
	sys.dispatchers[DefaultDispatcherName] = NewSharedPoolDispatcher(sys.pool)

	rootProps := PropsFromProducer(func() Actor { return &rootGuardian{} })
	sys.root = sys.newRootCell(rootProps)
	sys.root.start()

	sysLog.Info("actor system started", log.Field{Key: "poolSize", Value: cfg.poolSize})
	return sys
}

// rootGuardian is the user-space actor backing /root. It leaves every
// message unhandled, which routes anything sent directly to it to dead
// letters — matching the spec's description of the root as a supervisor
// node, not a worker.
type rootGuardian struct{}

func (rootGuardian) Receive(Context, interface{}) (bool, error) { return false, nil }

func (sys *ActorSystem) newRootCell(props *Props) *cell {
	id := CellId(sys.nextID.Add(1))
	path := RootPath()
	dispatcher := sys.dispatchers[DefaultDispatcherName]
	bid := int(sys.nextBid.Add(1))
	c := newCell(sys, id, path, props, nil, dispatcher, false, bid)
	c.actor = props.producer()
	c.self = newLocalRef(sys, id, path)
	sys.arena.Store(id, c)
	return c
}

func (sys *ActorSystem) lookupCell(id CellId) *cell {
	v, ok := sys.arena.Load(id)
	if !ok {
		return nil
	}
	return v.(*cell)
}

func (sys *ActorSystem) removeCell(id CellId) {
	sys.arena.Delete(id)
}

// GetNid returns a fresh, process-unique anonymous actor name, used when
// Spawn/ActorOf is called with an empty name.
func (sys *ActorSystem) GetNid() string {
	return "$" + uuid.NewString()
}

// DeadLetters returns the process-wide dead-letters sink.
func (sys *ActorSystem) DeadLetters() ActorRef { return sys.deadLetters }

// Metrics returns the registry backing this system's counters and gauges.
func (sys *ActorSystem) Metrics() *metrics.Registry { return sys.metrics }

// GetScheduler returns the system's wall-clock scheduler, shared by every
// cell's Timers facade.
func (sys *ActorSystem) GetScheduler() *Scheduler { return sys.scheduler }

// AddDispatcher registers a custom dispatcher under name, for Props to name
// via WithDispatcher. Registering under DefaultDispatcherName replaces the
// current default outright (stopping the one it displaces); any other name
// fails with KindUnknownDispatcher-style collision if already registered,
// matching spec §4.1's "add_dispatcher" contract.
func (sys *ActorSystem) AddDispatcher(name string, d Dispatcher) {
	sys.dispatchersMu.Lock()
	defer sys.dispatchersMu.Unlock()

	old, exists := sys.dispatchers[name]
	if exists && name != DefaultDispatcherName {
		panicKernel(KindUnknownDispatcher, "dispatcher name already registered: "+name)
	}
	sys.dispatchers[name] = d
	if name == DefaultDispatcherName && exists {
		old.Stop()
	}
}

// GetDispatcher resolves a dispatcher by name.
func (sys *ActorSystem) GetDispatcher(name string) (Dispatcher, bool) {
	sys.dispatchersMu.Lock()
	defer sys.dispatchersMu.Unlock()
	d, ok := sys.dispatchers[name]
	return d, ok
}

// GetDispatchers returns every registered dispatcher name.
func (sys *ActorSystem) GetDispatchers() []string {
	sys.dispatchersMu.Lock()
	defer sys.dispatchersMu.Unlock()
	names := make([]string, 0, len(sys.dispatchers))
	for name := range sys.dispatchers {
		names = append(names, name)
	}
	return names
}

// GetExecutor exposes the shared worker pool backing the default
// dispatcher, for callers constructing their own Dispatcher on top of it.
func (sys *ActorSystem) GetExecutor() *executor.Pool { return sys.pool }

// ActorOf spawns a top-level actor as a child of the root guardian. An
// empty name is replaced with a generated one.
func (sys *ActorSystem) ActorOf(props *Props, name string) (ActorRef, error) {
	return sys.spawnChild(sys.root, props, name)
}

// spawnChild creates and starts a new cell as a child of parent.
func (sys *ActorSystem) spawnChild(parent *cell, props *Props, name string) (ActorRef, error) {
	if name == "" {
		name = sys.GetNid()
	}

	parent.childrenMu.Lock()
	if parent.children == nil {
		parent.children = make(map[string]*cell)
	}
	if _, exists := parent.children[name]; exists {
		parent.childrenMu.Unlock()
		panicKernel(KindDuplicateSibling, name)
	}
	parent.childrenMu.Unlock()

	var dispatcher Dispatcher
	if props.dispatcher != PinnedDispatcherName {
		d, ok := sys.GetDispatcher(props.dispatcher)
		if !ok {
			panicKernel(KindUnknownDispatcher, props.dispatcher)
		}
		dispatcher = d
	}

	id := CellId(sys.nextID.Add(1))
	path := parent.path.Child(name)

	var (
		disp     Dispatcher
		ownsDisp bool
		bid      int
	)
	if props.dispatcher == PinnedDispatcherName {
		ownsDisp = true
		bid = 0
	} else {
		disp = dispatcher
		bid = int(sys.nextBid.Add(1))
	}

	c := newCell(sys, id, path, props, parent, disp, ownsDisp, bid)
	c.actor = props.producer()
	c.self = newLocalRef(sys, id, path)

	if props.dispatcher == PinnedDispatcherName {
		c.dispatcher = NewPinnedDispatcher(c)
	}

	sys.arena.Store(id, c)

	parent.childrenMu.Lock()
	parent.children[name] = c
	parent.childrenMu.Unlock()

	c.start()
	return c.self, nil
}

// spawnAskGuardian spawns a one-shot child under root for ask; it uses the
// default dispatcher since it only ever receives one message.
func (sys *ActorSystem) spawnAskGuardian(props *Props) (ActorRef, error) {
	return sys.spawnChild(sys.root, props, "")
}

// Stop asks ref's cell to suspend, flush its mailbox to dead letters, and
// tear down via the internal PoisonPill path. Stopping a remote or already
// absent ref is a no-op.
func (sys *ActorSystem) Stop(ref ActorRef) {
	lref, ok := ref.(*LocalActorRef)
	if !ok {
		return
	}
	c := lref.cell()
	if c == nil {
		return
	}
	c.suspended.Store(true)
	c.mailbox.CleanUp(c.self, sys.deadLetters)
	c.forceSend(MessageEnvelope{Message: PoisonPill{}, Sender: c.self})
}

// Watch and Unwatch are system-level conveniences equivalent to calling
// Watch/Unwatch from inside the watcher's own Context.
func (sys *ActorSystem) Watch(watcherRef, observed ActorRef) {
	sys.watcher.watch(watcherRef, observed)
}

func (sys *ActorSystem) Unwatch(watcherRef, observed ActorRef) {
	sys.watcher.unwatch(watcherRef, observed)
}

// ActorSelect resolves a "/root/a/b" path by walking the live cell tree,
// returning at most one ref: an empty slice if any segment is missing or
// the path doesn't start at root, a one-element slice if it resolves.
func (sys *ActorSystem) ActorSelect(path string) []ActorRef {
	segments := ParsePath(path)
	if len(segments) == 0 || segments[0] != RootName {
		return nil
	}
	cur := sys.root
	for _, seg := range segments[1:] {
		cur.childrenMu.Lock()
		next, ok := cur.children[seg]
		cur.childrenMu.Unlock()
		if !ok {
			return nil
		}
		cur = next
	}
	return []ActorRef{cur.self}
}

// Terminate stops the entire system: it tears down the root guardian (and
// transitively every descendant), blocks until the full chain has finished
// (per the resolved Open Question in SPEC_FULL §9), then stops every
// registered dispatcher and the shared pool underneath them (spec §4.1,
// "terminate()").
func (sys *ActorSystem) Terminate() {
	root := sys.root
	sys.Stop(root.self)
	<-root.terminatedCh

	sys.dispatchersMu.Lock()
	dispatchers := make([]Dispatcher, 0, len(sys.dispatchers))
	for _, d := range sys.dispatchers {
		dispatchers = append(dispatchers, d)
	}
	sys.dispatchersMu.Unlock()
	for _, d := range dispatchers {
		d.Stop()
	}

	if sys.pool != nil {
		sys.pool.Stop()
	}
}
