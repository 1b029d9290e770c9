package actor

import "sync"

// watcher is the process-wide death-watch bus (spec §4.5). Subscriptions are
// counted per (observed, watcher) pair rather than stored in a
// emirpasic/gods hashset.Set: the spec's watch/unwatch contract is
// refcounted ("watching the same actor twice requires two unwatch calls to
// silence it"), which a true set would collapse into a single membership
// bit — the one other deliberate deviation from the teacher's usual gods
// collection choice (see SPEC_FULL §4.5).
type watcher struct {
	mu sync.Mutex

	feed     map[string]map[string]int // observed path -> watcher path -> count
	watching map[string]map[string]int // watcher path -> observed path -> count (reverse index of feed)
	refs     map[string]ActorRef       // watcher path -> ActorRef, for delivery
	dead     map[string]bool           // observed paths already terminated
}

func newWatcher() *watcher {
	return &watcher{
		feed:     make(map[string]map[string]int),
		watching: make(map[string]map[string]int),
		refs:     make(map[string]ActorRef),
		dead:     make(map[string]bool),
	}
}

// watch registers watcherRef's interest in observed. If observed has already
// terminated, Terminated is delivered immediately and synchronously,
// matching the teacher's own handleWatch ("already stopped" fast path).
func (w *watcher) watch(watcherRef ActorRef, observed ActorRef) {
	w.mu.Lock()
	if w.dead[observed.Path().String()] {
		w.mu.Unlock()
		watcherRef.Tell(Terminated{Who: observed}, observed)
		return
	}
	okey := observed.Path().String()
	wkey := watcherRef.Path().String()
	if w.feed[okey] == nil {
		w.feed[okey] = make(map[string]int)
	}
	w.feed[okey][wkey]++
	if w.watching[wkey] == nil {
		w.watching[wkey] = make(map[string]int)
	}
	w.watching[wkey][okey]++
	w.refs[wkey] = watcherRef
	w.mu.Unlock()
}

// dropSubscription removes one (observed, watcher) subscription from both
// the forward (feed) and reverse (watching) indexes, pruning refs once the
// watcher has no outstanding subscriptions left anywhere. Caller must hold
// w.mu.
func (w *watcher) dropSubscription(okey, wkey string) {
	if subs, ok := w.feed[okey]; ok {
		if subs[wkey] <= 1 {
			delete(subs, wkey)
		} else {
			subs[wkey]--
		}
		if len(subs) == 0 {
			delete(w.feed, okey)
		}
	}
	if observed, ok := w.watching[wkey]; ok {
		if observed[okey] <= 1 {
			delete(observed, okey)
		} else {
			observed[okey]--
		}
		if len(observed) == 0 {
			delete(w.watching, wkey)
			delete(w.refs, wkey)
		}
	}
}

// unwatch decrements watcherRef's subscription count for observed; the
// subscription is only fully removed once the count reaches zero. Once
// watcherRef has no subscriptions left anywhere, its ref is pruned too, so a
// long-running system with many ephemeral watchers doesn't accumulate dead
// refs (spec §4.5, "balanced by the same number of unwatches to remove").
func (w *watcher) unwatch(watcherRef ActorRef, observed ActorRef) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropSubscription(observed.Path().String(), watcherRef.Path().String())
}

// registerTerminated marks observed as terminated and delivers exactly one
// Terminated to every distinct subscriber, regardless of how many times it
// called watch. Per spec §4.5, if the terminating actor was itself still
// recorded as a watcher of others, it is swept out of feed and unwatched
// from everything it was watching — a dead actor can't go on "watching"
// anyone, and leaving those entries behind would both leak them and make
// them deliverable to a ref nothing will ever read from again.
func (w *watcher) registerTerminated(observed ActorRef) {
	w.mu.Lock()
	key := observed.Path().String()
	w.dead[key] = true

	subs := w.feed[key]
	delete(w.feed, key)
	receivers := make([]ActorRef, 0, len(subs))
	for wkey := range subs {
		receivers = append(receivers, w.refs[wkey])
		if observedByW, ok := w.watching[wkey]; ok {
			delete(observedByW, key)
			if len(observedByW) == 0 {
				delete(w.watching, wkey)
				delete(w.refs, wkey)
			}
		}
	}

	if observing, ok := w.watching[key]; ok {
		for okey := range observing {
			w.dropSubscription(okey, key)
		}
		delete(w.watching, key)
	}
	delete(w.refs, key)
	w.mu.Unlock()

	for _, r := range receivers {
		if r != nil {
			r.Tell(Terminated{Who: observed}, observed)
		}
	}
}
