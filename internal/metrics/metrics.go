// Package metrics holds the Prometheus collectors the actor kernel updates
// as it schedules, processes, and supervises messages. Each ActorSystem owns
// its own Registry so that more than one system can run in the same process
// (notably in tests) without colliding on collector registration.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the collectors exposed by a single ActorSystem.
type Registry struct {
	reg *prometheus.Registry

	MessagesProcessed prometheus.Counter
	DeadLetters       prometheus.Counter
	ActorsStarted     prometheus.Counter
	ActorsStopped     prometheus.Counter
	Restarts          prometheus.Counter
	AskTimeouts       prometheus.Counter
	MailboxDepth      prometheus.Gauge
	DispatchLatency   prometheus.Histogram
}

// New builds a fresh, independently-registered Registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		MessagesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actorkit_messages_processed_total",
			Help: "Total number of user messages receive() handled without error.",
		}),
		DeadLetters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actorkit_dead_letters_total",
			Help: "Total number of envelopes routed to dead letters.",
		}),
		ActorsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actorkit_actors_started_total",
			Help: "Total number of cells that have completed start().",
		}),
		ActorsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actorkit_actors_stopped_total",
			Help: "Total number of cells that have completed stop().",
		}),
		Restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actorkit_restarts_total",
			Help: "Total number of cells restarted by supervision.",
		}),
		AskTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actorkit_ask_timeouts_total",
			Help: "Total number of ask() calls that resolved via timeout.",
		}),
		MailboxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "actorkit_mailbox_depth",
			Help: "Sum of pending envelopes across all live mailboxes.",
		}),
		DispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "actorkit_dispatch_latency_seconds",
			Help:    "Time spent inside each receive() call.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		r.MessagesProcessed, r.DeadLetters, r.ActorsStarted, r.ActorsStopped,
		r.Restarts, r.AskTimeouts, r.MailboxDepth, r.DispatchLatency,
	)
	return r
}

// Gatherer exposes the underlying registry for embedding into a host's
// /metrics endpoint.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
