package actor

// Producer constructs a fresh user actor instance; it is called once at
// cell creation and once again on every Restart.
type Producer func() Actor

// Props bundles everything needed to create a cell: how to produce the user
// actor, which dispatcher to schedule it on, and the strategy applied to
// this actor itself (not its children) when its own receive fails.
type Props struct {
	producer   Producer
	dispatcher string
	strategy   SupervisionStrategy
}

// PropsFromProducer builds Props with the default dispatcher and a Resume
// strategy, matching the root guardian's own strategy.
func PropsFromProducer(p Producer) *Props {
	return &Props{producer: p, dispatcher: DefaultDispatcherName, strategy: Resume}
}

// WithDispatcher returns a copy of Props bound to the named dispatcher.
func (p *Props) WithDispatcher(name string) *Props {
	cp := *p
	cp.dispatcher = name
	return &cp
}

// WithSupervisionStrategy returns a copy of Props that applies strategy to
// this actor's own failures.
func (p *Props) WithSupervisionStrategy(strategy SupervisionStrategy) *Props {
	cp := *p
	cp.strategy = strategy
	return &cp
}
