package actor

// SupervisionStrategy is the policy a cell applies to itself when its own
// receive returns an error. It is read once per failure, on the failing
// cell's own worker thread (spec §4.2 fail()), not decided by its parent.
type SupervisionStrategy int

const (
	// Resume leaves the child's state untouched; only pre_fail is called.
	Resume SupervisionStrategy = iota
	// Stop tears the child (and its descendants) down permanently.
	Stop
	// Restart re-creates the child's user actor object, replaying no
	// mailbox state beyond what a Stash held.
	Restart
	// Escalate re-raises the error to the parent's own fail(), walking the
	// tree upward until some ancestor resolves it or the root is reached
	// (a programming error — see KindEscalatePastRoot).
	Escalate
)

func (s SupervisionStrategy) String() string {
	switch s {
	case Resume:
		return "Resume"
	case Stop:
		return "Stop"
	case Restart:
		return "Restart"
	case Escalate:
		return "Escalate"
	default:
		return "Unknown"
	}
}
