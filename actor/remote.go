package actor

import (
	"time"

	"github.com/nexusrt/actorkit/internal/remoting"
)

// RemoteActorRef is a handle to a cell hosted by another process, reached
// over a pooled TCP connection. It is the other ActorRef variant named by
// the spec's data model (§3); remoting itself (serialization, framing,
// connection pooling) is out of scope for the kernel and is only
// implemented here well enough to give this variant something real to
// terminate into (see SPEC_FULL §1, §4.10).
type RemoteActorRef struct {
	connID     string
	remoteID   string
	path       ActorPath
	controller *remoting.Pool
}

// NewRemoteActorRef constructs a ref addressing remoteID at the peer
// identified by connID, using controller to obtain the underlying
// connection lazily on send.
func NewRemoteActorRef(controller *remoting.Pool, connID, remoteID string, path ActorPath) *RemoteActorRef {
	return &RemoteActorRef{connID: connID, remoteID: remoteID, path: path, controller: controller}
}

func (r *RemoteActorRef) Tell(msg interface{}, sender ActorRef) {
	var senderID string
	if sender != nil {
		senderID = sender.Path().String()
	}
	err := r.controller.Send(r.connID, remoting.Packet{
		TargetID: r.remoteID,
		SenderID: senderID,
		Payload:  msg,
	})
	if err != nil {
		// Remote delivery errors are, per spec §7 category 4, surfaced as a
		// distinct message to the sender rather than dropped silently.
		if sender != nil {
			sender.Tell(&RemoteDeliveryError{Target: r.path, Cause: err}, r)
		}
	}
}

func (r *RemoteActorRef) Ask(sys *ActorSystem, msg interface{}) (interface{}, error) {
	return ask(sys, r, msg, defaultAskTimeout)
}

func (r *RemoteActorRef) AskTimeout(sys *ActorSystem, timeout time.Duration, msg interface{}) (interface{}, error) {
	return ask(sys, r, msg, timeout)
}

func (r *RemoteActorRef) Path() ActorPath { return r.path }

func (r *RemoteActorRef) Equal(other ActorRef) bool {
	return other != nil && r.Path().Equal(other.Path())
}

// RemoteDeliveryError is sent to a sender when a RemoteActorRef.Tell fails
// to reach its peer (spec §7, category 4).
type RemoteDeliveryError struct {
	Target ActorPath
	Cause  error
}

func (e *RemoteDeliveryError) Error() string {
	return "actor: remote delivery to " + e.Target.String() + " failed: " + e.Cause.Error()
}
