package chat

import "context"

// Broker transports events from publishers to the hub. Two
// implementations exist: ChannelBroker (single node, in-process) and
// KafkaBroker (distributed). Selected by config in main.
type Broker interface {
	// Publish hands an event to the transport. Non-blocking from the
	// caller's perspective; failures are non-fatal and safe to retry.
	Publish(ctx context.Context, evt Event) error
	// Start runs the consume loop feeding the hub.
	Start()
	// Close releases transport resources.
	Close()
}
