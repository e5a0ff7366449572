package chat

import (
	"context"

	"go.uber.org/zap"
)

// ChannelBroker routes events straight into the hub's transmit
// channel. Suitable for a single-node deployment; no external
// dependency.
type ChannelBroker struct {
	hub *Hub
}

// NewChannelBroker wires the in-process broker to the hub.
func NewChannelBroker(hub *Hub) *ChannelBroker {
	return &ChannelBroker{hub: hub}
}

func (b *ChannelBroker) Publish(ctx context.Context, evt Event) error {
	select {
	case b.hub.Transmit <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// A full hub channel only delays the live view; the store of
		// record already has the mutation.
		zap.L().Warn("hub transmit channel full, dropping event",
			zap.String("type", string(evt.Type)),
			zap.String("session_id", evt.SessionId),
		)
		return nil
	}
}

// Start is a no-op: the hub's own loop drains the channel.
func (b *ChannelBroker) Start() {}

func (b *ChannelBroker) Close() {}
