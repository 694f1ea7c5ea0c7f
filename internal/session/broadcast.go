package session

import (
	"go.uber.org/zap"

	"codepair/internal/metrics"
	"codepair/internal/models"
)

// Broadcaster fans one event out to every member of a room except the
// originator.
type Broadcaster struct {
	registry *Registry
	log      *zap.Logger
}

func NewBroadcaster(registry *Registry, log *zap.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, log: log}
}

// Broadcast delivers event to every client in the room other than
// exclude (compared by identity; nil means deliver to all). A failed
// delivery is logged and counted but never aborts the batch: the failed
// recipient's own session notices the dead connection and cleans up.
func (b *Broadcaster) Broadcast(roomID string, event models.OutboundEvent, exclude *Client) {
	for _, c := range b.registry.Snapshot(roomID) {
		if c == exclude {
			continue
		}
		metrics.BroadcastDeliveries.Inc()
		if err := c.Send(event); err != nil {
			metrics.BroadcastFailures.Inc()
			b.log.Warn("broadcast delivery failed",
				zap.String("room", roomID),
				zap.String("event", event.Type),
				zap.Error(err))
		}
	}
}
