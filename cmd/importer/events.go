package main

import (
	"context"

	"github.com/bittools/skyhub-importer/internal/domain"
	"github.com/bittools/skyhub-importer/internal/messaging"
)

// eventRouter sends each integration event to its topic. Producers are nil
// when Kafka is not configured; the events are then silently dropped.
type eventRouter struct {
	imported *messaging.Producer
	failed   *messaging.Producer
}

func newEventRouter(imported, failed *messaging.Producer) *eventRouter {
	return &eventRouter{imported: imported, failed: failed}
}

func (r *eventRouter) Publish(ctx context.Context, key string, event any) error {
	switch event.(type) {
	case domain.OrderImportFailedEvent:
		if r.failed == nil {
			return nil
		}
		return r.failed.Publish(ctx, key, event)
	default:
		if r.imported == nil {
			return nil
		}
		return r.imported.Publish(ctx, key, event)
	}
}
