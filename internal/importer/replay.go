package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bittools/skyhub-importer/internal/domain"
)

// StatusReplayHandler consumes imported events and re-runs status
// synchronization for the referenced order. It backs the status worker:
// syncs that failed inline during import are retried from the event stream.
type StatusReplayHandler struct {
	orders OrderStore
	syncer StatusSyncer
	logger *slog.Logger
}

func NewStatusReplayHandler(orders OrderStore, syncer StatusSyncer, logger *slog.Logger) *StatusReplayHandler {
	return &StatusReplayHandler{
		orders: orders,
		syncer: syncer,
		logger: logger,
	}
}

func (h *StatusReplayHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderImportedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal imported event: %w", err)
	}

	order, err := h.orders.GetByID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", event.OrderID, err)
	}
	if order == nil {
		h.logger.Warn("imported event references unknown order", "order_id", event.OrderID, "code", event.Code)
		return nil
	}

	if err := h.syncer.ProcessOrderStatus(ctx, event.Code, event.StatusType, order); err != nil {
		return fmt.Errorf("sync status for order %s: %w", event.OrderID, err)
	}

	h.logger.Info("order status replayed", "order_id", order.ID, "code", event.Code, "status", order.Status)
	return nil
}
