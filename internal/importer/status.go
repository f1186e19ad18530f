package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bittools/skyhub-importer/internal/domain"
)

// Marketplace status types as SkyHub reports them.
const (
	StatusTypeNew            = "NEW"
	StatusTypeApproved       = "APPROVED"
	StatusTypeShipped        = "SHIPPED"
	StatusTypeDelivered      = "DELIVERED"
	StatusTypeCancelled      = "CANCELED"
	StatusTypePaymentOverdue = "PAYMENT_OVERDUE"
)

// Synchronizer maps marketplace status types onto local order state
// transitions and persists them.
type Synchronizer struct {
	orders OrderStore
	logger *slog.Logger
}

func NewSynchronizer(orders OrderStore, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{orders: orders, logger: logger}
}

func (s *Synchronizer) ProcessOrderStatus(ctx context.Context, code, statusType string, order *domain.Order) error {
	target, known := statusForType(statusType)
	if !known {
		s.logger.Warn("unknown marketplace status type", "code", code, "status_type", statusType)
		return nil
	}

	if order.Status == target {
		return nil
	}

	updated, err := s.orders.UpdateStatus(ctx, order.ID, target)
	if err != nil {
		return fmt.Errorf("update order %s status: %w", order.ID, err)
	}
	if updated == nil {
		return fmt.Errorf("order %s disappeared during status sync", order.ID)
	}

	order.Status = target
	s.logger.Info("order status synchronized", "code", code, "order_id", order.ID, "status", target)

	return nil
}

func statusForType(statusType string) (domain.OrderStatus, bool) {
	switch statusType {
	case StatusTypeNew:
		return domain.OrderStatusPending, true
	case StatusTypeApproved:
		return domain.OrderStatusProcessing, true
	case StatusTypeShipped:
		return domain.OrderStatusShipped, true
	case StatusTypeDelivered:
		return domain.OrderStatusComplete, true
	case StatusTypeCancelled, StatusTypePaymentOverdue:
		return domain.OrderStatusCancelled, true
	default:
		return "", false
	}
}
