package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bittools/skyhub-importer/internal/config"
	"github.com/bittools/skyhub-importer/internal/domain"
)

const importComment = "This order was automatically created by the SkyHub import process."

// Processor drives a single marketplace order through the import pipeline:
// idempotency gate, customer resolution, product matching, assembly,
// persistence and status synchronization.
type Processor struct {
	orders    OrderStore
	customers CustomerStore
	catalog   CatalogStore
	status    StatusSyncer
	events    EventPublisher
	attrs     AttributeMapper
	logger    *slog.Logger
}

func NewProcessor(
	orders OrderStore,
	customers CustomerStore,
	catalog CatalogStore,
	status StatusSyncer,
	events EventPublisher,
	attrs AttributeMapper,
	logger *slog.Logger,
) *Processor {
	if attrs == nil {
		attrs = NoopAttributeMapper{}
	}
	return &Processor{
		orders:    orders,
		customers: customers,
		catalog:   catalog,
		status:    status,
		events:    events,
		attrs:     attrs,
		logger:    logger,
	}
}

// ImportOrder creates (or idempotently returns) the local order for a
// marketplace payload. The marketplace code is the sole idempotency key:
// when an order already exists for it, that order is returned unchanged and
// nothing else happens. Failures during creation are published as an
// integration event carrying the original payload and returned to the
// caller, which treats the reference as skipped.
func (p *Processor) ImportOrder(ctx context.Context, scope config.StoreScope, payload domain.Payload) (*domain.Order, error) {
	code := payload.String("code")
	channel := payload.String("channel")

	existing, err := p.orders.FindByMarketplaceCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup order by marketplace code %s: %w", code, err)
	}
	if existing != nil {
		p.logger.Info("order already imported", "code", code, "order_id", existing.ID)
		return existing, nil
	}

	order, err := p.createOrder(ctx, scope, code, channel, payload)
	if err != nil {
		p.logger.Error("order import failed", "code", code, "error", err)
		p.publishFailed(ctx, scope, code, payload, err)
		return nil, err
	}

	p.logger.Info("order imported", "code", code, "order_id", order.ID, "items", len(order.Items))

	statusType := payload.String("status/type")
	if err := p.status.ProcessOrderStatus(ctx, code, statusType, order); err != nil {
		// Sync failure after a successful create is not fatal: the next
		// import of the same code hits the idempotency gate and the status
		// worker picks the order up from the imported event.
		p.logger.Error("status sync failed", "code", code, "order_id", order.ID, "error", err)
	}

	p.publishImported(ctx, scope, order, statusType)

	return order, nil
}

func (p *Processor) createOrder(ctx context.Context, scope config.StoreScope, code, channel string, payload domain.Payload) (*domain.Order, error) {
	book := newAddressBook()

	customer, err := p.resolveCustomer(ctx, scope, payload, book)
	if err != nil {
		return nil, err
	}

	matches, err := p.matchItems(ctx, payload.Slice("items"))
	if err != nil {
		return nil, err
	}

	assembler := NewAssembler(scope).
		SetCustomer(customer).
		SetShippingMethod(payload.String("shipping_method"), payload.String("shipping_carrier"), payload.Decimal("shipping_cost")).
		SetDiscountAmount(payload.Decimal("discount")).
		SetInterestAmount(payload.Decimal("interest")).
		AddOrderAddress(book.billing(), domain.AddressRoleBilling).
		AddOrderAddress(book.shipping(), domain.AddressRoleShipping).
		SetComment(importComment)

	if !scope.UseDefaultIncrementID {
		assembler.SetOrderNumber(code)
	}

	for _, match := range matches {
		assembler.AddProduct(match)
	}

	order, err := assembler.Create()
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot payload for order %s: %w", code, err)
	}

	order.SkyhubImported = true
	order.SkyhubCode = code
	order.SkyhubChannel = channel
	order.SkyhubPayload = snapshot

	if err := p.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order %s: %w", code, err)
	}

	return order, nil
}

func (p *Processor) publishImported(ctx context.Context, scope config.StoreScope, order *domain.Order, statusType string) {
	if p.events == nil {
		return
	}

	event := domain.OrderImportedEvent{
		OrderID:    order.ID,
		Code:       order.SkyhubCode,
		Channel:    order.SkyhubChannel,
		StatusType: statusType,
		StoreID:    scope.StoreID,
		Timestamp:  time.Now().UTC(),
	}
	if err := p.events.Publish(ctx, order.SkyhubCode, event); err != nil {
		p.logger.Error("failed to publish imported event", "code", order.SkyhubCode, "error", err)
	}
}

func (p *Processor) publishFailed(ctx context.Context, scope config.StoreScope, code string, payload domain.Payload, cause error) {
	if p.events == nil {
		return
	}

	snapshot, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to snapshot payload for failed event", "code", code, "error", err)
	}

	event := domain.OrderImportFailedEvent{
		Code:      code,
		StoreID:   scope.StoreID,
		Error:     cause.Error(),
		Payload:   snapshot,
		Timestamp: time.Now().UTC(),
	}
	if err := p.events.Publish(ctx, code, event); err != nil {
		p.logger.Error("failed to publish import failed event", "code", code, "error", err)
	}
}
